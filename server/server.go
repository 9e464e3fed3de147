package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"melisma/cache"
	"melisma/config"
	"melisma/core/dlna"
	"melisma/core/scrobble"
	"melisma/db"
	"melisma/logger"
	"melisma/repository"
	"melisma/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Start initializes collaborators and runs the HTTP server until a
// termination signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	libRepo := repository.NewLibraryRepository(db.GormDB)
	playRepo := repository.NewPlayRepository(db.GormDB)
	recorder := scrobble.NewRecorder(playRepo)
	defer recorder.Close()

	minioClient := storage.GetMinioClient()
	trackStore := storage.NewTrackStore(minioClient, cfg.MinioBucket)
	coverStore := storage.NewCoverStore(minioClient, cfg.MinioBucket)

	dlnaService := dlna.NewService(libRepo, coverStore, trackStore, recorder, dlna.Config{
		RandomTrackCount: cfg.RandomTrackCount,
		CoverSize:        cfg.CoverSize,
		PlayDedupWindow:  time.Duration(cfg.PlayDedupWindow) * time.Millisecond,
	})
	defer dlnaService.Close()

	apiHandler := NewAPIHandler(libRepo)
	dlnaHandler := NewDLNAHandler(dlnaService)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// REST read API.
	router.HandleFunc("/api/artists", apiHandler.GetArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/releases", apiHandler.GetArtistReleasesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}/tracks", apiHandler.GetReleaseTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/collections", apiHandler.GetCollectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.GetPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/tracks", apiHandler.GetPlaylistTracksHandler).Methods(http.MethodGet)

	// DLNA browse and file surface.
	router.HandleFunc("/dlna/object/{id:.+}", dlnaHandler.BrowseHandler).Methods(http.MethodGet)
	router.HandleFunc("/dlna/file/{id:.+}", dlnaHandler.FileHandler).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // file responses carry whole tracks
		IdleTimeout:  120 * time.Second,
	}

	var advertiser *Advertiser
	if cfg.SSDPEnabled {
		adv, err := StartAdvertiser(cfg)
		if err != nil {
			logger.Warn("SSDP advertisement disabled", logger.ErrorField(err))
		} else {
			advertiser = adv
		}
	}

	go func() {
		logger.Info("Server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	if advertiser != nil {
		advertiser.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", logger.ErrorField(err))
	}
}
