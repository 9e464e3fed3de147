package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"melisma/logger"
	"melisma/repository"

	"github.com/gorilla/mux"
)

// APIHandler serves the REST read API over the library.
type APIHandler struct {
	lib *repository.LibraryRepository
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(lib *repository.LibraryRepository) *APIHandler {
	return &APIHandler{lib: lib}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// GetArtistsHandler lists all artists.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.lib.Artists(r.Context())
	if err != nil {
		logger.Error("Failed to list artists", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list artists")
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// GetArtistReleasesHandler lists one artist's releases.
func (h *APIHandler) GetArtistReleasesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid artist id")
		return
	}
	releases, err := h.lib.ReleasesByArtist(r.Context(), id)
	if err != nil {
		logger.Error("Failed to list releases", logger.Int64("artistId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list releases")
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

// GetReleaseTracksHandler lists one release's tracks.
func (h *APIHandler) GetReleaseTracksHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid release id")
		return
	}
	tracks, err := h.lib.TracksByRelease(r.Context(), id)
	if err != nil {
		logger.Error("Failed to list tracks", logger.Int64("releaseId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GetCollectionsHandler lists all collections.
func (h *APIHandler) GetCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := h.lib.Collections(r.Context())
	if err != nil {
		logger.Error("Failed to list collections", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}
	writeJSON(w, http.StatusOK, collections)
}

// GetPlaylistsHandler lists all playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.lib.Playlists(r.Context())
	if err != nil {
		logger.Error("Failed to list playlists", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// GetPlaylistTracksHandler lists one playlist's tracks in playlist order.
func (h *APIHandler) GetPlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	tracks, err := h.lib.TracksByPlaylist(r.Context(), id)
	if err != nil {
		logger.Error("Failed to list playlist tracks", logger.Int64("playlistId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list playlist tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
