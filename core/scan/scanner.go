package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"melisma/logger"
	"melisma/model"
	"melisma/storage"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
}

// Scanner imports audio files into the library: tags become artist/release/
// track rows, audio bytes go to object storage.
type Scanner struct {
	db     *gorm.DB
	client *minio.Client // nil skips the object upload
	bucket string
}

// NewScanner creates a Scanner. client may be nil to import metadata only.
func NewScanner(db *gorm.DB, client *minio.Client, bucket string) *Scanner {
	return &Scanner{db: db, client: client, bucket: bucket}
}

// ImportDir walks dir and imports every audio file it can read tags from.
// Returns the number of tracks imported. Unreadable files are logged and
// skipped.
func (s *Scanner) ImportDir(ctx context.Context, dir string) (int, error) {
	imported := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		contentType, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		if err := s.importFile(ctx, path, contentType); err != nil {
			logger.Warn("Skipping file", logger.String("path", path), logger.ErrorField(err))
			return nil
		}
		imported++
		return nil
	})
	if err != nil {
		return imported, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return imported, nil
}

func (s *Scanner) importFile(ctx context.Context, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("failed to read tags: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat: %w", err)
	}

	artistName := meta.AlbumArtist()
	if artistName == "" {
		artistName = meta.Artist()
	}
	if artistName == "" {
		artistName = "Unknown Artist"
	}
	releaseTitle := meta.Album()
	if releaseTitle == "" {
		releaseTitle = "Unknown Release"
	}
	title := meta.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	trackNumber, _ := meta.Track()
	mediaNumber, _ := meta.Disc()
	if mediaNumber < 1 {
		mediaNumber = 1
	}

	artist, err := s.upsertArtist(ctx, artistName)
	if err != nil {
		return err
	}
	release, err := s.upsertRelease(ctx, artist.ID, releaseTitle, meta.Year())
	if err != nil {
		return err
	}
	if genre := meta.Genre(); genre != "" {
		if err := s.attachGenre(ctx, release.ID, genre); err != nil {
			return err
		}
	}

	track := model.Track{
		ExternalID:  uuid.New(),
		ReleaseID:   release.ID,
		Title:       title,
		TrackArtist: trackArtistOverride(meta.Artist(), artistName),
		MediaNumber: mediaNumber,
		TrackNumber: trackNumber,
		FileSize:    info.Size(),
	}
	err = s.db.WithContext(ctx).
		Where(model.Track{ReleaseID: release.ID, Title: title, MediaNumber: mediaNumber, TrackNumber: trackNumber}).
		FirstOrCreate(&track).Error
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}

	if s.client != nil {
		objectKey := storage.TrackObjectKey(track.ExternalID)
		_, err = s.client.FPutObject(ctx, s.bucket, objectKey, path, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return fmt.Errorf("failed to upload audio object: %w", err)
		}
	}

	logger.Info("Imported track",
		logger.String("artist", artistName),
		logger.String("release", releaseTitle),
		logger.String("title", title))
	return nil
}

func (s *Scanner) upsertArtist(ctx context.Context, name string) (*model.Artist, error) {
	artist := model.Artist{
		ExternalID: uuid.New(),
		Name:       name,
		SortName:   sortNameFor(name),
	}
	err := s.db.WithContext(ctx).
		Where(model.Artist{Name: name}).
		FirstOrCreate(&artist).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert artist %q: %w", name, err)
	}
	return &artist, nil
}

func (s *Scanner) upsertRelease(ctx context.Context, artistID int64, title string, year int) (*model.Release, error) {
	release := model.Release{
		ExternalID:  uuid.New(),
		ArtistID:    artistID,
		Title:       title,
		SortTitle:   sortNameFor(title),
		ReleaseYear: year,
	}
	err := s.db.WithContext(ctx).
		Where(model.Release{ArtistID: artistID, Title: title}).
		FirstOrCreate(&release).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert release %q: %w", title, err)
	}
	return &release, nil
}

func (s *Scanner) attachGenre(ctx context.Context, releaseID int64, name string) error {
	genre := model.Genre{Name: name}
	err := s.db.WithContext(ctx).
		Where(model.Genre{Name: name}).
		FirstOrCreate(&genre).Error
	if err != nil {
		return fmt.Errorf("failed to upsert genre %q: %w", name, err)
	}

	link := model.ReleaseGenre{ReleaseID: releaseID, GenreID: genre.ID}
	err = s.db.WithContext(ctx).
		Where(link).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("failed to link genre %q: %w", name, err)
	}
	return nil
}

// trackArtistOverride keeps the per-track artist only when it differs from
// the release artist.
func trackArtistOverride(trackArtist, releaseArtist string) string {
	if trackArtist == "" || trackArtist == releaseArtist {
		return ""
	}
	return trackArtist
}

// sortNameFor moves a leading English article to the end ("The Knife" ->
// "Knife, The") so browse groups follow the significant word.
func sortNameFor(name string) string {
	for _, article := range []string{"The ", "A ", "An "} {
		if strings.HasPrefix(name, article) && len(name) > len(article) {
			return name[len(article):] + ", " + strings.TrimSpace(article)
		}
	}
	return name
}
