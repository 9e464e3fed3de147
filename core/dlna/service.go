package dlna

import (
	"context"
	"fmt"
	"time"

	"melisma/logger"
	"melisma/metrics"
	"melisma/model"

	"github.com/google/uuid"
)

// Library is the read interface the projection consumes. List methods
// return rows in final display order.
type Library interface {
	ArtistGroups(ctx context.Context) ([]string, error)
	ArtistsByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error)
	ArtistByID(ctx context.Context, artistID int64) (*model.EntityRef, error)
	ReleaseGroups(ctx context.Context) ([]string, error)
	ReleasesByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error)
	ReleasesByArtist(ctx context.Context, artistID int64) ([]model.EntityRef, error)
	ReleaseByID(ctx context.Context, releaseID int64) (*model.EntityRef, error)
	Collections(ctx context.Context) ([]model.EntityRef, error)
	Playlists(ctx context.Context) ([]model.EntityRef, error)
	TracksByRelease(ctx context.Context, releaseID int64) ([]model.TrackInfo, error)
	TracksByCollection(ctx context.Context, collectionID int64) ([]model.TrackInfo, error)
	TracksByPlaylist(ctx context.Context, playlistID int64) ([]model.TrackInfo, error)
	RandomTracks(ctx context.Context, limit int, ratedOnly bool) ([]model.TrackInfo, error)
	TrackByID(ctx context.Context, releaseID, trackID int64) (*model.TrackInfo, error)
}

// CoverArtProvider fetches thumbnail bytes for a release. A missing cover
// is (nil, nil), never an error that blocks tree construction.
type CoverArtProvider interface {
	FetchCoverArt(ctx context.Context, releaseExternalID uuid.UUID, width, height int) ([]byte, error)
}

// AudioStore fetches raw audio bytes for a track.
type AudioStore interface {
	FetchTrackBytes(ctx context.Context, trackExternalID uuid.UUID, offset, length int64) ([]byte, error)
}

// Scrobbler records one play. Implementations must be cheap to call from
// the byte-serving path; failures are logged by the caller and dropped.
type Scrobbler interface {
	RecordPlay(ctx context.Context, trackExternalID uuid.UUID, playedAt time.Time) error
}

// Config tunes the projection.
type Config struct {
	RandomTrackCount int           // slots in each randomizer folder
	CoverSize        int           // square thumbnail edge in pixels
	PlayDedupWindow  time.Duration // repeated reads of one token inside this window record one play
}

func (c *Config) withDefaults() {
	if c.RandomTrackCount <= 0 {
		c.RandomTrackCount = 50
	}
	if c.CoverSize <= 0 {
		c.CoverSize = 320
	}
	if c.PlayDedupWindow <= 0 {
		c.PlayDedupWindow = time.Second
	}
}

// Cache regions. Each region is invalidated whole when its slice of the
// library changes.
const (
	RegionArtists     = "artists"
	RegionReleases    = "releases"
	RegionCollections = "collections"
	RegionPlaylists   = "playlists"
)

// Service projects the relational library into a lazily-materialized
// virtual folder tree for DLNA clients, and streams track bytes on demand.
type Service struct {
	lib       Library
	covers    CoverArtProvider
	audio     AudioStore
	scrobbler Scrobbler
	cfg       Config

	cache *folderCache
	plays *playTracker

	stopJanitor chan struct{}
}

// NewService creates a Service and starts its play-token janitor.
func NewService(lib Library, covers CoverArtProvider, audio AudioStore, scrobbler Scrobbler, cfg Config) *Service {
	cfg.withDefaults()
	s := &Service{
		lib:         lib,
		covers:      covers,
		audio:       audio,
		scrobbler:   scrobbler,
		cfg:         cfg,
		cache:       newFolderCache(),
		plays:       newPlayTracker(cfg.PlayDedupWindow),
		stopJanitor: make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Close stops the background janitor.
func (s *Service) Close() {
	close(s.stopJanitor)
}

// janitor periodically drops play tokens that are long past the
// de-duplication window.
func (s *Service) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopJanitor:
			return
		case <-ticker.C:
			if removed := s.plays.sweep(60 * s.cfg.PlayDedupWindow); removed > 0 {
				logger.Debug("Swept stale play tokens", logger.Int("removed", removed))
			}
		}
	}
}

// Invalidate clears one cache region after the underlying library changed.
func (s *Service) Invalidate(region string) {
	s.cache.ClearRegion(region)
}

// InvalidateAll clears every cache region.
func (s *Service) InvalidateAll() {
	s.cache.Clear()
}

// GetItem is the sole entry point: it resolves an opaque object id to its
// node. isFileRequest asks for audio bytes on track leaves and is ignored
// for every other level.
func (s *Service) GetItem(ctx context.Context, id string, isFileRequest bool) (Node, error) {
	oid, err := Decode(id)
	if err != nil {
		metrics.UnknownIdentifiers.Inc()
		logger.Warn("Unresolvable object id", logger.String("id", id))
		return nil, err
	}
	metrics.BrowseRequests.WithLabelValues(oid.Kind.String()).Inc()

	switch oid.Kind {
	case KindRoot:
		return s.buildRoot(), nil
	case KindArtists:
		return s.buildArtistsIndex(ctx)
	case KindCollections:
		return s.buildCollections(ctx)
	case KindPlaylists:
		return s.buildPlaylists(ctx)
	case KindReleases:
		return s.buildReleasesIndex(ctx)
	case KindRandomizer:
		return s.buildRandomizer(), nil
	case KindRandomTracks:
		return s.buildRandomTracks(ctx, false)
	case KindRandomRatedTracks:
		return s.buildRandomTracks(ctx, true)
	case KindPlaylistTracks:
		return s.buildPlaylistTracks(ctx, oid.EntityID)
	case KindArtistGroup:
		return s.buildArtistGroup(ctx, oid.GroupKey)
	case KindCollectionReleases:
		return s.buildCollectionReleases(ctx, oid.EntityID)
	case KindReleaseGroup:
		return s.buildReleaseGroup(ctx, oid.GroupKey)
	case KindArtist:
		return s.buildArtist(ctx, oid.EntityID)
	case KindRelease:
		return s.buildRelease(ctx, oid.EntityID)
	case KindTrack:
		return s.resolveTrack(ctx, oid, isFileRequest)
	default:
		metrics.UnknownIdentifiers.Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
}
