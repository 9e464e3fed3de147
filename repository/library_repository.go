package repository

import (
	"context"
	"fmt"

	"melisma/model"

	"gorm.io/gorm"
)

// trackColumns is the denormalized select list behind every TrackInfo query.
const trackColumns = `
	t.id AS track_id,
	t.external_id,
	t.release_id,
	t.title,
	COALESCE(t.track_artist, '') AS track_artist,
	t.media_number,
	t.track_number,
	COALESCE(t.duration_secs, 0) AS duration,
	t.rating,
	COALESCE(t.part_titles, '') AS part_titles,
	t.file_size,
	t.updated_at,
	r.external_id AS release_external_id,
	r.title AS release_title,
	COALESCE(r.release_year, 0) AS release_year,
	a.name AS artist_name,
	COALESCE((SELECT GROUP_CONCAT(g.name ORDER BY g.name SEPARATOR '/')
		FROM release_genres rg JOIN genres g ON g.id = rg.genre_id
		WHERE rg.release_id = r.id), '') AS genres`

// LibraryRepository serves read queries over the music library. It backs
// both the REST read API and the DLNA tree projection.
type LibraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository creates a LibraryRepository over the given handle.
func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// artistsWithReleases lists artists that have at least one release, in sort
// name order.
func (r *LibraryRepository) artistsWithReleases(ctx context.Context) ([]model.Artist, error) {
	var artists []model.Artist
	err := r.db.WithContext(ctx).
		Distinct("artists.*").
		Joins("JOIN releases ON releases.artist_id = artists.id").
		Order("artists.sort_name").
		Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query artists with releases: %w", err)
	}
	return artists, nil
}

// ArtistGroups lists the distinct group keys across artists that have at
// least one release, in key order.
func (r *LibraryRepository) ArtistGroups(ctx context.Context) ([]string, error) {
	artists, err := r.artistsWithReleases(ctx)
	if err != nil {
		return nil, err
	}
	return groupKeys(artists, func(a model.Artist) string { return a.SortName }), nil
}

// ArtistsByGroup lists the artists whose group key equals groupKey, in sort
// name order.
func (r *LibraryRepository) ArtistsByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error) {
	artists, err := r.artistsWithReleases(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]model.EntityRef, 0)
	for i := range artists {
		if ref := artists[i].Ref(); ref.GroupKey == groupKey {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// ArtistByID loads one artist, nil when the row is gone.
func (r *LibraryRepository) ArtistByID(ctx context.Context, artistID int64) (*model.EntityRef, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).First(&artist, artistID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query artist %d: %w", artistID, err)
	}
	ref := artist.Ref()
	return &ref, nil
}

// ReleaseGroups lists the distinct group keys across all releases, in key order.
func (r *LibraryRepository) ReleaseGroups(ctx context.Context) ([]string, error) {
	releases, err := r.allReleases(ctx)
	if err != nil {
		return nil, err
	}
	return groupKeys(releases, func(rel model.Release) string { return rel.SortTitle }), nil
}

// ReleasesByGroup lists the releases whose group key equals groupKey, in
// sort title order.
func (r *LibraryRepository) ReleasesByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error) {
	releases, err := r.allReleases(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]model.EntityRef, 0)
	for i := range releases {
		if ref := releases[i].Ref(); ref.GroupKey == groupKey {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (r *LibraryRepository) allReleases(ctx context.Context) ([]model.Release, error) {
	var releases []model.Release
	err := r.db.WithContext(ctx).Order("sort_title").Find(&releases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	return releases, nil
}

// ReleasesByArtist lists an artist's releases ordered by release year then
// sort title.
func (r *LibraryRepository) ReleasesByArtist(ctx context.Context, artistID int64) ([]model.EntityRef, error) {
	var releases []model.Release
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("release_year, sort_title").
		Find(&releases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query releases for artist %d: %w", artistID, err)
	}
	refs := make([]model.EntityRef, 0, len(releases))
	for i := range releases {
		refs = append(refs, releases[i].Ref())
	}
	return refs, nil
}

// ReleaseByID loads one release, nil when the row is gone.
func (r *LibraryRepository) ReleaseByID(ctx context.Context, releaseID int64) (*model.EntityRef, error) {
	var release model.Release
	err := r.db.WithContext(ctx).First(&release, releaseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query release %d: %w", releaseID, err)
	}
	ref := release.Ref()
	return &ref, nil
}

// Collections lists all collections in sort name order.
func (r *LibraryRepository) Collections(ctx context.Context) ([]model.EntityRef, error) {
	var collections []model.Collection
	err := r.db.WithContext(ctx).Order("sort_name").Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	refs := make([]model.EntityRef, 0, len(collections))
	for i := range collections {
		refs = append(refs, collections[i].Ref())
	}
	return refs, nil
}

// Playlists lists all playlists in name order.
func (r *LibraryRepository) Playlists(ctx context.Context) ([]model.EntityRef, error) {
	var playlists []model.Playlist
	err := r.db.WithContext(ctx).Order("name").Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	refs := make([]model.EntityRef, 0, len(playlists))
	for i := range playlists {
		refs = append(refs, playlists[i].Ref())
	}
	return refs, nil
}

// TracksByRelease lists a release's tracks ordered by media number then
// track number, with all display fields joined in.
func (r *LibraryRepository) TracksByRelease(ctx context.Context, releaseID int64) ([]model.TrackInfo, error) {
	query := `SELECT` + trackColumns + `
	FROM tracks t
	JOIN releases r ON r.id = t.release_id
	JOIN artists a ON a.id = r.artist_id
	WHERE t.release_id = ?
	ORDER BY t.media_number, t.track_number`

	return r.scanTracks(ctx, query, releaseID)
}

// TracksByCollection flattens a collection into tracks ordered by the
// collection's list numbers, then media and track number.
func (r *LibraryRepository) TracksByCollection(ctx context.Context, collectionID int64) ([]model.TrackInfo, error) {
	query := `SELECT` + trackColumns + `,
	cr.list_number
	FROM tracks t
	JOIN releases r ON r.id = t.release_id
	JOIN artists a ON a.id = r.artist_id
	JOIN collection_releases cr ON cr.release_id = r.id
	WHERE cr.collection_id = ?
	ORDER BY cr.list_number, t.media_number, t.track_number`

	return r.scanTracks(ctx, query, collectionID)
}

// TracksByPlaylist lists a playlist's tracks in playlist order.
func (r *LibraryRepository) TracksByPlaylist(ctx context.Context, playlistID int64) ([]model.TrackInfo, error) {
	query := `SELECT` + trackColumns + `,
	pt.list_number
	FROM tracks t
	JOIN releases r ON r.id = t.release_id
	JOIN artists a ON a.id = r.artist_id
	JOIN playlist_tracks pt ON pt.track_id = t.id
	WHERE pt.playlist_id = ?
	ORDER BY pt.list_number`

	return r.scanTracks(ctx, query, playlistID)
}

// RandomTracks draws up to limit tracks in random order, optionally only
// rated ones. Never cached by callers: every call is a fresh draw.
func (r *LibraryRepository) RandomTracks(ctx context.Context, limit int, ratedOnly bool) ([]model.TrackInfo, error) {
	query := `SELECT` + trackColumns + `
	FROM tracks t
	JOIN releases r ON r.id = t.release_id
	JOIN artists a ON a.id = r.artist_id`
	if ratedOnly {
		query += `
	WHERE t.rating >= 1`
	}
	query += `
	ORDER BY RAND()
	LIMIT ?`

	return r.scanTracks(ctx, query, limit)
}

// TrackByID loads one denormalized track row, nil when the row is gone or
// the release id does not match.
func (r *LibraryRepository) TrackByID(ctx context.Context, releaseID, trackID int64) (*model.TrackInfo, error) {
	query := `SELECT` + trackColumns + `
	FROM tracks t
	JOIN releases r ON r.id = t.release_id
	JOIN artists a ON a.id = r.artist_id
	WHERE t.release_id = ? AND t.id = ?`

	tracks, err := r.scanTracks(ctx, query, releaseID, trackID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil
	}
	return &tracks[0], nil
}

// Artists lists every artist for the REST read API.
func (r *LibraryRepository) Artists(ctx context.Context) ([]model.Artist, error) {
	var artists []model.Artist
	err := r.db.WithContext(ctx).Order("sort_name").Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	return artists, nil
}

func (r *LibraryRepository) scanTracks(ctx context.Context, query string, args ...interface{}) ([]model.TrackInfo, error) {
	var rows []trackRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}

	tracks := make([]model.TrackInfo, 0, len(rows))
	for i := range rows {
		tracks = append(tracks, rows[i].toInfo())
	}
	return tracks, nil
}

func groupKeys[T any](items []T, sortName func(T) string) []string {
	keys := make([]string, 0)
	seen := make(map[string]bool)
	for _, item := range items {
		key := model.GroupKeyFor(sortName(item))
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
