package dlna

import (
	"context"
	"fmt"

	"melisma/logger"
	"melisma/model"
)

// buildRoot lists the five top-level categories.
func (s *Service) buildRoot() Node {
	return &Folder{
		ID:   RootID,
		Name: "Music",
		Children: []Node{
			&Folder{ID: ArtistsID, Name: "Artists"},
			&Folder{ID: CollectionsID, Name: "Collections"},
			&Folder{ID: PlaylistsID, Name: "Playlists"},
			&Folder{ID: RandomizerID, Name: "Randomizer"},
			&Folder{ID: ReleasesID, Name: "Releases"},
		},
	}
}

// buildArtistsIndex lists one folder per distinct artist group letter.
func (s *Service) buildArtistsIndex(ctx context.Context) (Node, error) {
	v, err := s.cache.Get(RegionArtists, "groups", func() (interface{}, error) {
		return s.lib.ArtistGroups(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artist groups: %w", err)
	}
	groups := v.([]string)

	children := make([]Node, 0, len(groups))
	for _, g := range groups {
		children = append(children, &Folder{ID: ArtistGroupID(g), Name: g})
	}
	return &Folder{ID: ArtistsID, Name: "Artists", Children: children}, nil
}

// buildArtistGroup lists the artists in one group letter.
func (s *Service) buildArtistGroup(ctx context.Context, groupKey string) (Node, error) {
	v, err := s.cache.Get(RegionArtists, "group:"+groupKey, func() (interface{}, error) {
		return s.lib.ArtistsByGroup(ctx, groupKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artists for group %q: %w", groupKey, err)
	}
	refs := v.([]model.EntityRef)

	children := make([]Node, 0, len(refs))
	for _, ref := range refs {
		children = append(children, &Folder{ID: ArtistID(ref.DatabaseID), Name: ref.DisplayName})
	}
	return &Folder{ID: ArtistGroupID(groupKey), Name: groupKey, Children: children}, nil
}

// buildArtist lists one folder per release by the artist, ordered by
// release year then sort title.
func (s *Service) buildArtist(ctx context.Context, artistID int64) (Node, error) {
	artist, err := s.lib.ArtistByID(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artist %d: %w", artistID, err)
	}
	if artist == nil {
		// Clients cache object ids across sessions; a deleted artist
		// resolves to an empty folder, not an error.
		return &Folder{ID: ArtistID(artistID)}, nil
	}

	releases, err := s.lib.ReleasesByArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases for artist %d: %w", artistID, err)
	}

	children := make([]Node, 0, len(releases))
	for _, ref := range releases {
		children = append(children, &Folder{ID: ReleaseID(ref.DatabaseID), Name: ref.DisplayName})
	}
	return &Folder{ID: ArtistID(artistID), Name: artist.DisplayName, Children: children}, nil
}

// buildReleasesIndex lists one folder per distinct release group letter.
func (s *Service) buildReleasesIndex(ctx context.Context) (Node, error) {
	v, err := s.cache.Get(RegionReleases, "groups", func() (interface{}, error) {
		return s.lib.ReleaseGroups(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list release groups: %w", err)
	}
	groups := v.([]string)

	children := make([]Node, 0, len(groups))
	for _, g := range groups {
		children = append(children, &Folder{ID: ReleaseGroupID(g), Name: g})
	}
	return &Folder{ID: ReleasesID, Name: "Releases", Children: children}, nil
}

// buildReleaseGroup lists the releases in one group letter.
func (s *Service) buildReleaseGroup(ctx context.Context, groupKey string) (Node, error) {
	v, err := s.cache.Get(RegionReleases, "group:"+groupKey, func() (interface{}, error) {
		return s.lib.ReleasesByGroup(ctx, groupKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list releases for group %q: %w", groupKey, err)
	}
	refs := v.([]model.EntityRef)

	children := make([]Node, 0, len(refs))
	for _, ref := range refs {
		children = append(children, &Folder{ID: ReleaseID(ref.DatabaseID), Name: ref.DisplayName})
	}
	return &Folder{ID: ReleaseGroupID(groupKey), Name: groupKey, Children: children}, nil
}

// buildRelease lists the release's tracks as audio leaves, ordered by media
// number then track number.
func (s *Service) buildRelease(ctx context.Context, releaseID int64) (Node, error) {
	release, err := s.lib.ReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load release %d: %w", releaseID, err)
	}
	if release == nil {
		return &Folder{ID: ReleaseID(releaseID)}, nil
	}

	tracks, err := s.lib.TracksByRelease(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for release %d: %w", releaseID, err)
	}

	children := make([]Node, 0, len(tracks))
	for _, t := range tracks {
		children = append(children, s.buildLeaf(ctx, t, TrackID(t.ReleaseID, t.TrackID), ""))
	}
	return &Folder{ID: ReleaseID(releaseID), Name: release.DisplayName, Children: children}, nil
}

// buildCollections lists one folder per collection, ordered by sort name.
func (s *Service) buildCollections(ctx context.Context) (Node, error) {
	v, err := s.cache.Get(RegionCollections, "all", func() (interface{}, error) {
		return s.lib.Collections(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	refs := v.([]model.EntityRef)

	children := make([]Node, 0, len(refs))
	for _, ref := range refs {
		children = append(children, &Folder{ID: CollectionReleasesID(ref.DatabaseID), Name: ref.DisplayName})
	}
	return &Folder{ID: CollectionsID, Name: "Collections", Children: children}, nil
}

// buildCollectionReleases flattens a collection into audio leaves in
// collection list-number order.
func (s *Service) buildCollectionReleases(ctx context.Context, collectionID int64) (Node, error) {
	tracks, err := s.lib.TracksByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for collection %d: %w", collectionID, err)
	}

	children := make([]Node, 0, len(tracks))
	for _, t := range tracks {
		children = append(children, s.buildLeaf(ctx, t, TrackID(t.ReleaseID, t.TrackID), ""))
	}
	return &Folder{ID: CollectionReleasesID(collectionID), Name: "", Children: children}, nil
}

// buildPlaylists lists one folder per playlist, ordered by name.
func (s *Service) buildPlaylists(ctx context.Context) (Node, error) {
	v, err := s.cache.Get(RegionPlaylists, "all", func() (interface{}, error) {
		return s.lib.Playlists(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	refs := v.([]model.EntityRef)

	children := make([]Node, 0, len(refs))
	for _, ref := range refs {
		children = append(children, &Folder{ID: PlaylistTracksID(ref.DatabaseID), Name: ref.DisplayName})
	}
	return &Folder{ID: PlaylistsID, Name: "Playlists", Children: children}, nil
}

// buildPlaylistTracks lists a playlist's tracks in playlist order.
func (s *Service) buildPlaylistTracks(ctx context.Context, playlistID int64) (Node, error) {
	tracks, err := s.lib.TracksByPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for playlist %d: %w", playlistID, err)
	}

	children := make([]Node, 0, len(tracks))
	for _, t := range tracks {
		children = append(children, s.buildLeaf(ctx, t, TrackID(t.ReleaseID, t.TrackID), ""))
	}
	return &Folder{ID: PlaylistTracksID(playlistID), Name: "", Children: children}, nil
}

// buildRandomizer lists the two random folders as lazy placeholders. The
// concrete tracks are drawn only when a placeholder is navigated into.
func (s *Service) buildRandomizer() Node {
	return &Folder{
		ID:   RandomizerID,
		Name: "Randomizer",
		Children: []Node{
			&LazyFolder{ID: RandomTracksID, Name: "Random Tracks", ChildCount: s.cfg.RandomTrackCount},
			&LazyFolder{ID: RandomRatedTracksID, Name: "Random Rated Tracks", ChildCount: s.cfg.RandomTrackCount},
		},
	}
}

// buildRandomTracks draws a fresh random track set. This is the one branch
// that bypasses the folder cache: every resolution is a new draw.
func (s *Service) buildRandomTracks(ctx context.Context, ratedOnly bool) (Node, error) {
	tracks, err := s.lib.RandomTracks(ctx, s.cfg.RandomTrackCount, ratedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to draw random tracks (rated=%t): %w", ratedOnly, err)
	}

	id, name := RandomTracksID, "Random Tracks"
	if ratedOnly {
		id, name = RandomRatedTracksID, "Random Rated Tracks"
	}

	children := make([]Node, 0, len(tracks))
	for _, t := range tracks {
		desc := t.PartTitles
		if ratedOnly {
			desc = fmt.Sprintf("Rating: %d", t.Rating)
		}
		children = append(children, s.buildLeaf(ctx, t, TrackID(t.ReleaseID, t.TrackID), desc))
	}
	return &Folder{ID: id, Name: name, Children: children}, nil
}

// buildLeaf maps a denormalized track row onto an audio leaf. Cover art is
// best-effort: failures degrade to a nil cover.
func (s *Service) buildLeaf(ctx context.Context, t model.TrackInfo, id, description string) *AudioLeaf {
	cover, err := s.covers.FetchCoverArt(ctx, t.ReleaseExternalID, s.cfg.CoverSize, s.cfg.CoverSize)
	if err != nil {
		logger.Debug("Cover art unavailable",
			logger.Int64("trackId", t.TrackID),
			logger.ErrorField(err))
		cover = nil
	}

	if description == "" {
		description = t.PartTitles
	}

	return &AudioLeaf{
		ID:              id,
		Title:           t.Title,
		ArtistName:      t.ArtistName,
		TrackArtistName: t.TrackArtist,
		ReleaseTitle:    t.ReleaseTitle,
		ReleaseYear:     t.ReleaseYear,
		MediaNumber:     t.MediaNumber,
		TrackNumber:     t.TrackNumber,
		Genre:           t.Genres,
		Duration:        secondsToDuration(t.Duration),
		Description:     description,
		LastModified:    leafModTime(t),
		Size:            t.FileSize,
		Cover:           cover,
	}
}
