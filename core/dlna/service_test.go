package dlna

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, lib *fakeLibrary) (*Service, *MockScrobbler) {
	t.Helper()
	scrobbler := &MockScrobbler{}
	scrobbler.On("RecordPlay", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(lib, &fakeCovers{data: []byte("jpeg")}, &fakeAudio{}, scrobbler, Config{
		RandomTrackCount: 3,
		CoverSize:        320,
		PlayDedupWindow:  time.Second,
	})
	t.Cleanup(svc.Close)
	return svc, scrobbler
}

func childNames(t *testing.T, node Node) []string {
	t.Helper()
	folder, ok := node.(*Folder)
	require.True(t, ok, "expected folder, got %T", node)
	names := make([]string, 0, len(folder.Children))
	for _, c := range folder.Children {
		names = append(names, c.NodeName())
	}
	return names
}

func childIDs(t *testing.T, node Node) []string {
	t.Helper()
	folder, ok := node.(*Folder)
	require.True(t, ok, "expected folder, got %T", node)
	ids := make([]string, 0, len(folder.Children))
	for _, c := range folder.Children {
		ids = append(ids, c.NodeID())
	}
	return ids
}

func TestRootListsCategories(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	node, err := svc.GetItem(context.Background(), RootID, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Artists", "Collections", "Playlists", "Randomizer", "Releases"}, childNames(t, node))
	assert.Equal(t, []string{ArtistsID, CollectionsID, PlaylistsID, RandomizerID, ReleasesID}, childIDs(t, node))
}

// Walk the whole artist branch: letter group, artist, release, tracks.
func TestArtistNavigationScenario(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	node, err := svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, childNames(t, node))

	node, err = svc.GetItem(ctx, ArtistGroupID("A"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aphex Twin"}, childNames(t, node))
	assert.Equal(t, []string{ArtistID(artistAphex)}, childIDs(t, node))

	node, err = svc.GetItem(ctx, ArtistID(artistAphex), false)
	require.NoError(t, err)
	assert.Equal(t, "Aphex Twin", node.NodeName())
	assert.Equal(t, []string{"Selected Ambient Works 85-92"}, childNames(t, node))
	assert.Equal(t, []string{ReleaseID(releaseSAW)}, childIDs(t, node))

	node, err = svc.GetItem(ctx, ReleaseID(releaseSAW), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Xtal", "Tha"}, childNames(t, node), "track 1 before track 2")
}

func TestReleaseLeafFields(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	node, err := svc.GetItem(context.Background(), ReleaseID(releaseSAW), false)
	require.NoError(t, err)
	folder := node.(*Folder)
	require.Len(t, folder.Children, 2)

	leaf, ok := folder.Children[0].(*AudioLeaf)
	require.True(t, ok)
	assert.Equal(t, "Xtal", leaf.Title)
	assert.Equal(t, "Aphex Twin", leaf.ArtistName)
	assert.Equal(t, "Selected Ambient Works 85-92", leaf.ReleaseTitle)
	assert.Equal(t, 1, leaf.MediaNumber)
	assert.Equal(t, 1, leaf.TrackNumber)
	assert.Equal(t, "Electronic/IDM", leaf.Genre)
	assert.Equal(t, []byte("jpeg"), leaf.Cover)
	assert.Nil(t, leaf.File, "browse requests carry no audio bytes")
	assert.Equal(t, 245*time.Second+500*time.Millisecond, leaf.Duration)
}

func TestTracksOrderedByMediaThenTrackNumber(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	node, err := svc.GetItem(context.Background(), ReleaseID(releaseGeogaddi), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Music Is Math", "Gyroscope", "Dandelion"}, childNames(t, node))
}

// Every artist appears in exactly one group folder.
func TestGroupPartitioning(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	index, err := svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, groupID := range childIDs(t, index) {
		group, err := svc.GetItem(ctx, groupID, false)
		require.NoError(t, err)
		for _, id := range childIDs(t, group) {
			seen[id]++
		}
	}

	assert.Len(t, seen, 2)
	for id, n := range seen {
		assert.Equal(t, 1, n, "artist %s appears once", id)
	}
}

// A leaf id issued while browsing resolves back to the same track row.
func TestRoundTripLeafAddressing(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	node, err := svc.GetItem(ctx, ReleaseID(releaseSAW), false)
	require.NoError(t, err)
	leafID := node.(*Folder).Children[0].NodeID()

	oid, err := Decode(leafID)
	require.NoError(t, err)
	assert.Equal(t, releaseSAW, oid.ReleaseID)
	assert.Equal(t, trackXtal, oid.TrackID)

	resolved, err := svc.GetItem(ctx, leafID, true)
	require.NoError(t, err)
	leaf, ok := resolved.(*AudioLeaf)
	require.True(t, ok)
	assert.Equal(t, "Xtal", leaf.Title)
	assert.NotEmpty(t, leaf.File, "file requests carry audio bytes")
	assert.Equal(t, leafID, leaf.ID)
}

func TestIdempotentFolderResolution(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	first, err := svc.GetItem(ctx, ArtistGroupID("A"), false)
	require.NoError(t, err)
	second, err := svc.GetItem(ctx, ArtistGroupID("A"), false)
	require.NoError(t, err)

	assert.Equal(t, childIDs(t, first), childIDs(t, second))
	assert.Equal(t, childNames(t, first), childNames(t, second))
}

func TestArtistIndexIsCachedRandomDrawIsNot(t *testing.T) {
	lib := newFixtureLibrary()
	svc, _ := newTestService(t, lib)
	ctx := context.Background()

	_, err := svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)
	_, err = svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.callCount("ArtistGroups"), "second browse served from cache")

	_, err = svc.GetItem(ctx, RandomTracksID, false)
	require.NoError(t, err)
	_, err = svc.GetItem(ctx, RandomTracksID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, lib.callCount("RandomTracks"), "every resolution is a fresh draw")
}

func TestInvalidateClearsRegion(t *testing.T) {
	lib := newFixtureLibrary()
	svc, _ := newTestService(t, lib)
	ctx := context.Background()

	_, err := svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)
	svc.Invalidate(RegionArtists)
	_, err = svc.GetItem(ctx, ArtistsID, false)
	require.NoError(t, err)

	assert.Equal(t, 2, lib.callCount("ArtistGroups"))
}

func TestRandomizerListsLazyPlaceholders(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	node, err := svc.GetItem(context.Background(), RandomizerID, false)
	require.NoError(t, err)
	folder := node.(*Folder)
	require.Len(t, folder.Children, 2)

	random, ok := folder.Children[0].(*LazyFolder)
	require.True(t, ok, "randomizer children are lazy placeholders")
	assert.Equal(t, "Random Tracks", random.Name)
	assert.Equal(t, 3, random.ChildCount)

	rated, ok := folder.Children[1].(*LazyFolder)
	require.True(t, ok)
	assert.Equal(t, "Random Rated Tracks", rated.Name)
	assert.Equal(t, 3, rated.ChildCount)
}

func TestRandomRatedTracksFilterAndDescription(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	node, err := svc.GetItem(context.Background(), RandomRatedTracksID, false)
	require.NoError(t, err)
	folder := node.(*Folder)
	require.Len(t, folder.Children, 2, "only rated tracks qualify")

	for _, child := range folder.Children {
		leaf, ok := child.(*AudioLeaf)
		require.True(t, ok)
		assert.Regexp(t, `^Rating: [1-9]`, leaf.Description)
	}
}

func TestCollectionTracksFollowListOrder(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	node, err := svc.GetItem(ctx, CollectionsID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"IDM Essentials"}, childNames(t, node))
	assert.Equal(t, []string{CollectionReleasesID(collectionIDM)}, childIDs(t, node))

	node, err = svc.GetItem(ctx, CollectionReleasesID(collectionIDM), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Music Is Math", "Gyroscope", "Dandelion", "Xtal", "Tha"}, childNames(t, node))
}

func TestPlaylistTracksFollowPlaylistOrder(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	node, err := svc.GetItem(ctx, PlaylistsID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Late Night"}, childNames(t, node))

	node, err = svc.GetItem(ctx, PlaylistTracksID(playlistLateNight), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tha", "Music Is Math"}, childNames(t, node))
}

func TestMissingEntitiesResolveToEmptyNodes(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	node, err := svc.GetItem(ctx, ArtistID(999), false)
	require.NoError(t, err)
	folder, ok := node.(*Folder)
	require.True(t, ok)
	assert.Empty(t, folder.Children)

	node, err = svc.GetItem(ctx, TrackIDWithNonce(releaseSAW, 999, "abc"), true)
	require.NoError(t, err)
	_, ok = node.(*Folder)
	assert.True(t, ok, "missing track resolves to an empty node, not an error")
}

func TestUnknownIdentifier(t *testing.T) {
	svc, _ := newTestService(t, newFixtureLibrary())

	_, err := svc.GetItem(context.Background(), "no:such:id", false)
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestCoverArtFailureDoesNotBlockTree(t *testing.T) {
	lib := newFixtureLibrary()
	scrobbler := &MockScrobbler{}
	svc := NewService(lib, &fakeCovers{err: errors.New("thumbnail store down")}, &fakeAudio{}, scrobbler, Config{})
	t.Cleanup(svc.Close)

	node, err := svc.GetItem(context.Background(), ReleaseID(releaseSAW), false)
	require.NoError(t, err)
	leaf := node.(*Folder).Children[0].(*AudioLeaf)
	assert.Nil(t, leaf.Cover)
}

func TestCacheComputeFailureIsNotPoisoned(t *testing.T) {
	lib := newFixtureLibrary()
	lib.collectionsErr = errors.New("listing query failed")
	svc, _ := newTestService(t, lib)
	ctx := context.Background()

	_, err := svc.GetItem(ctx, CollectionsID, false)
	require.Error(t, err)

	node, err := svc.GetItem(ctx, CollectionsID, false)
	require.NoError(t, err, "failed compute is not cached")
	assert.Equal(t, []string{"IDM Essentials"}, childNames(t, node))
}

// Two file reads of one token inside the window scrobble once; distinct
// nonces for the same logical track scrobble separately.
func TestPlayDeduplicationWindow(t *testing.T) {
	svc, scrobbler := newTestService(t, newFixtureLibrary())
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	svc.plays.now = func() time.Time { return now }

	leafID := TrackIDWithNonce(releaseSAW, trackXtal, "abc123")

	first, err := svc.GetItem(ctx, leafID, true)
	require.NoError(t, err)
	now = now.Add(200 * time.Millisecond)
	second, err := svc.GetItem(ctx, leafID, true)
	require.NoError(t, err)

	scrobbler.AssertNumberOfCalls(t, "RecordPlay", 1)
	assert.Equal(t, first.(*AudioLeaf).File, second.(*AudioLeaf).File, "both reads serve identical bytes")

	now = now.Add(2 * time.Second)
	_, err = svc.GetItem(ctx, TrackIDWithNonce(releaseSAW, trackXtal, "def456"), true)
	require.NoError(t, err)
	scrobbler.AssertNumberOfCalls(t, "RecordPlay", 2)
}

func TestScrobbleFailureDoesNotFailStreaming(t *testing.T) {
	lib := newFixtureLibrary()
	scrobbler := &MockScrobbler{}
	scrobbler.On("RecordPlay", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("recorder down"))

	svc := NewService(lib, &fakeCovers{data: []byte("jpeg")}, &fakeAudio{}, scrobbler, Config{})
	t.Cleanup(svc.Close)

	node, err := svc.GetItem(context.Background(), TrackIDWithNonce(releaseSAW, trackXtal, "abc"), true)
	require.NoError(t, err)
	assert.NotEmpty(t, node.(*AudioLeaf).File)
}
