package dlna

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"melisma/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeLibrary is an in-memory Library backed by the same fixture every
// service test navigates.
type fakeLibrary struct {
	mu    sync.Mutex
	calls map[string]int

	artists            map[int64]model.EntityRef
	releases           map[int64]model.EntityRef
	releasesByArtist   map[int64][]model.EntityRef
	tracksByRelease    map[int64][]model.TrackInfo
	collections        []model.EntityRef
	tracksByCollection map[int64][]model.TrackInfo
	playlists          []model.EntityRef
	tracksByPlaylist   map[int64][]model.TrackInfo
	randomPool         []model.TrackInfo

	collectionsErr error // one-shot failure injection
}

func (f *fakeLibrary) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeLibrary) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeLibrary) ArtistGroups(ctx context.Context) ([]string, error) {
	f.count("ArtistGroups")
	return refGroups(sortedRefs(f.artists)), nil
}

func (f *fakeLibrary) ArtistsByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error) {
	f.count("ArtistsByGroup")
	return refsInGroup(sortedRefs(f.artists), groupKey), nil
}

func (f *fakeLibrary) ArtistByID(ctx context.Context, artistID int64) (*model.EntityRef, error) {
	f.count("ArtistByID")
	if ref, ok := f.artists[artistID]; ok {
		return &ref, nil
	}
	return nil, nil
}

func (f *fakeLibrary) ReleaseGroups(ctx context.Context) ([]string, error) {
	f.count("ReleaseGroups")
	return refGroups(sortedRefs(f.releases)), nil
}

func (f *fakeLibrary) ReleasesByGroup(ctx context.Context, groupKey string) ([]model.EntityRef, error) {
	f.count("ReleasesByGroup")
	return refsInGroup(sortedRefs(f.releases), groupKey), nil
}

func (f *fakeLibrary) ReleasesByArtist(ctx context.Context, artistID int64) ([]model.EntityRef, error) {
	f.count("ReleasesByArtist")
	return f.releasesByArtist[artistID], nil
}

func (f *fakeLibrary) ReleaseByID(ctx context.Context, releaseID int64) (*model.EntityRef, error) {
	f.count("ReleaseByID")
	if ref, ok := f.releases[releaseID]; ok {
		return &ref, nil
	}
	return nil, nil
}

func (f *fakeLibrary) Collections(ctx context.Context) ([]model.EntityRef, error) {
	f.count("Collections")
	f.mu.Lock()
	err := f.collectionsErr
	f.collectionsErr = nil
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.collections, nil
}

func (f *fakeLibrary) Playlists(ctx context.Context) ([]model.EntityRef, error) {
	f.count("Playlists")
	return f.playlists, nil
}

func (f *fakeLibrary) TracksByRelease(ctx context.Context, releaseID int64) ([]model.TrackInfo, error) {
	f.count("TracksByRelease")
	return f.tracksByRelease[releaseID], nil
}

func (f *fakeLibrary) TracksByCollection(ctx context.Context, collectionID int64) ([]model.TrackInfo, error) {
	f.count("TracksByCollection")
	return f.tracksByCollection[collectionID], nil
}

func (f *fakeLibrary) TracksByPlaylist(ctx context.Context, playlistID int64) ([]model.TrackInfo, error) {
	f.count("TracksByPlaylist")
	return f.tracksByPlaylist[playlistID], nil
}

func (f *fakeLibrary) RandomTracks(ctx context.Context, limit int, ratedOnly bool) ([]model.TrackInfo, error) {
	f.count("RandomTracks")
	picked := make([]model.TrackInfo, 0, limit)
	for _, t := range f.randomPool {
		if ratedOnly && t.Rating < 1 {
			continue
		}
		picked = append(picked, t)
		if len(picked) == limit {
			break
		}
	}
	return picked, nil
}

func (f *fakeLibrary) TrackByID(ctx context.Context, releaseID, trackID int64) (*model.TrackInfo, error) {
	f.count("TrackByID")
	for _, t := range f.tracksByRelease[releaseID] {
		if t.TrackID == trackID {
			track := t
			return &track, nil
		}
	}
	return nil, nil
}

func sortedRefs(m map[int64]model.EntityRef) []model.EntityRef {
	refs := make([]model.EntityRef, 0, len(m))
	for _, ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].SortKey < refs[j].SortKey })
	return refs
}

func refGroups(refs []model.EntityRef) []string {
	groups := make([]string, 0)
	seen := map[string]bool{}
	for _, ref := range refs {
		if !seen[ref.GroupKey] {
			seen[ref.GroupKey] = true
			groups = append(groups, ref.GroupKey)
		}
	}
	return groups
}

func refsInGroup(refs []model.EntityRef, groupKey string) []model.EntityRef {
	out := make([]model.EntityRef, 0)
	for _, ref := range refs {
		if ref.GroupKey == groupKey {
			out = append(out, ref)
		}
	}
	return out
}

// fakeCovers returns the same bytes for every release, or errs.
type fakeCovers struct {
	data []byte
	err  error
}

func (f *fakeCovers) FetchCoverArt(ctx context.Context, releaseExternalID uuid.UUID, width, height int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// fakeAudio serves deterministic payloads keyed by track external id.
type fakeAudio struct{}

func (f *fakeAudio) FetchTrackBytes(ctx context.Context, trackExternalID uuid.UUID, offset, length int64) ([]byte, error) {
	return []byte(fmt.Sprintf("audio:%s:%d:%d", trackExternalID, offset, length)), nil
}

// MockScrobbler records play submissions.
type MockScrobbler struct {
	mock.Mock
}

func (m *MockScrobbler) RecordPlay(ctx context.Context, trackExternalID uuid.UUID, playedAt time.Time) error {
	args := m.Called(ctx, trackExternalID, playedAt)
	return args.Error(0)
}

// Fixture ids.
const (
	artistAphex  = int64(1)
	artistBoards = int64(2)

	releaseSAW      = int64(10)
	releaseGeogaddi = int64(11)

	collectionIDM     = int64(20)
	playlistLateNight = int64(30)

	trackXtal   = int64(100)
	trackTha    = int64(101)
	trackMusic  = int64(110)
	trackGyro   = int64(111)
	trackDandel = int64(112)
)

func ref(id int64, name, sortKey string) model.EntityRef {
	return model.EntityRef{
		DatabaseID:  id,
		ExternalID:  uuid.New(),
		DisplayName: name,
		SortKey:     sortKey,
		GroupKey:    model.GroupKeyFor(sortKey),
	}
}

func track(trackID, releaseID int64, release model.EntityRef, artist, title string, media, number, rating int) model.TrackInfo {
	return model.TrackInfo{
		TrackID:           trackID,
		ReleaseID:         releaseID,
		ExternalID:        uuid.New(),
		ReleaseExternalID: release.ExternalID,
		Title:             title,
		ArtistName:        artist,
		ReleaseTitle:      release.DisplayName,
		MediaNumber:       media,
		TrackNumber:       number,
		ReleaseYear:       1992,
		Duration:          245.5,
		Genres:            "Electronic/IDM",
		Rating:            rating,
		PartTitles:        "",
		FileSize:          1024,
		UpdatedAt:         time.Unix(1700000000, 0),
	}
}

// newFixtureLibrary builds the library every service test navigates:
//
//	Aphex Twin (group A) -> Selected Ambient Works 85-92 -> Xtal, Tha
//	Boards of Canada (group B) -> Geogaddi -> 3 tracks over 2 media
//	collection "IDM Essentials": Geogaddi first, then SAW
//	playlist "Late Night": Tha, then Music Is Math
func newFixtureLibrary() *fakeLibrary {
	aphex := ref(artistAphex, "Aphex Twin", "Aphex Twin")
	boards := ref(artistBoards, "Boards of Canada", "Boards of Canada")

	saw := ref(releaseSAW, "Selected Ambient Works 85-92", "Selected Ambient Works 85-92")
	geogaddi := ref(releaseGeogaddi, "Geogaddi", "Geogaddi")

	xtal := track(trackXtal, releaseSAW, saw, "Aphex Twin", "Xtal", 1, 1, 5)
	tha := track(trackTha, releaseSAW, saw, "Aphex Twin", "Tha", 1, 2, 0)
	musicIsMath := track(trackMusic, releaseGeogaddi, geogaddi, "Boards of Canada", "Music Is Math", 1, 1, 3)
	gyroscope := track(trackGyro, releaseGeogaddi, geogaddi, "Boards of Canada", "Gyroscope", 1, 2, 0)
	dandelion := track(trackDandel, releaseGeogaddi, geogaddi, "Boards of Canada", "Dandelion", 2, 1, 0)

	return &fakeLibrary{
		calls:    map[string]int{},
		artists:  map[int64]model.EntityRef{artistAphex: aphex, artistBoards: boards},
		releases: map[int64]model.EntityRef{releaseSAW: saw, releaseGeogaddi: geogaddi},
		releasesByArtist: map[int64][]model.EntityRef{
			artistAphex:  {saw},
			artistBoards: {geogaddi},
		},
		tracksByRelease: map[int64][]model.TrackInfo{
			releaseSAW:      {xtal, tha},
			releaseGeogaddi: {musicIsMath, gyroscope, dandelion},
		},
		collections: []model.EntityRef{ref(collectionIDM, "IDM Essentials", "IDM Essentials")},
		tracksByCollection: map[int64][]model.TrackInfo{
			collectionIDM: {musicIsMath, gyroscope, dandelion, xtal, tha},
		},
		playlists: []model.EntityRef{ref(playlistLateNight, "Late Night", "Late Night")},
		tracksByPlaylist: map[int64][]model.TrackInfo{
			playlistLateNight: {tha, musicIsMath},
		},
		randomPool: []model.TrackInfo{xtal, tha, musicIsMath, gyroscope, dandelion},
	}
}
