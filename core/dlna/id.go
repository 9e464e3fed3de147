package dlna

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownID reports an object id that matches no known form.
var ErrUnknownID = errors.New("unknown object identifier")

// Kind is the tree level an object id addresses.
type Kind int

const (
	KindRoot Kind = iota
	KindArtists
	KindReleases
	KindCollections
	KindPlaylists
	KindRandomizer
	KindRandomTracks
	KindRandomRatedTracks
	KindArtistGroup
	KindReleaseGroup
	KindCollectionReleases
	KindPlaylistTracks
	KindArtist
	KindRelease
	KindTrack
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindArtists:
		return "artists"
	case KindReleases:
		return "releases"
	case KindCollections:
		return "collections"
	case KindPlaylists:
		return "playlists"
	case KindRandomizer:
		return "randomizer"
	case KindRandomTracks:
		return "randomtracks"
	case KindRandomRatedTracks:
		return "randomratedtracks"
	case KindArtistGroup:
		return "artistgroup"
	case KindReleaseGroup:
		return "releasegroup"
	case KindCollectionReleases:
		return "collectionreleases"
	case KindPlaylistTracks:
		return "playlisttracks"
	case KindArtist:
		return "artist"
	case KindRelease:
		return "release"
	case KindTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Object id vocabulary. Group/entity prefixes always end in the separator,
// so vf:releasesforcollection: can never be shadowed by vf:release:.
const (
	RootID              = "0"
	ArtistsID           = "vf:artists"
	ReleasesID          = "vf:releases"
	CollectionsID       = "vf:collections"
	PlaylistsID         = "vf:playlists"
	RandomizerID        = "vf:randomizer"
	RandomTracksID      = "vf:randomtracks"
	RandomRatedTracksID = "vf:randomratedtracks"

	artistGroupPrefix        = "vf:artistsforfolder:"
	releaseGroupPrefix       = "vf:releasesforfolder:"
	collectionReleasesPrefix = "vf:releasesforcollection:"
	playlistTracksPrefix     = "vf:tracksforplaylist:"
	artistPrefix             = "vf:artist:"
	releasePrefix            = "vf:release:"
	trackPrefix              = "r:t:tk:"
)

// ObjectID is the decoded form of an opaque object id: a kind tag plus the
// parameters that kind carries.
type ObjectID struct {
	Kind      Kind
	GroupKey  string // artist/release group folders
	EntityID  int64  // artist, release, collection or playlist database id
	ReleaseID int64  // track leaves
	TrackID   int64  // track leaves
	Nonce     string // track leaves
}

// ArtistGroupID builds the object id of one artist letter group.
func ArtistGroupID(groupKey string) string {
	return artistGroupPrefix + groupKey
}

// ReleaseGroupID builds the object id of one release letter group.
func ReleaseGroupID(groupKey string) string {
	return releaseGroupPrefix + groupKey
}

// CollectionReleasesID builds the object id of a collection's track folder.
func CollectionReleasesID(collectionID int64) string {
	return collectionReleasesPrefix + strconv.FormatInt(collectionID, 10)
}

// PlaylistTracksID builds the object id of a playlist's track folder.
func PlaylistTracksID(playlistID int64) string {
	return playlistTracksPrefix + strconv.FormatInt(playlistID, 10)
}

// ArtistID builds the object id of an artist folder.
func ArtistID(artistID int64) string {
	return artistPrefix + strconv.FormatInt(artistID, 10)
}

// ReleaseID builds the object id of a release folder.
func ReleaseID(releaseID int64) string {
	return releasePrefix + strconv.FormatInt(releaseID, 10)
}

// TrackID builds a track leaf id with a fresh nonce. The nonce makes every
// issued leaf id unique: clients that cache object ids still produce a
// distinct token per playback attempt.
func TrackID(releaseID, trackID int64) string {
	return TrackIDWithNonce(releaseID, trackID, newNonce())
}

// TrackIDWithNonce builds a track leaf id with a caller-supplied nonce.
func TrackIDWithNonce(releaseID, trackID int64, nonce string) string {
	return fmt.Sprintf("%s%d:%d:%s", trackPrefix, releaseID, trackID, nonce)
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Decode parses an opaque object id into its tagged form.
func Decode(id string) (ObjectID, error) {
	switch id {
	case RootID:
		return ObjectID{Kind: KindRoot}, nil
	case ArtistsID:
		return ObjectID{Kind: KindArtists}, nil
	case ReleasesID:
		return ObjectID{Kind: KindReleases}, nil
	case CollectionsID:
		return ObjectID{Kind: KindCollections}, nil
	case PlaylistsID:
		return ObjectID{Kind: KindPlaylists}, nil
	case RandomizerID:
		return ObjectID{Kind: KindRandomizer}, nil
	case RandomTracksID:
		return ObjectID{Kind: KindRandomTracks}, nil
	case RandomRatedTracksID:
		return ObjectID{Kind: KindRandomRatedTracks}, nil
	}

	switch {
	case strings.HasPrefix(id, artistGroupPrefix):
		key := strings.TrimPrefix(id, artistGroupPrefix)
		if key == "" {
			return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
		}
		return ObjectID{Kind: KindArtistGroup, GroupKey: key}, nil

	case strings.HasPrefix(id, releaseGroupPrefix):
		key := strings.TrimPrefix(id, releaseGroupPrefix)
		if key == "" {
			return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
		}
		return ObjectID{Kind: KindReleaseGroup, GroupKey: key}, nil

	case strings.HasPrefix(id, collectionReleasesPrefix):
		return decodeEntity(id, collectionReleasesPrefix, KindCollectionReleases)

	case strings.HasPrefix(id, playlistTracksPrefix):
		return decodeEntity(id, playlistTracksPrefix, KindPlaylistTracks)

	case strings.HasPrefix(id, artistPrefix):
		return decodeEntity(id, artistPrefix, KindArtist)

	case strings.HasPrefix(id, releasePrefix):
		return decodeEntity(id, releasePrefix, KindRelease)

	case strings.HasPrefix(id, trackPrefix):
		return decodeTrack(id)
	}

	return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
}

func decodeEntity(id, prefix string, kind Kind) (ObjectID, error) {
	raw := strings.TrimPrefix(id, prefix)
	entityID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return ObjectID{Kind: kind, EntityID: entityID}, nil
}

func decodeTrack(id string) (ObjectID, error) {
	parts := strings.SplitN(strings.TrimPrefix(id, trackPrefix), ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	releaseID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	trackID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ObjectID{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return ObjectID{Kind: KindTrack, ReleaseID: releaseID, TrackID: trackID, Nonce: parts[2]}, nil
}

// Encode renders a decoded ObjectID back to its opaque string form.
func (o ObjectID) Encode() string {
	switch o.Kind {
	case KindRoot:
		return RootID
	case KindArtists:
		return ArtistsID
	case KindReleases:
		return ReleasesID
	case KindCollections:
		return CollectionsID
	case KindPlaylists:
		return PlaylistsID
	case KindRandomizer:
		return RandomizerID
	case KindRandomTracks:
		return RandomTracksID
	case KindRandomRatedTracks:
		return RandomRatedTracksID
	case KindArtistGroup:
		return ArtistGroupID(o.GroupKey)
	case KindReleaseGroup:
		return ReleaseGroupID(o.GroupKey)
	case KindCollectionReleases:
		return CollectionReleasesID(o.EntityID)
	case KindPlaylistTracks:
		return PlaylistTracksID(o.EntityID)
	case KindArtist:
		return ArtistID(o.EntityID)
	case KindRelease:
		return ReleaseID(o.EntityID)
	case KindTrack:
		return TrackIDWithNonce(o.ReleaseID, o.TrackID, o.Nonce)
	default:
		return ""
	}
}
