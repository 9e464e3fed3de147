package dlna

import "time"

// Node is one entry in the virtual media tree: a folder, a lazy folder or
// an audio leaf.
type Node interface {
	NodeID() string
	NodeName() string
}

// Folder is a materialized tree level. Children are in final display order;
// child nodes carry only their own identity until navigated into.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Children []Node `json:"children,omitempty"`
}

func (f *Folder) NodeID() string   { return f.ID }
func (f *Folder) NodeName() string { return f.Name }

// LazyFolder declares a child count without materializing children. The
// browse protocol needs a stable count at listing time; the concrete
// children are drawn only when the folder itself is navigated into.
type LazyFolder struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChildCount int    `json:"childCount"`
}

func (f *LazyFolder) NodeID() string   { return f.ID }
func (f *LazyFolder) NodeName() string { return f.Name }

// AudioLeaf is a playable track resource, denormalized so rendering it
// never needs another query. File is populated only on file requests.
type AudioLeaf struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	ArtistName      string        `json:"artistName"`
	TrackArtistName string        `json:"trackArtistName,omitempty"`
	ReleaseTitle    string        `json:"releaseTitle"`
	ReleaseYear     int           `json:"releaseYear"`
	MediaNumber     int           `json:"mediaNumber"`
	TrackNumber     int           `json:"trackNumber"`
	Genre           string        `json:"genre,omitempty"`
	Duration        time.Duration `json:"duration"`
	Description     string        `json:"description,omitempty"`
	LastModified    time.Time     `json:"lastModified"`
	Size            int64         `json:"size"`
	Cover           []byte        `json:"-"`
	File            []byte        `json:"-"`
}

func (l *AudioLeaf) NodeID() string   { return l.ID }
func (l *AudioLeaf) NodeName() string { return l.Title }
