package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"melisma/core/dlna"
	"melisma/logger"

	"github.com/gorilla/mux"
)

// DLNAHandler translates HTTP browse and file-fetch requests into calls on
// the DLNA projection service. The UPnP control point in front of this
// surface is responsible for SOAP/DIDL framing.
type DLNAHandler struct {
	svc *dlna.Service
}

// NewDLNAHandler creates a DLNAHandler.
func NewDLNAHandler(svc *dlna.Service) *DLNAHandler {
	return &DLNAHandler{svc: svc}
}

// nodeDTO is the JSON shape of one tree node.
type nodeDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	ChildCount int       `json:"childCount,omitempty"`
	Children   []nodeDTO `json:"children,omitempty"`
	Track      *trackDTO `json:"track,omitempty"`
}

type trackDTO struct {
	ArtistName      string  `json:"artistName"`
	TrackArtistName string  `json:"trackArtistName,omitempty"`
	ReleaseTitle    string  `json:"releaseTitle"`
	ReleaseYear     int     `json:"releaseYear,omitempty"`
	MediaNumber     int     `json:"mediaNumber"`
	TrackNumber     int     `json:"trackNumber"`
	Genre           string  `json:"genre,omitempty"`
	DurationSecs    float64 `json:"durationSecs"`
	Description     string  `json:"description,omitempty"`
	Size            int64   `json:"size"`
	HasCover        bool    `json:"hasCover"`
}

func toDTO(node dlna.Node, withChildren bool) nodeDTO {
	switch n := node.(type) {
	case *dlna.Folder:
		dto := nodeDTO{ID: n.ID, Name: n.Name, Type: "folder", ChildCount: len(n.Children)}
		if withChildren {
			for _, child := range n.Children {
				dto.Children = append(dto.Children, toDTO(child, false))
			}
		}
		return dto
	case *dlna.LazyFolder:
		return nodeDTO{ID: n.ID, Name: n.Name, Type: "folder", ChildCount: n.ChildCount}
	case *dlna.AudioLeaf:
		return nodeDTO{
			ID:   n.ID,
			Name: n.Title,
			Type: "audio",
			Track: &trackDTO{
				ArtistName:      n.ArtistName,
				TrackArtistName: n.TrackArtistName,
				ReleaseTitle:    n.ReleaseTitle,
				ReleaseYear:     n.ReleaseYear,
				MediaNumber:     n.MediaNumber,
				TrackNumber:     n.TrackNumber,
				Genre:           n.Genre,
				DurationSecs:    n.Duration.Seconds(),
				Description:     n.Description,
				Size:            n.Size,
				HasCover:        len(n.Cover) > 0,
			},
		}
	default:
		return nodeDTO{}
	}
}

// BrowseHandler resolves an object id for metadata only.
func (h *DLNAHandler) BrowseHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	node, err := h.svc.GetItem(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, dlna.ErrUnknownID) {
			writeError(w, http.StatusNotImplemented, "unknown object id")
			return
		}
		logger.Error("Browse failed", logger.String("id", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "browse failed")
		return
	}

	writeJSON(w, http.StatusOK, toDTO(node, true))
}

// FileHandler resolves a track leaf id and serves its audio payload.
func (h *DLNAHandler) FileHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	node, err := h.svc.GetItem(r.Context(), id, true)
	if err != nil {
		if errors.Is(err, dlna.ErrUnknownID) {
			writeError(w, http.StatusNotImplemented, "unknown object id")
			return
		}
		logger.Error("File fetch failed", logger.String("id", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "file fetch failed")
		return
	}

	leaf, ok := node.(*dlna.AudioLeaf)
	if !ok {
		writeError(w, http.StatusNotFound, "not an audio object")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(leaf.File)))
	if !leaf.LastModified.IsZero() {
		w.Header().Set("Last-Modified", leaf.LastModified.UTC().Format(time.RFC1123))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(leaf.File); err != nil {
		logger.Warn("Failed to write audio response", logger.String("id", id), logger.ErrorField(err))
	}
}
