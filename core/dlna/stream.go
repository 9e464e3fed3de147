package dlna

import (
	"context"
	"fmt"
	"time"

	"melisma/logger"
	"melisma/metrics"
	"melisma/model"
)

// resolveTrack resolves a leaf id back to its database row. For browse
// requests the leaf carries metadata only; for file requests the full audio
// payload is fetched and a play is recorded at most once per token per
// de-duplication window.
func (s *Service) resolveTrack(ctx context.Context, oid ObjectID, isFileRequest bool) (Node, error) {
	info, err := s.lib.TrackByID(ctx, oid.ReleaseID, oid.TrackID)
	if err != nil {
		return nil, fmt.Errorf("failed to load track %d/%d: %w", oid.ReleaseID, oid.TrackID, err)
	}
	if info == nil {
		// Row gone since the id was issued; clients cache ids across
		// sessions, so answer with an empty node.
		return &Folder{ID: oid.Encode()}, nil
	}

	leaf := s.buildLeaf(ctx, *info, oid.Encode(), "")
	if !isFileRequest {
		return leaf, nil
	}

	data, err := s.audio.FetchTrackBytes(ctx, info.ExternalID, 0, info.FileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio for track %d/%d: %w", oid.ReleaseID, oid.TrackID, err)
	}
	leaf.File = data
	metrics.StreamedBytes.Add(float64(len(data)))

	s.maybeRecordPlay(ctx, oid.Encode(), info)
	return leaf, nil
}

// maybeRecordPlay records a play unless this token already scrobbled inside
// the de-duplication window. Recording is best-effort: a failure never
// reaches the byte-serving response.
func (s *Service) maybeRecordPlay(ctx context.Context, token string, info *model.TrackInfo) {
	if !s.plays.ShouldRecord(token) {
		metrics.PlaysSuppressed.Inc()
		logger.Debug("Duplicate play suppressed",
			logger.String("token", token),
			logger.Int64("trackId", info.TrackID))
		return
	}

	playedAt := s.plays.now()
	if err := s.scrobbler.RecordPlay(ctx, info.ExternalID, playedAt); err != nil {
		logger.Warn("Failed to record play",
			logger.Int64("trackId", info.TrackID),
			logger.ErrorField(err))
		return
	}
	metrics.PlaysRecorded.Inc()
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func leafModTime(t model.TrackInfo) time.Time {
	if t.UpdatedAt.IsZero() {
		return time.Now()
	}
	return t.UpdatedAt
}
