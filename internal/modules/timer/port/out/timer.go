package out

import (
	"context"

	storedomain "studysprint/internal/modules/store/domain"
)

// SessionSink receives the session produced by a submitted reflection.
type SessionSink interface {
	AppendSession(ctx context.Context, session storedomain.StudySession) error
}

// ConfigSource supplies the tags and settings durations are resolved from.
type ConfigSource interface {
	Snapshot(ctx context.Context) (storedomain.Snapshot, error)
}
