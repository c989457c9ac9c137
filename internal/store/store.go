package store

import (
	"context"
	"errors"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
	ErrConflict    = errors.New("transaction conflict")
)

// ProfileMutator edits a profile inside a transaction. exists is false when
// the profile document is being created. Returning an error aborts the write.
type ProfileMutator func(p *user.Profile, exists bool) error

// LogMutator edits a daily log inside a transaction. exists is false when no
// document is stored for the date; l then carries only its Date.
type LogMutator func(l *dailylog.DailyLog, exists bool) error

// Store is the persistence surface for profiles and daily logs. Reads are
// not transactional. Update* re-read and write atomically; backends retry
// the mutator on contention, so it must not keep state across calls.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	UpdateProfile(ctx context.Context, userID string, fn ProfileMutator) (*user.Profile, error)

	GetLog(ctx context.Context, userID, date string) (*dailylog.DailyLog, error)
	ListLogs(ctx context.Context, userID string, q dailylog.Query) ([]dailylog.DailyLog, error)
	UpdateLog(ctx context.Context, userID, date string, fn LogMutator) (*dailylog.DailyLog, error)
	DeleteLog(ctx context.Context, userID, date string) error

	Ping(ctx context.Context) error
	Close() error
}
