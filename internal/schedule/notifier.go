package schedule

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is a recoverable problem worth surfacing to the user.
type Notice struct {
	UserID  primitive.ObjectID
	Message string
	Err     error
}

// Notifier is the side channel for recoverable-error toasts.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// LogNotifier writes notices to the logger.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, notice Notice) {
	log.WithFields(log.Fields{
		"user_id": notice.UserID.Hex(),
	}).WithError(notice.Err).Warn(notice.Message)
}

// RecordingNotifier keeps notices in memory so they can be handed to the
// client with the next state read.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *RecordingNotifier) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

// Drain returns and clears the recorded notices.
func (r *RecordingNotifier) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	notices := r.notices
	r.notices = nil
	return notices
}

// MultiNotifier fans a notice out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, notice Notice) {
	for _, n := range m {
		n.Notify(ctx, notice)
	}
}
