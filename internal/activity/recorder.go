// AngelaMos | 2026
// recorder.go

package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

// Recorder writes audit and notification rows off the request path.
// Callers never see a failure; the dispatcher logs and drops it.
type Recorder struct {
	repo       Repository
	dispatcher *core.Dispatcher
}

func NewRecorder(repo Repository, dispatcher *core.Dispatcher) *Recorder {
	return &Recorder{repo: repo, dispatcher: dispatcher}
}

func (r *Recorder) Log(ctx context.Context, userID, action, detail string) {
	entry := &Entry{
		ID:     uuid.New().String(),
		UserID: userID,
		Action: action,
		Detail: detail,
	}

	r.dispatcher.Go(ctx, "activity."+action, func(ctx context.Context) error {
		return r.repo.InsertEntry(ctx, entry)
	})
}

func (r *Recorder) Notify(
	ctx context.Context,
	userID, title, message, category string,
) {
	n := &Notification{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}

	r.dispatcher.Go(ctx, "notification", func(ctx context.Context) error {
		return r.repo.InsertNotification(ctx, n)
	})
}
