// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

type Repository interface {
	InsertEntry(ctx context.Context, entry *Entry) error
	InsertNotification(ctx context.Context, n *Notification) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) InsertEntry(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO activity_logs (id, user_id, action, detail)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}

func (r *repository) InsertNotification(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, category)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Category,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}
