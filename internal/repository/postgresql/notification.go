package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// recipientCondition matches notifications visible to an employee: their
// own audience, the broadcast audience, and their role audience.
const recipientCondition = `(
	(audience_kind = 'individual' AND audience_value = $1)
	OR audience_kind = 'broadcast'
	OR (audience_kind = 'role' AND audience_value = $2)
)`

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, audience_kind, audience_value, title, message, type, category, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = q.Exec(ctx, query,
		n.ID,
		n.Audience.Kind,
		n.Audience.Value,
		n.Title,
		n.Message,
		n.Type,
		n.Category,
		dataJSON,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateBatch creates multiple notifications in a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*10)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}

		dataJSON, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}

		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		valueArgs = append(valueArgs,
			n.ID, n.Audience.Kind, n.Audience.Value,
			n.Title, n.Message, n.Type, n.Category,
			dataJSON, n.IsRead, n.CreatedAt,
		)
	}

	query := `
		INSERT INTO notifications (id, audience_kind, audience_value, title, message, type, category, data, is_read, created_at)
		VALUES ` + strings.Join(valueStrings, ", ")

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}

	return nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var dataJSON []byte

	err := row.Scan(
		&n.ID, &n.Audience.Kind, &n.Audience.Value,
		&n.Title, &n.Message, &n.Type, &n.Category,
		&dataJSON, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}

	return &n, nil
}

const notificationColumns = `id, audience_kind, audience_value, title, message, type, category, data, is_read, read_at, created_at`

// GetByID retrieves a notification by ID
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

// GetForRecipient implements notification.Repository.
func (r *notificationRepository) GetForRecipient(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	where := recipientCondition
	if unreadOnly {
		where += " AND is_read = FALSE"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM notifications WHERE " + where
	if err := q.QueryRow(ctx, countQuery, employeeID, role).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := "SELECT " + notificationColumns + " FROM notifications WHERE " + where +
		" ORDER BY created_at DESC LIMIT $3 OFFSET $4"

	rows, err := q.Query(ctx, query, employeeID, role, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepository) GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT COUNT(*) FROM notifications WHERE " + recipientCondition + " AND is_read = FALSE"

	var count int
	if err := q.QueryRow(ctx, query, employeeID, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead implements notification.Repository. Only notifications the
// recipient can see are touched.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, employeeID string, role string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $3
		WHERE id = ANY($4) AND ` + recipientCondition

	if _, err := q.Exec(ctx, query, employeeID, role, time.Now().UTC(), ids); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, employeeID string, role string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $3
		WHERE is_read = FALSE AND ` + recipientCondition

	if _, err := q.Exec(ctx, query, employeeID, role, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}
