package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/mailroom-backend/internal/model"
)

// EmailLogRepository handles broadcast audit records.
type EmailLogRepository struct {
	pool *pgxpool.Pool
}

// NewEmailLogRepository creates a new EmailLogRepository.
func NewEmailLogRepository(pool *pgxpool.Pool) *EmailLogRepository {
	return &EmailLogRepository{pool: pool}
}

type emailLogRow struct {
	ID          int                    `db:"id"`
	Subject     string                 `db:"subject"`
	Message     string                 `db:"message"`
	Recipients  string                 `db:"recipients"`
	ClassName   *string                `db:"class_name"`
	SentBy      int                    `db:"sent_by"`
	Attachments []model.AttachmentMeta `db:"attachments"`
	SentAt      time.Time              `db:"sent_at"`
	UserName    string                 `db:"user_name"`
	UserEmail   string                 `db:"user_email"`
	UserRole    model.Role             `db:"user_role"`
}

// Create inserts an audit record. SentAt is filled by the database when zero.
func (r *EmailLogRepository) Create(ctx context.Context, l *model.EmailLog) error {
	var sentAt *time.Time
	if !l.SentAt.IsZero() {
		sentAt = &l.SentAt
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO email_logs (subject, message, recipients, class_name, sent_by, attachments, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		 RETURNING id, sent_at`,
		l.Subject, l.Message, l.Recipients, l.ClassName, l.SentBy, l.Attachments, sentAt,
	).Scan(&l.ID, &l.SentAt)
}

// ListPage returns the total number of logs matching q.Search and the requested page,
// most recent first, each joined with its sender.
func (r *EmailLogRepository) ListPage(ctx context.Context, q model.LogQuery) (int, []model.EmailLogEntry, error) {
	where := ``
	var args []interface{}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where = ` WHERE l.subject ILIKE $1 OR l.recipients ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM email_logs l`+where, args...).Scan(&total); err != nil {
		return 0, nil, err
	}

	args = append(args, q.PageSize, q.Offset())
	limitIdx := len(args) - 1
	query := `SELECT l.id, l.subject, l.message, l.recipients, l.class_name, l.sent_by, l.attachments, l.sent_at,
		        u.name AS user_name, u.email AS user_email, u.role AS user_role
		 FROM email_logs l JOIN users u ON u.id = l.sent_by` + where + `
		 ORDER BY l.sent_at DESC, l.id DESC
		 LIMIT $` + strconv.Itoa(limitIdx) + ` OFFSET $` + strconv.Itoa(limitIdx+1)

	var rows []emailLogRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return 0, nil, err
	}

	entries := make([]model.EmailLogEntry, 0, len(rows))
	for _, row := range rows {
		attachments := row.Attachments
		if attachments == nil {
			attachments = []model.AttachmentMeta{}
		}
		entries = append(entries, model.EmailLogEntry{
			EmailLog: model.EmailLog{
				ID:          row.ID,
				Subject:     row.Subject,
				Message:     row.Message,
				Recipients:  row.Recipients,
				ClassName:   row.ClassName,
				SentBy:      row.SentBy,
				Attachments: attachments,
				SentAt:      row.SentAt,
			},
			User: model.UserProfile{
				ID:    row.SentBy,
				Name:  row.UserName,
				Email: row.UserEmail,
				Role:  row.UserRole,
			},
		})
	}
	return total, entries, nil
}

// escapeLike makes s match literally inside a LIKE/ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
