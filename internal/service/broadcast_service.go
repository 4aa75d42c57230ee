package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/mailer"
	"github.com/stemsi/mailroom-backend/internal/metrics"
	"github.com/stemsi/mailroom-backend/internal/model"
)

const (
	defaultPage     = 1
	defaultPageSize = 10

	auditWriteTimeout = 5 * time.Second
)

// SendInput is one broadcast request after the multipart form is read.
type SendInput struct {
	Subject     string
	Message     string
	Recipients  string
	Class       string
	Attachments []mailer.Attachment
	SenderID    int
}

// BroadcastService resolves recipients, hands the message to the transport and
// records an audit row for every delivered broadcast.
type BroadcastService struct {
	users       UserStore
	logs        EmailLogStore
	classes     *ClassService
	transport   mailer.Transport
	maxPageSize int
	log         zerolog.Logger
	now         func() time.Time
}

// NewBroadcastService creates a new BroadcastService.
func NewBroadcastService(
	users UserStore,
	logs EmailLogStore,
	classes *ClassService,
	transport mailer.Transport,
	maxPageSize int,
	log zerolog.Logger,
) *BroadcastService {
	return &BroadcastService{
		users:       users,
		logs:        logs,
		classes:     classes,
		transport:   transport,
		maxPageSize: maxPageSize,
		log:         log.With().Str("component", "broadcast_service").Logger(),
		now:         time.Now,
	}
}

// Send delivers one broadcast. The audit row is written only after the
// transport accepted the message; an audit failure is logged and swallowed
// because the mail has already gone out.
func (s *BroadcastService) Send(ctx context.Context, in SendInput) error {
	sel, err := ParseSelector(in.Recipients, in.Class)
	if err != nil {
		return err
	}

	to, err := Resolve(ctx, s.users, sel)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}
	if len(to) == 0 {
		metrics.BroadcastsTotal.WithLabelValues(metrics.ResultNoRecipients).Inc()
		return ErrNoRecipients
	}

	msg := &mailer.Message{
		To:          to,
		Subject:     in.Subject,
		HTMLBody:    in.Message,
		Attachments: in.Attachments,
	}
	if err := s.transport.Send(ctx, msg); err != nil {
		metrics.BroadcastsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		s.log.Error().Err(err).Int("sent_by", in.SenderID).Int("recipients", len(to)).Msg("broadcast failed")
		return &TransportError{Err: err}
	}
	metrics.BroadcastsTotal.WithLabelValues(metrics.ResultSent).Inc()
	metrics.BroadcastRecipients.Observe(float64(len(to)))

	entry := &model.EmailLog{
		Recipients:  in.Recipients,
		Subject:     in.Subject,
		Message:     in.Message,
		SentBy:      in.SenderID,
		Attachments: attachmentMeta(in.Attachments),
		SentAt:      s.now(),
	}
	if class := strings.TrimSpace(in.Class); class != "" {
		entry.ClassName = &class
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.logs.Create(auditCtx, entry); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		s.log.Error().Err(err).
			Str("event", "audit_write_failed").
			Int("sent_by", in.SenderID).
			Str("subject", in.Subject).
			Msg("broadcast delivered but audit record was not written")
		return nil
	}

	s.log.Info().Int("log_id", entry.ID).Int("recipients", len(to)).Msg("broadcast sent")
	return nil
}

// Recipients previews who a group would reach, along with the selectable groups
// and classes.
func (s *BroadcastService) Recipients(ctx context.Context, group, classID string) (*model.RecipientPreview, error) {
	sel, err := PreviewSelector(group, classID)
	if err != nil {
		return nil, err
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	emails, err := Resolve(ctx, s.users, sel)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	if emails == nil {
		emails = []string{}
	}

	return &model.RecipientPreview{
		Groups:  PreviewGroups,
		Classes: classes,
		Emails:  emails,
	}, nil
}

// Logs returns one page of the audit log, newest first.
func (s *BroadcastService) Logs(ctx context.Context, q model.LogQuery) (*model.EmailLogPage, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if s.maxPageSize > 0 && q.PageSize > s.maxPageSize {
		q.PageSize = s.maxPageSize
	}
	// keep Offset from overflowing; such a page is simply past the end
	if maxPage := math.MaxInt / q.PageSize; q.Page > maxPage {
		q.Page = maxPage
	}

	count, logs, err := s.logs.ListPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	if logs == nil {
		logs = []model.EmailLogEntry{}
	}
	return &model.EmailLogPage{Count: count, Logs: logs}, nil
}

// ParseLogQuery builds a LogQuery from raw query-string values. Non-numeric
// values become zero and are replaced by defaults in Logs. search is kept
// verbatim, surrounding spaces included.
func ParseLogQuery(page, pageSize, search string) model.LogQuery {
	p, _ := strconv.Atoi(strings.TrimSpace(page))
	ps, _ := strconv.Atoi(strings.TrimSpace(pageSize))
	return model.LogQuery{Page: p, PageSize: ps, Search: search}
}

func attachmentMeta(atts []mailer.Attachment) []model.AttachmentMeta {
	meta := make([]model.AttachmentMeta, 0, len(atts))
	for _, a := range atts {
		meta = append(meta, model.AttachmentMeta{Filename: a.Filename, ContentType: a.ContentType})
	}
	return meta
}
