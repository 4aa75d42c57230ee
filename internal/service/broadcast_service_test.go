package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/mailer"
	"github.com/stemsi/mailroom-backend/internal/model"
)

type broadcastFixture struct {
	svc       *BroadcastService
	users     *fakeUsers
	logs      *fakeLogs
	transport *fakeTransport
}

func newBroadcastFixture() *broadcastFixture {
	classA := 1
	users := &fakeUsers{}
	users.add("Admin", "admin@school.test", model.RoleAdmin, nil)
	users.add("Sam", "sam@school.test", model.RoleStudent, &classA)
	users.add("Pia", "pia@school.test", model.RoleParent, &classA)

	logs := &fakeLogs{}
	transport := &fakeTransport{}
	classes := NewClassService(&fakeClasses{classes: []model.Class{{ID: 1, Name: "7A"}}}, nil, 0, zerolog.Nop())

	svc := NewBroadcastService(users, logs, classes, transport, 100, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }

	return &broadcastFixture{svc: svc, users: users, logs: logs, transport: transport}
}

func TestSend_NoRecipientsSkipsTransport(t *testing.T) {
	f := newBroadcastFixture()

	err := f.svc.Send(context.Background(), SendInput{
		Subject: "Trip", Message: "<p>hi</p>", Recipients: "class", Class: "42", SenderID: 1,
	})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if len(f.transport.sent) != 0 {
		t.Error("transport must not be called without recipients")
	}
	if len(f.logs.created) != 0 {
		t.Error("no audit row expected")
	}
}

func TestSend_EmptyExplicitListHasNoRecipients(t *testing.T) {
	f := newBroadcastFixture()

	err := f.svc.Send(context.Background(), SendInput{Subject: "x", Message: "y", Recipients: " , ", SenderID: 1})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
}

func TestSend_TransportFailureWritesNoLog(t *testing.T) {
	f := newBroadcastFixture()
	f.transport.err = errors.New("535 authentication failed")

	err := f.svc.Send(context.Background(), SendInput{Subject: "x", Message: "y", Recipients: "all", SenderID: 1})

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Error() != "535 authentication failed" {
		t.Errorf("expected transport message to pass through, got %q", terr.Error())
	}
	if len(f.logs.created) != 0 {
		t.Errorf("expected no audit row, got %d", len(f.logs.created))
	}
}

func TestSend_SuccessWritesOneMetadataOnlyLog(t *testing.T) {
	f := newBroadcastFixture()

	err := f.svc.Send(context.Background(), SendInput{
		Subject:    "Trip",
		Message:    "<p>Bring lunch</p>",
		Recipients: "class",
		Class:      "1",
		SenderID:   7,
		Attachments: []mailer.Attachment{
			{Filename: "form.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(f.transport.sent) != 1 {
		t.Fatalf("expected one transport call, got %d", len(f.transport.sent))
	}
	msg := f.transport.sent[0]
	if len(msg.To) != 2 || msg.HTMLBody != "<p>Bring lunch</p>" || len(msg.Attachments) != 1 {
		t.Errorf("unexpected message: %+v", msg)
	}

	if len(f.logs.created) != 1 {
		t.Fatalf("expected exactly one audit row, got %d", len(f.logs.created))
	}
	entry := f.logs.created[0]
	if entry.Recipients != "class" {
		t.Errorf("expected original selector string, got %q", entry.Recipients)
	}
	if entry.ClassName == nil || *entry.ClassName != "1" {
		t.Errorf("expected class context 1, got %v", entry.ClassName)
	}
	if entry.SentBy != 7 {
		t.Errorf("expected sender 7, got %d", entry.SentBy)
	}
	if len(entry.Attachments) != 1 || entry.Attachments[0] != (model.AttachmentMeta{Filename: "form.pdf", ContentType: "application/pdf"}) {
		t.Errorf("unexpected attachment metadata: %+v", entry.Attachments)
	}
	if !entry.SentAt.Equal(time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected sent_at %v", entry.SentAt)
	}
}

func TestSend_NoClassStoresNullContext(t *testing.T) {
	f := newBroadcastFixture()

	if err := f.svc.Send(context.Background(), SendInput{Subject: "x", Message: "y", Recipients: "parents", SenderID: 1}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if f.logs.created[0].ClassName != nil {
		t.Errorf("expected nil class context, got %v", *f.logs.created[0].ClassName)
	}
	if f.logs.created[0].Attachments == nil {
		t.Error("expected empty, non-nil attachment metadata")
	}
}

func TestSend_AuditFailureStillSucceeds(t *testing.T) {
	f := newBroadcastFixture()
	f.logs.createErr = errStoreDown

	err := f.svc.Send(context.Background(), SendInput{Subject: "x", Message: "y", Recipients: "all", SenderID: 1})
	if err != nil {
		t.Fatalf("expected success despite audit failure, got %v", err)
	}
	if len(f.transport.sent) != 1 {
		t.Errorf("expected mail to be sent once, got %d", len(f.transport.sent))
	}
}

func TestSend_AuditSurvivesCanceledRequest(t *testing.T) {
	f := newBroadcastFixture()
	ctx, cancel := context.WithCancel(context.Background())
	// Fakes ignore ctx, so only the audit write observes the cancellation.
	cancel()
	if err := f.svc.Send(ctx, SendInput{Subject: "x", Message: "y", Recipients: "all", SenderID: 1}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if f.logs.ctxErr != nil {
		t.Errorf("audit write saw a canceled context: %v", f.logs.ctxErr)
	}
}

func TestSend_InvalidClass(t *testing.T) {
	f := newBroadcastFixture()
	err := f.svc.Send(context.Background(), SendInput{Recipients: "class", Class: "7A", SenderID: 1})
	if !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("expected ErrInvalidClass, got %v", err)
	}
}

func TestRecipients(t *testing.T) {
	f := newBroadcastFixture()
	ctx := context.Background()

	preview, err := f.svc.Recipients(ctx, "class", "1")
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(preview.Groups) != 3 || preview.Groups[0] != GroupAll {
		t.Errorf("unexpected groups %v", preview.Groups)
	}
	if len(preview.Classes) != 1 || preview.Classes[0].Name != "7A" {
		t.Errorf("unexpected classes %+v", preview.Classes)
	}
	if len(preview.Emails) != 2 {
		t.Errorf("expected two class members, got %v", preview.Emails)
	}

	unknown, err := f.svc.Recipients(ctx, "a@school.test", "")
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if unknown.Emails == nil || len(unknown.Emails) != 0 {
		t.Errorf("expected empty list for unknown group, got %v", unknown.Emails)
	}
}

func TestLogs_NormalizesPaging(t *testing.T) {
	f := newBroadcastFixture()
	ctx := context.Background()

	tests := []struct {
		name             string
		in               model.LogQuery
		wantPage, wantPS int
	}{
		{"defaults", ParseLogQuery("", "", ""), 1, 10},
		{"non-numeric", ParseLogQuery("abc", "x", ""), 1, 10},
		{"negative", ParseLogQuery("-2", "0", ""), 1, 10},
		{"explicit", ParseLogQuery("3", "25", ""), 3, 25},
		{"clamped", ParseLogQuery("1", "5000", ""), 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.Logs(ctx, tt.in)
			if err != nil {
				t.Fatalf("logs: %v", err)
			}
			if page.Logs == nil {
				t.Error("expected non-nil logs slice")
			}
			q := f.logs.lastQuery
			if q.Page != tt.wantPage || q.PageSize != tt.wantPS {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", q.Page, q.PageSize, tt.wantPage, tt.wantPS)
			}
		})
	}

	if got := (model.LogQuery{Page: 3, PageSize: 10}).Offset(); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
}

func TestLogs_HugePageDoesNotOverflowOffset(t *testing.T) {
	f := newBroadcastFixture()

	q := ParseLogQuery(strconv.Itoa(math.MaxInt), "10", "")
	if _, err := f.svc.Logs(context.Background(), q); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if off := f.logs.lastQuery.Offset(); off < 0 {
		t.Errorf("expected non-negative offset, got %d", off)
	}
}

func TestParseLogQuery_KeepsSearchVerbatim(t *testing.T) {
	if got := ParseLogQuery("", "", " 7A").Search; got != " 7A" {
		t.Errorf("expected search %q, got %q", " 7A", got)
	}
	if got := ParseLogQuery("", "", "").Search; got != "" {
		t.Errorf("expected empty search, got %q", got)
	}
}
