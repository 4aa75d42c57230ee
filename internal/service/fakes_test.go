package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stemsi/mailroom-backend/internal/mailer"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	users  []model.User
	nextID int
	// createErr is returned by Create when set.
	createErr error
	listErr   error
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUsers) ListEmails(_ context.Context, filter model.UserFilter) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	emails := []string{}
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ClassID != nil && (u.ClassID == nil || *u.ClassID != *filter.ClassID) {
			continue
		}
		emails = append(emails, u.Email)
	}
	return emails, nil
}

func (f *fakeUsers) add(name, email string, role model.Role, classID *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.users = append(f.users, model.User{ID: f.nextID, Name: name, Email: email, Role: role, ClassID: classID})
}

type fakeClasses struct {
	mu        sync.Mutex
	classes   []model.Class
	nextID    int
	listCalls int
	updateErr error
}

func (f *fakeClasses) GetByID(_ context.Context, id int) (*model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.classes {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClasses) ExistsByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.classes {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClasses) List(_ context.Context) ([]model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]model.Class, len(f.classes))
	copy(out, f.classes)
	return out, nil
}

func (f *fakeClasses) Create(_ context.Context, c *model.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	f.classes = append(f.classes, *c)
	return nil
}

func (f *fakeClasses) Update(_ context.Context, c *model.Class) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.classes {
		if f.classes[i].ID == c.ID {
			f.classes[i].Name = c.Name
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeClasses) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.classes {
		if f.classes[i].ID == id {
			f.classes = append(f.classes[:i], f.classes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeLogs struct {
	mu        sync.Mutex
	created   []model.EmailLog
	createErr error
	lastQuery model.LogQuery
	// ctxErr records the context error seen by Create.
	ctxErr error
}

func (f *fakeLogs) Create(ctx context.Context, l *model.EmailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = ctx.Err()
	if f.createErr != nil {
		return f.createErr
	}
	l.ID = len(f.created) + 1
	f.created = append(f.created, *l)
	return nil
}

func (f *fakeLogs) ListPage(_ context.Context, q model.LogQuery) (int, []model.EmailLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return 0, nil, nil
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var errStoreDown = errors.New("store down")
