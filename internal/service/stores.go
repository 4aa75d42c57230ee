package service

import (
	"context"

	"github.com/stemsi/mailroom-backend/internal/model"
)

// UserStore is the credential store. Implemented by repository.UserRepository.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	ListEmails(ctx context.Context, filter model.UserFilter) ([]string, error)
}

// ClassStore is the class registry. Implemented by repository.ClassRepository.
type ClassStore interface {
	GetByID(ctx context.Context, id int) (*model.Class, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id int) error
}

// EmailLogStore persists and pages broadcast audit records.
// Implemented by repository.EmailLogRepository.
type EmailLogStore interface {
	Create(ctx context.Context, l *model.EmailLog) error
	ListPage(ctx context.Context, q model.LogQuery) (int, []model.EmailLogEntry, error)
}
