package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/repository"
)

var errStaleClassList = errors.New("class list changed during read")

// ClassService handles class business logic. The full class list is cached in
// Redis and dropped on every successful write.
type ClassService struct {
	classes ClassStore
	rdb     *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
}

// NewClassService creates a new ClassService. rdb may be nil to disable caching.
func NewClassService(classes ClassStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes: classes,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With().Str("component", "class_service").Logger(),
	}
}

// List returns every class ordered by id.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}

	gen, genOK := s.generation(ctx)

	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}

	if genOK {
		s.storeList(ctx, gen, classes)
	}
	return classes, nil
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c, err := s.classes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClassNotFound
	}
	return c, err
}

// Create adds a class with a unique name.
func (s *ClassService) Create(ctx context.Context, name string) (*model.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	exists, err := s.classes.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check class name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateClass
	}

	c := &model.Class{Name: name}
	if err := s.classes.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateClass
		}
		return nil, fmt.Errorf("create class: %w", err)
	}

	s.invalidate(ctx)
	return c, nil
}

// Update renames a class. An empty name leaves the name unchanged.
func (s *ClassService) Update(ctx context.Context, id int, name string) (*model.Class, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}

	if err := s.classes.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrClassNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateClass
		}
		return nil, fmt.Errorf("update class: %w", err)
	}

	s.invalidate(ctx)
	return c, nil
}

// Delete removes a class. Users that reference it keep their class id.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClassNotFound
		}
		return fmt.Errorf("delete class: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *ClassService) cachedList(ctx context.Context) ([]model.Class, bool) {
	if s.rdb == nil {
		return nil, false
	}

	raw, err := s.rdb.Get(ctx, config.CacheKey.ClassListKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("class cache read failed")
		}
		return nil, false
	}

	var classes []model.Class
	if err := json.Unmarshal(raw, &classes); err != nil {
		s.log.Warn().Err(err).Msg("class cache entry corrupt")
		return nil, false
	}
	return classes, true
}

// generation reads the class write counter. ok is false when Redis is
// unavailable, in which case the list is not cached.
func (s *ClassService) generation(ctx context.Context) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	gen, err := s.rdb.Get(ctx, config.CacheKey.ClassGenerationKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("class cache generation read failed")
		return "", false
	}
	return gen, true
}

// storeList caches classes unless a write bumped the generation since gen was read.
func (s *ClassService) storeList(ctx context.Context, gen string, classes []model.Class) {
	raw, err := json.Marshal(classes)
	if err != nil {
		return
	}

	genKey := config.CacheKey.ClassGenerationKey()
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleClassList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, config.CacheKey.ClassListKey(), raw, s.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleClassList), errors.Is(err, redis.TxFailedErr):
		s.log.Debug().Msg("class list changed during read, not caching")
	default:
		s.log.Warn().Err(err).Msg("class cache write failed")
	}
}

func (s *ClassService) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, config.CacheKey.ClassGenerationKey())
		pipe.Del(ctx, config.CacheKey.ClassListKey())
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("class cache invalidation failed")
	}
}
