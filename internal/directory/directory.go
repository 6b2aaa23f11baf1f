// Package directory is the read-only adapter over the institution's user and
// department records. The lifecycle engine consults it to re-validate team
// assignments server-side and to list assignable auditors.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
)

// Auditor is a user holding the AUDITOR role within a tenant.
type Auditor struct {
	ID        id.UserID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// DepartmentHead is the responsible manager of one department; the auditee
// side of schedule responsibilities.
type DepartmentHead struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Store is the durable lookup behind the directory.
type Store interface {
	AuditorsByTenant(ctx context.Context, tenantID id.TenantID) ([]Auditor, error)
	DepartmentHeadsByTenant(ctx context.Context, tenantID id.TenantID) ([]DepartmentHead, error)
}

// Cache is an optional read-through cache in front of the store. Directory
// data changes rarely and is read on every team validation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Service resolves tenant personnel, caching lookups when a cache is wired.
type Service struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a directory service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, ttl: 5 * time.Minute, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuditorsByTenant lists the AUDITOR-role users of a tenant.
func (s *Service) AuditorsByTenant(ctx context.Context, tenantID id.TenantID) ([]Auditor, error) {
	key := fmt.Sprintf("directory:auditors:%s", tenantID)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var auditors []Auditor
		if err := json.Unmarshal(cached, &auditors); err == nil {
			return auditors, nil
		}
	}

	auditors, err := s.store.AuditorsByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "directory unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load auditors")
	}
	s.cacheSet(ctx, key, auditors)
	return auditors, nil
}

// DepartmentHeadsByTenant lists the department heads of a tenant.
func (s *Service) DepartmentHeadsByTenant(ctx context.Context, tenantID id.TenantID) ([]DepartmentHead, error) {
	key := fmt.Sprintf("directory:heads:%s", tenantID)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var heads []DepartmentHead
		if err := json.Unmarshal(cached, &heads); err == nil {
			return heads, nil
		}
	}

	heads, err := s.store.DepartmentHeadsByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load department heads")
	}
	s.cacheSet(ctx, key, heads)
	return heads, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, data, s.ttl)
}
