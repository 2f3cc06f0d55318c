// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package verification

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	pending   *PendingRegistration
	expiresAt time.Time
}

// MemoryCache is an in-process Cache suitable for single-instance deployments
// and tests. For multi-instance deployments, use RedisCache.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// get returns the live entry for key, dropping it if expired.
func (c *MemoryCache) get(key string) (entry, bool) {
	e, ok := c.data[key]
	if !ok {
		return entry{}, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.data, key)
		return entry{}, false
	}
	return e, true
}

func (c *MemoryCache) SaveRegistration(_ context.Context, email, code string, pending *PendingRegistration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(CodeTTL)
	p := *pending
	c.data[codePrefix+email] = entry{value: code, expiresAt: expires}
	c.data[pendingPrefix+email] = entry{pending: &p, expiresAt: expires}
	return nil
}

func (c *MemoryCache) VerifyRegistration(_ context.Context, email, code string) (*PendingRegistration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.get(codePrefix + email)
	if !ok || stored.value != code {
		return nil, ErrCodeMismatch
	}
	cached, ok := c.get(pendingPrefix + email)
	if !ok || cached.pending == nil {
		return nil, ErrCodeMismatch
	}

	delete(c.data, codePrefix+email)
	delete(c.data, pendingPrefix+email)

	p := *cached.pending
	return &p, nil
}

func (c *MemoryCache) SaveRecovery(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[codePrefix+email] = entry{value: code, expiresAt: c.now().Add(CodeTTL)}
	return nil
}

func (c *MemoryCache) VerifyRecovery(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.get(codePrefix + email)
	if !ok || stored.value != code {
		return ErrCodeMismatch
	}

	delete(c.data, codePrefix+email)
	c.data[recoveryPrefix+email] = entry{value: "1", expiresAt: c.now().Add(ApprovalTTL)}
	return nil
}

func (c *MemoryCache) CheckRecovery(_ context.Context, email string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.get(recoveryPrefix + email)
	return ok, nil
}

func (c *MemoryCache) ConsumeRecovery(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, recoveryPrefix+email)
	return nil
}
