package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"capture-econ/internal/engine"
	"capture-econ/internal/model"
)

// CacheEntry is one stored simulation.
type CacheEntry struct {
	ID        string
	Inputs    model.Inputs
	Result    *engine.Result
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ResultCache keeps recent simulation results in memory so the ledger and
// report endpoints can serve them by id. Entries expire after the TTL and a
// background sweep removes them. Identical inputs share one id while the
// entry is live, since a simulation is a pure function of its inputs.
type ResultCache struct {
	mu      sync.RWMutex
	store   map[string]*CacheEntry
	byInput map[string]string
	ttl     time.Duration
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return newResultCache(ttl, 5*time.Minute)
}

func newResultCache(ttl, sweep time.Duration) *ResultCache {
	c := &ResultCache{
		store:   make(map[string]*CacheEntry),
		byInput: make(map[string]string),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.cleanup(sweep)
	return c
}

// Put stores res and returns its id.
func (c *ResultCache) Put(in model.Inputs, res *engine.Result) string {
	key := InputsKey(in)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byInput[key]; ok {
		if e, ok := c.store[id]; ok && now.Before(e.ExpiresAt) {
			// Entries already handed out by Get are never written again.
			c.store[id] = &CacheEntry{
				ID:        id,
				Inputs:    in,
				Result:    res,
				CreatedAt: e.CreatedAt,
				ExpiresAt: now.Add(c.ttl),
			}
			return id
		}
	}

	id := uuid.NewString()
	c.store[id] = &CacheEntry{
		ID:        id,
		Inputs:    in,
		Result:    res,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.byInput[key] = id
	return id
}

// Get returns a live entry by id.
func (c *ResultCache) Get(id string) (*CacheEntry, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[id]
	if !ok || !c.now().Before(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// Len is the number of stored entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
	c.byInput = make(map[string]string)
}

// Close stops the background sweep. It is safe to call more than once.
func (c *ResultCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ResultCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ResultCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.store {
		if !now.Before(e.ExpiresAt) {
			delete(c.store, id)
			if key := InputsKey(e.Inputs); c.byInput[key] == id {
				delete(c.byInput, key)
			}
		}
	}
}

// InputsKey is a deterministic digest of a parameter set.
func InputsKey(in model.Inputs) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%+v", in)))
	return hex.EncodeToString(hash[:])
}
