package gameserver

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	idempotencyTTL       = 24 * time.Hour
	idempotencyCacheSize = 1000
)

// idempotencyKey scopes a client key to the method it was sent with
type idempotencyKey struct {
	Method         string
	IdempotencyKey string
}

// idempotencyEntry stores a cached response with timestamp
type idempotencyEntry struct {
	response  *structpb.Struct
	createdAt time.Time
}

// IdempotencyManager caches replies to keyed requests for one game
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	mu    sync.RWMutex
	clock clock.Clock
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager(clk clock.Clock) *IdempotencyManager {
	if clk == nil {
		clk = clock.New()
	}
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		clock: clk,
	}
}

// Check returns a copy of the cached response for key, or nil
func (im *IdempotencyManager) Check(method, key string) *structpb.Struct {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Method: method, IdempotencyKey: key}]
	if !exists {
		return nil
	}

	if im.clock.Since(entry.createdAt) > idempotencyTTL {
		return nil
	}

	return proto.Clone(entry.response).(*structpb.Struct)
}

// Store caches resp for key
func (im *IdempotencyManager) Store(method, key string, resp *structpb.Struct) {
	if key == "" || resp == nil {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Method: method, IdempotencyKey: key}] = &idempotencyEntry{
		response:  proto.Clone(resp).(*structpb.Struct),
		createdAt: im.clock.Now(),
	}

	if len(im.cache) > idempotencyCacheSize {
		im.cleanupOldEntriesLocked()
	}
}

// Clear drops every cached reply
func (im *IdempotencyManager) Clear() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.cache = make(map[idempotencyKey]*idempotencyEntry)
}

// Len returns the number of cached replies
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes expired entries. Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.clock.Now().Add(-idempotencyTTL)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
