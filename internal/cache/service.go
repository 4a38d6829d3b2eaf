package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cache-store-api/internal/database"
	"cache-store-api/internal/models"
	"cache-store-api/internal/timeutil"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Config controls construction of a Service.
type Config struct {
	// StoreID names the backing database. Defaults to "cache-store".
	StoreID string

	// StoreVersion is the schema version of the store. Bumping it rebuilds
	// the entries table on the next Init. Defaults to 1.
	StoreVersion int

	// Verbose enables operational logging for storage-level failures and
	// lifecycle transitions.
	Verbose bool

	// Events optionally receives entry lifecycle events (put, delete,
	// expire, flush).
	Events EventSink
}

// Stats reports store contents and accumulated access counters.
type Stats struct {
	Entries     int64 `json:"entries"`
	Expired     int64 `json:"expired"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Expirations int64 `json:"expirations"`
}

type state int

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
)

// initAttempt carries the result of one in-flight initialization so that
// concurrent Init callers share a single connection attempt. err is written
// before done is closed.
type initAttempt struct {
	done chan struct{}
	err  error
}

// Service mediates all reads and writes against one persistent key-value
// store with per-entry expiration. Entries past their expiration are treated
// as absent and removed on the read that discovers them; no background
// sweeper exists.
//
// The connection handle is established once by Init and lives for the
// lifetime of the Service; it is never closed by this component.
type Service struct {
	cfg Config

	mu      sync.RWMutex
	st      state
	db      *gorm.DB
	attempt *initAttempt

	statsMu     sync.Mutex
	hits        int64
	misses      int64
	expirations int64
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// New constructs a Service with defaults applied. The store is not opened
// until Init is called.
func New(cfg Config) *Service {
	if cfg.StoreID == "" {
		cfg.StoreID = "cache-store"
	}
	if cfg.StoreVersion == 0 {
		cfg.StoreVersion = 1
	}
	return &Service{cfg: cfg}
}

// Init establishes the store connection if not already established. It is
// idempotent: once the service is ready, further calls return immediately
// with no side effects. Concurrent callers before the first attempt resolves
// share that attempt and its result, so duplicate connections cannot be
// opened. A failed attempt leaves the service uninitialized and Init may be
// retried.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	switch s.st {
	case stateReady:
		s.mu.Unlock()
		return nil
	case stateInitializing:
		attempt := s.attempt
		s.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	attempt := &initAttempt{done: make(chan struct{})}
	s.attempt = attempt
	s.st = stateInitializing
	s.mu.Unlock()

	db, err := database.Open(s.cfg.StoreID, s.cfg.StoreVersion, s.cfg.Verbose)

	s.mu.Lock()
	if err != nil {
		s.st = stateUninitialized
		s.logf("initialization failed: %v", err)
	} else {
		s.db = db
		s.st = stateReady
	}
	s.attempt = nil
	s.mu.Unlock()

	attempt.err = err
	close(attempt.done)
	return err
}

// Ready reports whether the store connection is established.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st == stateReady
}

// StoreID returns the configured store identifier.
func (s *Service) StoreID() string {
	return s.cfg.StoreID
}

// handle returns the connection or ErrNotInitialized outside the ready state.
func (s *Service) handle() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st != stateReady {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// DB exposes the store handle for collaborators persisting alongside the
// cache entries (the client registry). Reports ErrNotInitialized before Init
// has succeeded.
func (s *Service) DB() (*gorm.DB, error) {
	return s.handle()
}

// DefaultExpiration returns the expiration applied to writes that do not
// specify one: one hour from the given time.
func DefaultExpiration(from time.Time) time.Time {
	exp, _ := timeutil.Add(from, timeutil.UnitHour, 1)
	return exp
}

// Get returns the stored value for key. A key that was never written (or was
// already removed) reports ErrNotFound. An entry past its expiration is
// removed as a side effect and yields an empty value with a nil error; the
// next Get of the same key then reports ErrNotFound.
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	value, found, expired, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, nil
	}
	if !found {
		return nil, ErrNotFound
	}
	return value, nil
}

// Lookup behaves like Get but reports absence through the boolean instead of
// ErrNotFound. Expired entries are removed and reported as absent.
func (s *Service) Lookup(ctx context.Context, key string) (json.RawMessage, bool, error) {
	value, found, expired, err := s.load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if expired || !found {
		return nil, false, nil
	}
	return value, true, nil
}

// load fetches the entry for key and applies the expiration-on-read policy:
// an expired entry is deleted first, then reported as expired. The deletion
// is best-effort; a failed removal is logged and the read still resolves
// empty exactly once.
func (s *Service) load(ctx context.Context, key string) (value json.RawMessage, found, expired bool, err error) {
	db, err := s.handle()
	if err != nil {
		return nil, false, false, err
	}

	var entry models.CacheEntry
	err = db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.countMiss()
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, fmt.Errorf("failed to read entry %q: %w", key, err)
	}

	if entry.Expired(now()) {
		if derr := db.WithContext(ctx).Where("key = ?", key).Delete(&models.CacheEntry{}).Error; derr != nil {
			s.logf("failed to remove expired entry %q: %v", key, derr)
		}
		s.countExpiration()
		s.publish(Event{Type: EventExpired, Key: key})
		return nil, false, true, nil
	}

	s.countHit()
	return json.RawMessage(entry.Value), true, false, nil
}

// Put stores value under key, overwriting any existing entry. A zero
// expiresAt defaults to one hour from now. The boolean reports write success:
// serialization and storage failures are logged (when verbose) and surface as
// false rather than an error. The error is non-nil only when the service is
// not initialized.
func (s *Service) Put(ctx context.Context, key string, value any, expiresAt time.Time) (bool, error) {
	db, err := s.handle()
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.logf("failed to serialize value for key %q: %v", key, err)
		return false, nil
	}

	if expiresAt.IsZero() {
		expiresAt = DefaultExpiration(now())
	}

	entry := models.CacheEntry{Key: key, Value: payload, ExpiresAt: expiresAt}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.logf("failed to store entry %q: %v", key, err)
		return false, nil
	}

	s.publish(Event{Type: EventPut, Key: key})
	return true, nil
}

// Delete removes the entry for key if present. Deleting an absent key is not
// an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	res := db.WithContext(ctx).Where("key = ?", key).Delete(&models.CacheEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete entry %q: %w", key, res.Error)
	}
	if res.RowsAffected > 0 {
		s.publish(Event{Type: EventDeleted, Key: key})
	}
	return nil
}

// Flush removes all entries in the store.
func (s *Service) Flush(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	res := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CacheEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to flush store: %w", res.Error)
	}
	s.publish(Event{Type: EventFlushed})
	return nil
}

// Stats returns the current entry counts alongside accumulated access
// counters. Expired reports entries already past expiration that no read has
// reaped yet.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	db, err := s.handle()
	if err != nil {
		return Stats{}, err
	}

	var entries, expired int64
	if err := db.WithContext(ctx).Model(&models.CacheEntry{}).Count(&entries).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count entries: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.CacheEntry{}).Where("expires_at <= ?", now()).Count(&expired).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count expired entries: %w", err)
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return Stats{
		Entries:     entries,
		Expired:     expired,
		Hits:        s.hits,
		Misses:      s.misses,
		Expirations: s.expirations,
	}, nil
}

func (s *Service) countHit() {
	s.statsMu.Lock()
	s.hits++
	s.statsMu.Unlock()
}

func (s *Service) countMiss() {
	s.statsMu.Lock()
	s.misses++
	s.statsMu.Unlock()
}

func (s *Service) countExpiration() {
	s.statsMu.Lock()
	s.expirations++
	s.statsMu.Unlock()
}

func (s *Service) publish(evt Event) {
	if s.cfg.Events != nil {
		s.cfg.Events.Publish(evt)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.cfg.Verbose {
		log.Printf("[cache %s] "+format, append([]any{s.cfg.StoreID}, args...)...)
	}
}
