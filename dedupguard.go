package slackrelay

import (
	"github.com/alexandre-normand/slackrelay/store"
	"github.com/alexandre-normand/slackrelay/store/inmemorydb"
	"log"
	"os"
	"sync"
	"time"
)

const (
	defaultGuardTTL = 5 * time.Minute
)

// GuardDisposition is the outcome of checking an incoming event against the
// deduplication tables
type GuardDisposition string

const (
	// Accepted means the event hadn't been seen before and is now tracked as in-flight
	Accepted GuardDisposition = "accepted"
	// DuplicateInFlight means the same event is currently being processed
	DuplicateInFlight GuardDisposition = "duplicateInFlight"
	// DuplicateCompleted means the same event was already processed to completion
	DuplicateCompleted GuardDisposition = "duplicateCompleted"
)

// DedupGuard tracks events through their processing lifecycle to prevent
// double-processing of retried deliveries. Events are tracked in two tables:
// an in-flight table holding events currently being processed and a completed
// table holding events processed to completion. Entries of both tables expire
// after the configured time to live and are purged on every check.
type DedupGuard struct {
	inFlight  store.StringStorer
	completed store.StringStorer
	ttl       time.Duration
	nowFunc   func() time.Time
	log       SLogger
	mutex     sync.Mutex
}

// GuardOption defines an option for a DedupGuard
type GuardOption func(*DedupGuard)

// WithInFlightStorer overrides the storage backing the in-flight table
func WithInFlightStorer(storer store.StringStorer) GuardOption {
	return func(guard *DedupGuard) {
		guard.inFlight = storer
	}
}

// WithCompletedStorer overrides the storage backing the completed table
func WithCompletedStorer(storer store.StringStorer) GuardOption {
	return func(guard *DedupGuard) {
		guard.completed = storer
	}
}

// WithGuardTTL overrides the duration after which tracked events expire
func WithGuardTTL(ttl time.Duration) GuardOption {
	return func(guard *DedupGuard) {
		guard.ttl = ttl
	}
}

// WithGuardClock overrides the clock used to timestamp and expire entries
func WithGuardClock(nowFunc func() time.Time) GuardOption {
	return func(guard *DedupGuard) {
		guard.nowFunc = nowFunc
	}
}

// WithGuardLogger overrides the logger used to report storage errors
func WithGuardLogger(logger SLogger) GuardOption {
	return func(guard *DedupGuard) {
		guard.log = logger
	}
}

// NewDedupGuard returns a new DedupGuard backed by in-memory tables and
// expiring entries after 5 minutes. Options can override the storage
// backends, the time to live and the clock.
func NewDedupGuard(options ...GuardOption) (guard *DedupGuard) {
	guard = new(DedupGuard)
	guard.inFlight = inmemorydb.New()
	guard.completed = inmemorydb.New()
	guard.ttl = defaultGuardTTL
	guard.nowFunc = time.Now
	guard.log = NewSLogger(log.New(os.Stdout, "", log.LstdFlags), false)

	for _, option := range options {
		option(guard)
	}

	return guard
}

// Check looks up the event in the completed and in-flight tables and, when
// unseen, records it as in-flight. Expired entries are purged before the
// lookup so a retried delivery arriving after the time to live is treated as
// a new event. Storage errors fail open and the event is accepted rather
// than silently dropped.
func (guard *DedupGuard) Check(e *Event) (disposition GuardDisposition) {
	guard.mutex.Lock()
	defer guard.mutex.Unlock()

	guard.purge()

	key := e.GuardKey()

	if _, err := guard.completed.GetString(key); err == nil {
		return DuplicateCompleted
	}

	if _, err := guard.inFlight.GetString(key); err == nil {
		return DuplicateInFlight
	}

	if err := guard.inFlight.PutString(key, guard.nowFunc().Format(time.RFC3339)); err != nil {
		guard.log.Printf("Error tracking event [%s] as in-flight: %v\n", key, err)
	}

	return Accepted
}

// MarkCompleted moves the event from the in-flight table to the completed
// table. It should be called once processing of the event is done, whether
// processing succeeded or not.
func (guard *DedupGuard) MarkCompleted(e *Event) {
	guard.mutex.Lock()
	defer guard.mutex.Unlock()

	key := e.GuardKey()

	if err := guard.inFlight.DeleteString(key); err != nil {
		guard.log.Debugf("Error removing in-flight entry [%s]: %v\n", key, err)
	}

	if err := guard.completed.PutString(key, guard.nowFunc().Format(time.RFC3339)); err != nil {
		guard.log.Printf("Error tracking event [%s] as completed: %v\n", key, err)
	}
}

// Release drops the event from the in-flight table without marking it
// completed. It should be called when an accepted event couldn't be handed
// off for processing so that a retried delivery isn't flagged as a duplicate.
func (guard *DedupGuard) Release(e *Event) {
	guard.mutex.Lock()
	defer guard.mutex.Unlock()

	key := e.GuardKey()

	if err := guard.inFlight.DeleteString(key); err != nil {
		guard.log.Debugf("Error removing in-flight entry [%s]: %v\n", key, err)
	}
}

// Purge removes expired entries from both tables. It runs implicitly on
// every Check but can also be invoked on a schedule to keep the tables small
// through quiet periods.
func (guard *DedupGuard) Purge() {
	guard.mutex.Lock()
	defer guard.mutex.Unlock()

	guard.purge()
}

// purge removes expired entries from both tables. Callers must hold the
// guard mutex.
func (guard *DedupGuard) purge() {
	cutoff := guard.nowFunc().Add(-guard.ttl)

	purgeExpired(guard.inFlight, cutoff, guard.log)
	purgeExpired(guard.completed, cutoff, guard.log)
}

// purgeExpired deletes all entries of a storer with a timestamp value older
// than the cutoff. Entries with values that fail to parse are deleted too
// since they could otherwise never expire.
func purgeExpired(storer store.StringStorer, cutoff time.Time, logger SLogger) {
	entries, err := storer.Scan()
	if err != nil {
		logger.Debugf("Error scanning for expired entries: %v\n", err)
		return
	}

	for key, value := range entries {
		recordedAt, parseErr := time.Parse(time.RFC3339, value)
		if parseErr != nil || recordedAt.Before(cutoff) {
			if err := storer.DeleteString(key); err != nil {
				logger.Debugf("Error deleting expired entry [%s]: %v\n", key, err)
			}
		}
	}
}

// GuardStats holds the current size of the deduplication tables
type GuardStats struct {
	InFlight  int `json:"inFlight"`
	Completed int `json:"completed"`
}

// Stats reports the current size of both deduplication tables
func (guard *DedupGuard) Stats() (stats GuardStats) {
	guard.mutex.Lock()
	defer guard.mutex.Unlock()

	if entries, err := guard.inFlight.Scan(); err == nil {
		stats.InFlight = len(entries)
	}

	if entries, err := guard.completed.Scan(); err == nil {
		stats.Completed = len(entries)
	}

	return stats
}

// Close closes both storage backends
func (guard *DedupGuard) Close() (err error) {
	err = guard.inFlight.Close()

	if closeErr := guard.completed.Close(); err == nil {
		err = closeErr
	}

	return err
}
