package slackrelay

import (
	"crypto/md5"
	"fmt"
	"github.com/alexandre-normand/slackrelay/store"
	"github.com/alexandre-normand/slackrelay/store/inmemorydb"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// maxHashedTextRunes caps how much of the message text is included in the
// content hash so very long messages still hash consistently
const maxHashedTextRunes = 100

// MessageID computes a stable identifier for the content of an event. The
// identifier is the md5 sum of the user, channel, timestamp and the first
// 100 runes of the message text joined with "|".
func MessageID(e *Event) (id string) {
	text := e.Text
	if runes := []rune(text); len(runes) > maxHashedTextRunes {
		text = string(runes[:maxHashedTextRunes])
	}

	content := strings.Join([]string{e.User, e.Channel, e.Timestamp, text}, "|")

	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}

// ContentDeduper detects duplicated messages by their content hash. Where
// DedupGuard tracks event identity on intake, ContentDeduper catches retried
// deliveries that carry a fresh envelope but the same user, channel,
// timestamp and text.
type ContentDeduper struct {
	seen    store.StringStorer
	ttl     time.Duration
	nowFunc func() time.Time
	log     SLogger
	mutex   sync.Mutex
}

// ContentDedupOption defines an option for a ContentDeduper
type ContentDedupOption func(*ContentDeduper)

// WithContentStorer overrides the storage backing the table of seen hashes
func WithContentStorer(storer store.StringStorer) ContentDedupOption {
	return func(deduper *ContentDeduper) {
		deduper.seen = storer
	}
}

// WithContentTTL overrides the duration after which seen hashes expire
func WithContentTTL(ttl time.Duration) ContentDedupOption {
	return func(deduper *ContentDeduper) {
		deduper.ttl = ttl
	}
}

// WithContentClock overrides the clock used to timestamp and expire entries
func WithContentClock(nowFunc func() time.Time) ContentDedupOption {
	return func(deduper *ContentDeduper) {
		deduper.nowFunc = nowFunc
	}
}

// WithContentLogger overrides the logger used to report storage errors
func WithContentLogger(logger SLogger) ContentDedupOption {
	return func(deduper *ContentDeduper) {
		deduper.log = logger
	}
}

// NewContentDeduper returns a new ContentDeduper backed by an in-memory
// table and expiring entries after 5 minutes
func NewContentDeduper(options ...ContentDedupOption) (deduper *ContentDeduper) {
	deduper = new(ContentDeduper)
	deduper.seen = inmemorydb.New()
	deduper.ttl = defaultGuardTTL
	deduper.nowFunc = time.Now
	deduper.log = NewSLogger(log.New(os.Stdout, "", log.LstdFlags), false)

	for _, option := range options {
		option(deduper)
	}

	return deduper
}

// IsDuplicate reports whether an event with the same content hash was seen
// within the time to live. Unseen events are recorded so later deliveries of
// the same content get flagged. Expired entries are purged before the lookup
// and storage errors fail open.
func (deduper *ContentDeduper) IsDuplicate(e *Event) (duplicate bool) {
	deduper.mutex.Lock()
	defer deduper.mutex.Unlock()

	purgeExpired(deduper.seen, deduper.nowFunc().Add(-deduper.ttl), deduper.log)

	id := MessageID(e)

	if _, err := deduper.seen.GetString(id); err == nil {
		return true
	}

	if err := deduper.seen.PutString(id, deduper.nowFunc().Format(time.RFC3339)); err != nil {
		deduper.log.Printf("Error tracking content hash [%s]: %v\n", id, err)
	}

	return false
}

// Purge removes expired entries from the table of seen hashes
func (deduper *ContentDeduper) Purge() {
	deduper.mutex.Lock()
	defer deduper.mutex.Unlock()

	purgeExpired(deduper.seen, deduper.nowFunc().Add(-deduper.ttl), deduper.log)
}

// Close closes the storage backend
func (deduper *ContentDeduper) Close() (err error) {
	return deduper.seen.Close()
}
