// Package queue provides a bounded in-memory work queue partitioned by item
// identity. It hands events from the webhook producer to the asynchronous
// consumer side with best-effort single enqueue semantics: the consumer must
// tolerate re-delivery of the same logical item.
package queue

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"hash/crc32"
	"math"
	"sync"
)

// Item is one queued unit of work: an opaque payload along with a deterministic
// identifier. The identifier routes the item to its partition so that deliveries
// of the same logical event are always consumed in arrival order by the same
// worker. It doubles as the idempotency key for the transport's own dedup
type Item struct {
	ID      string
	Payload []byte
}

// Logger is the interface for the queue's debug logging. The slackrelay SLogger
// implements it
type Logger interface {
	Debugf(format string, v ...interface{})
}

var (
	// ErrQueueFull is returned by TryEnqueue when the item's partition has no buffer space left
	ErrQueueFull = errors.New("queue is full")

	// ErrQueueClosed is returned when enqueueing to a closed queue
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue is a bounded queue with items spread over partitions keyed by the hash of
// their id. Each partition preserves arrival order so one worker per partition
// gives ordered processing per event identity
type Queue struct {
	partitions []chan Item

	// hash mask to direct items to partitions
	hashMask int

	log Logger

	mutex  sync.RWMutex
	closed bool
}

// New creates a queue with partitionCount partitions buffering up to bufferSize
// items each. The partition count must be a power of two so the partition mask
// covers the hash space evenly
func New(partitionCount int, bufferSize int, log Logger) (q *Queue, err error) {
	if !isPowerOfTwo(partitionCount) {
		return nil, fmt.Errorf("A partitioned queue can only work with a partitionCount that is a power of two but was [%d]", partitionCount)
	}

	q = new(Queue)
	q.partitions = make([]chan Item, partitionCount)
	for i := range q.partitions {
		q.partitions[i] = make(chan Item, bufferSize)
	}

	q.hashMask = hashMask(partitionCount)
	q.log = log

	return q, nil
}

// Enqueue adds the item to its partition, blocking while the partition's buffer
// is full. It unblocks with the context's error if the context terminates first
func (q *Queue) Enqueue(ctx context.Context, item Item) (err error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	p := q.partitionFor(item.ID)
	q.log.Debugf("Dispatching item [%s] to partition [%d]\n", item.ID, p)

	select {
	case q.partitions[p] <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEnqueue adds the item to its partition without blocking, returning
// ErrQueueFull when the partition's buffer is full
func (q *Queue) TryEnqueue(item Item) (err error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	p := q.partitionFor(item.ID)

	select {
	case q.partitions[p] <- item:
		q.log.Debugf("Dispatched item [%s] to partition [%d]\n", item.ID, p)
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume returns the receive side of a partition. Running one worker per
// partition preserves per-identity ordering. The channel closes once the queue
// is closed and the partition's backlog fully drained
func (q *Queue) Consume(partition int) <-chan Item {
	return q.partitions[partition]
}

// PartitionCount returns the number of partitions
func (q *Queue) PartitionCount() int {
	return len(q.partitions)
}

// Depth reports the number of items currently buffered across all partitions
func (q *Queue) Depth() (depth int) {
	for _, p := range q.partitions {
		depth += len(p)
	}

	return depth
}

// Close closes all partitions. Buffered items remain consumable until drained.
// Closing an already closed queue is a no-op
func (q *Queue) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	for _, p := range q.partitions {
		close(p)
	}
}

// partitionFor returns the partition index for an item id
func (q *Queue) partitionFor(id string) (partition int) {
	res := crc32.ChecksumIEEE([]byte(id))

	// Keep only the rightmost bits so we have a max equal to the partition count
	return int(res) & q.hashMask
}

// isPowerOfTwo returns true if val is a power of two or false if not
func isPowerOfTwo(val int) bool {
	return (val != 0) && (val&(val-1)) == 0
}

// hashMask builds a mask for a partitionCount (which should be a power of two) to get a hash value
// that is in the range of the number of partitions we have
func hashMask(partitionCount int) int {
	maskSize := int(math.Log2(float64(partitionCount)))
	mask := 0
	for i := 0; i < maskSize; i++ {
		mask = mask<<1 | 1
	}

	return mask
}
