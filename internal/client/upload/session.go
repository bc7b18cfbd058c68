package upload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/common"
	"github.com/dataport/uplink/internal/logging"
)

// Invalidator evicts cache entries after a mutation. Satisfied by
// query.Bus.
type Invalidator interface {
	Notify(ctx context.Context, patterns ...string)
}

// Journal persists a note of each completed upload. Satisfied by the
// sqlite journal repository; a nil Journal disables recording.
type Journal interface {
	Record(ctx context.Context, rec models.JournalRecord) error
}

// invalidateOnUpload are the query tags a successful upload makes stale.
var invalidateOnUpload = []string{"files", "admin/stats", "admin/activity"}

const eventBuffer = 128

// item is the manager-owned mutable state behind the Item snapshots.
type item struct {
	Item
	cancel context.CancelFunc
}

// Manager tracks the upload items of one session. All state transitions go
// through the manager's mutex; transfer goroutines apply their outcome only
// if the item is still in Uploading, so a cancelled transfer can never
// resurface as Succeeded or Failed.
type Manager struct {
	restrictions Restrictions
	transport    Transport
	bus          Invalidator
	journal      Journal
	log          logging.Logger

	sem    *semaphore.Weighted
	events chan Event

	mu     sync.Mutex
	items  []*item
	byID   map[string]*item
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates an upload session. concurrent bounds simultaneous
// transfers; bus and journal may be nil in tests.
func NewManager(restrictions Restrictions, transport Transport, concurrent int, bus Invalidator, journal Journal, log logging.Logger) *Manager {
	if concurrent <= 0 {
		concurrent = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		restrictions: restrictions,
		transport:    transport,
		bus:          bus,
		journal:      journal,
		log:          log,
		sem:          semaphore.NewWeighted(int64(concurrent)),
		events:       make(chan Event, eventBuffer),
		byID:         make(map[string]*item),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Events returns the session's ordered event stream. Events for one item
// arrive in order: progress values never decrease and the completion event
// is always last.
func (m *Manager) Events() <-chan Event { return m.events }

// FileSource describes one file handed to Enqueue.
type FileSource struct {
	Path      string
	Filename  string
	SizeBytes int64
	MimeType  string
}

// Enqueue validates the batch synchronously and schedules transfers for the
// accepted files. Every file becomes an item, rejected ones included, so
// the session listing can show the user what happened. The file-count limit
// counts items already Queued, Uploading or Succeeded in this session;
// excess files in the batch are rejected together with a single aggregated
// event.
func (m *Manager) Enqueue(files ...FileSource) []Item {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return nil
	}

	budget := -1
	if m.restrictions.MaxNumberOfFiles > 0 {
		budget = m.restrictions.MaxNumberOfFiles - m.countOccupyingLocked()
		if budget < 0 {
			budget = 0
		}
	}

	var (
		created  []*item
		started  []*item
		rejected []Event
		excess   []string
	)

	for _, f := range files {
		it := &item{Item: Item{
			ID:        uuid.NewString(),
			Path:      f.Path,
			Filename:  f.Filename,
			SizeBytes: f.SizeBytes,
			MimeType:  f.MimeType,
			State:     StateValidating,
		}}
		created = append(created, it)
		m.items = append(m.items, it)
		m.byID[it.ID] = it

		if budget == 0 {
			it.State = StateRejected
			it.RejectReason = "too many files"
			excess = append(excess, it.ID)
			continue
		}

		if reason := m.restrictions.check(f.Filename, f.MimeType, f.SizeBytes); reason != "" {
			it.State = StateRejected
			it.RejectReason = reason
			rejected = append(rejected, Event{
				Type:     EventRejected,
				ItemID:   it.ID,
				Filename: it.Filename,
				Reason:   reason,
				Err:      fmt.Errorf("%w: %s", common.ErrValidation, reason),
			})
			continue
		}

		it.State = StateQueued
		if budget > 0 {
			budget--
		}
		started = append(started, it)
	}

	snapshots := make([]Item, len(created))
	for i, it := range created {
		snapshots[i] = it.Item
	}
	m.mu.Unlock()

	for _, ev := range rejected {
		m.emit(ev)
	}
	if len(excess) > 0 {
		reason := fmt.Sprintf("too many files: at most %d per session", m.restrictions.MaxNumberOfFiles)
		m.emit(Event{
			Type:    EventRejected,
			ItemIDs: excess,
			Reason:  reason,
			Err:     fmt.Errorf("%w: %s", common.ErrValidation, reason),
		})
	}

	for _, it := range started {
		m.startTransfer(it)
	}

	return snapshots
}

// countOccupyingLocked counts the items holding a slot against the
// file-count restriction: queued, uploading and already succeeded.
func (m *Manager) countOccupyingLocked() int {
	n := 0
	for _, it := range m.items {
		switch it.State {
		case StateQueued, StateUploading, StateSucceeded:
			n++
		}
	}
	return n
}

func (m *Manager) startTransfer(it *item) {
	ctx, cancel := context.WithCancel(m.ctx)

	m.mu.Lock()
	it.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.runTransfer(ctx, it)
	}()
}

func (m *Manager) runTransfer(ctx context.Context, it *item) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		// cancelled while queued; Cancel already recorded the state
		return
	}
	defer m.sem.Release(1)

	m.mu.Lock()
	if it.State != StateQueued && it.State != StateUploading {
		m.mu.Unlock()
		return
	}
	it.State = StateUploading
	m.mu.Unlock()

	progress := func(sent int64) {
		m.mu.Lock()
		if it.State != StateUploading || sent <= it.BytesSent {
			m.mu.Unlock()
			return
		}
		it.BytesSent = sent
		m.mu.Unlock()
		m.emit(Event{Type: EventProgress, ItemID: it.ID, Filename: it.Filename, BytesSent: sent})
	}

	stored, err := m.transport.Upload(ctx, it.Path, it.Filename, it.MimeType, progress)

	m.mu.Lock()
	if it.State != StateUploading {
		// cancelled mid-flight: the settled transport call must not fire
		// any completion event
		m.mu.Unlock()
		return
	}
	if err != nil {
		it.State = StateFailed
		it.Err = err
		m.mu.Unlock()
		m.log.Warn(ctx, "upload failed", "file", it.Filename, "err", err)
		m.emit(Event{Type: EventFailed, ItemID: it.ID, Filename: it.Filename, Err: err})
		return
	}
	it.State = StateSucceeded
	it.Remote = stored
	it.BytesSent = it.SizeBytes
	m.mu.Unlock()

	// listing and statistics caches go stale before any success feedback
	if m.bus != nil {
		m.bus.Notify(ctx, invalidateOnUpload...)
	}
	if m.journal != nil {
		rec := models.JournalRecord{
			ID:         uuid.NewString(),
			FileID:     stored.ID,
			Filename:   it.Filename,
			SizeBytes:  stored.Size,
			UploadedAt: time.Now().UTC(),
		}
		if err := m.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
			m.log.Warn(ctx, "journal write failed", "file", it.Filename, "err", err)
		}
	}
	m.log.Info(ctx, "upload succeeded", "file", it.Filename, "id", stored.ID)
	m.emit(Event{Type: EventSucceeded, ItemID: it.ID, Filename: it.Filename, BytesSent: it.SizeBytes, File: stored})
}

// Retry restarts a Failed item. BytesSent resets to zero and the item goes
// straight back to Uploading; validation does not repeat.
func (m *Manager) Retry(id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("session is closed")
	}
	it, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown item %s", id)
	}
	if it.State != StateFailed {
		m.mu.Unlock()
		return fmt.Errorf("item %s is %s, only failed items can be retried", id, it.State)
	}
	it.State = StateUploading
	it.BytesSent = 0
	it.Err = nil
	m.mu.Unlock()

	m.startTransfer(it)
	return nil
}

// Cancel removes a Queued or Uploading item. The in-flight transport call
// is aborted and no success or failure event fires afterward.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	it, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown item %s", id)
	}
	if it.State != StateQueued && it.State != StateUploading {
		m.mu.Unlock()
		return fmt.Errorf("item %s is %s and cannot be cancelled", id, it.State)
	}
	it.State = StateCancelled
	cancel := it.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.emit(Event{Type: EventCancelled, ItemID: it.ID, Filename: it.Filename})
	return nil
}

// Items returns snapshots of every item in enqueue order.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = it.Item
	}
	return out
}

// Item returns the snapshot for one id.
func (m *Manager) Item(id string) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.byID[id]
	if !ok {
		return Item{}, false
	}
	return it.Item, true
}

// Close aborts in-flight transfers, waits for their goroutines and closes
// the event channel. The session's items are discarded with the manager.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, it := range m.items {
		if it.State == StateQueued || it.State == StateUploading {
			it.State = StateCancelled
		}
	}
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	close(m.events)
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	m.events <- ev
}
