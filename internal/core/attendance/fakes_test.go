package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stubClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stubClock) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

type fakeDirectory struct {
	byCIN map[string]*CollaboratorRef
	calls int
}

func newFakeDirectory(refs ...*CollaboratorRef) *fakeDirectory {
	d := &fakeDirectory{byCIN: make(map[string]*CollaboratorRef)}
	for _, ref := range refs {
		d.byCIN[ref.CIN] = ref
	}
	return d
}

func (d *fakeDirectory) FindByCIN(_ context.Context, cin string) (*CollaboratorRef, error) {
	d.calls++
	ref, ok := d.byCIN[cin]
	if !ok {
		return nil, ErrCollaboratorNotFound
	}
	clone := *ref
	return &clone, nil
}

type fakeEventStore struct {
	mu        sync.Mutex
	events    []*CheckInEvent
	locks     []string
	insertErr error
	readErr   error
	reads     int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{}
}

func (s *fakeEventStore) LockCollaborator(_ context.Context, collaboratorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = append(s.locks, collaboratorID)
	return nil
}

func (s *fakeEventStore) FindMostRecent(_ context.Context, collaboratorID string) (*CheckInEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}

	var latest *CheckInEvent
	for _, e := range s.events {
		if e.CollaboratorID != collaboratorID {
			continue
		}
		if latest == nil || e.OccurredAt.After(latest.OccurredAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (s *fakeEventStore) FindInRange(_ context.Context, collaboratorID string, start, end time.Time) ([]*CheckInEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}

	var found []*CheckInEvent
	for _, e := range s.events {
		if e.CollaboratorID == collaboratorID && !e.OccurredAt.Before(start) && e.OccurredAt.Before(end) {
			clone := *e
			found = append(found, &clone)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].OccurredAt.Before(found[j].OccurredAt) })
	return found, nil
}

func (s *fakeEventStore) CountByKindInRange(ctx context.Context, collaboratorID string, kind Kind, start, end time.Time) (int, error) {
	events, err := s.FindInRange(ctx, collaboratorID, start, end)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range events {
		if e.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (s *fakeEventStore) Insert(_ context.Context, event *CheckInEvent) (*CheckInEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	clone := *event
	s.events = append(s.events, &clone)
	out := clone
	return &out, nil
}

func (s *fakeEventStore) seed(e *CheckInEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *fakeEventStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// serialTx は読み書きトランザクションを直列化するフェイクです。
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (t *serialTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*CheckInEvent
	getErr  error
	setErr  error
	delErr  error
	hits    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CheckInEvent)}
}

func (c *fakeCache) Get(_ context.Context, collaboratorID string) (*CheckInEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	e, ok := c.entries[collaboratorID]
	if !ok {
		return nil, nil
	}
	c.hits++
	clone := *e
	return &clone, nil
}

func (c *fakeCache) Set(_ context.Context, event *CheckInEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	clone := *event
	c.entries[event.CollaboratorID] = &clone
	return nil
}

func (c *fakeCache) Delete(_ context.Context, collaboratorID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.delErr != nil {
		return c.delErr
	}
	c.deletes++
	delete(c.entries, collaboratorID)
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []CollaboratorRef
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, _ *CheckInEvent, collaborator CollaboratorRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, collaborator)
	return p.err
}

func sequentialIDs() func() string {
	var (
		mu  sync.Mutex
		seq int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("evt-%d", seq)
	}
}

var errStorage = errors.New("storage unavailable")
