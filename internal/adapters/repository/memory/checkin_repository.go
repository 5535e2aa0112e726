package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
)

// CheckInRepository は Store 上の attendance.EventStore 実装です。
type CheckInRepository struct {
	store *Store
}

// LockCollaborator は協力者の存在のみ確認します。直列化は WithinReadWrite が担い、その外では ErrNoTransaction です。
func (r *CheckInRepository) LockCollaborator(ctx context.Context, collaboratorID string) error {
	if !InTransaction(ctx) {
		return fmt.Errorf("lock collaborator %s: %w", collaboratorID, ErrNoTransaction)
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.collaborators[collaboratorID]; !ok {
		return attendance.ErrCollaboratorNotFound
	}
	return nil
}

func (r *CheckInRepository) FindMostRecent(_ context.Context, collaboratorID string) (*attendance.CheckInEvent, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *attendance.CheckInEvent
	for _, e := range s.events {
		if e.CollaboratorID != collaboratorID {
			continue
		}
		if latest == nil || !e.OccurredAt.Before(latest.OccurredAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *CheckInRepository) FindInRange(_ context.Context, collaboratorID string, start, end time.Time) ([]*attendance.CheckInEvent, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*attendance.CheckInEvent, 0)
	for _, e := range s.events {
		if e.CollaboratorID == collaboratorID && inRange(e.OccurredAt, start, end) {
			clone := *e
			events = append(events, &clone)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})
	return events, nil
}

func (r *CheckInRepository) CountByKindInRange(_ context.Context, collaboratorID string, kind attendance.Kind, start, end time.Time) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.events {
		if e.CollaboratorID == collaboratorID && e.Kind == kind && inRange(e.OccurredAt, start, end) {
			count++
		}
	}
	return count, nil
}

func (r *CheckInRepository) Insert(_ context.Context, event *attendance.CheckInEvent) (*attendance.CheckInEvent, error) {
	if !event.Kind.IsValid() {
		return nil, attendance.ErrInvalidKind
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collaborators[event.CollaboratorID]; !ok {
		return nil, attendance.ErrCollaboratorNotFound
	}

	stored := *event
	s.events = append(s.events, &stored)
	created := stored
	return &created, nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
