package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
)

// CollaboratorRepository は Store 上の collaborator.Repository 実装です。
type CollaboratorRepository struct {
	store *Store
}

func (r *CollaboratorRepository) Create(_ context.Context, c *collaborator.Collaborator) (*collaborator.Collaborator, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.collaborators {
		if existing.CIN == c.CIN {
			return nil, collaborator.ErrCINAlreadyExists
		}
	}

	clone := cloneCollaborator(c)
	clone.ID = uuid.NewString()
	s.collaborators[clone.ID] = clone
	s.order = append(s.order, clone.ID)
	return cloneCollaborator(clone), nil
}

func (r *CollaboratorRepository) Update(_ context.Context, c *collaborator.Collaborator) (*collaborator.Collaborator, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.collaborators[c.ID]
	if !ok {
		return nil, collaborator.ErrCollaboratorNotFound
	}
	for _, existing := range s.collaborators {
		if existing.ID != c.ID && existing.CIN == c.CIN {
			return nil, collaborator.ErrCINAlreadyExists
		}
	}

	clone := cloneCollaborator(c)
	clone.CreatedAt = current.CreatedAt
	s.collaborators[c.ID] = clone
	return cloneCollaborator(clone), nil
}

func (r *CollaboratorRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collaborators[id]; !ok {
		return collaborator.ErrCollaboratorNotFound
	}
	for _, e := range s.events {
		if e.CollaboratorID == id {
			return collaborator.ErrCollaboratorHasCheckIns
		}
	}
	for _, d := range s.documents {
		if d.CollaboratorID == id {
			return collaborator.ErrCollaboratorHasDocuments
		}
	}

	delete(s.collaborators, id)
	order := make([]string, 0, len(s.order))
	for _, existingID := range s.order {
		if existingID != id {
			order = append(order, existingID)
		}
	}
	s.order = order
	return nil
}

func (r *CollaboratorRepository) FindByID(_ context.Context, id string) (*collaborator.Collaborator, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collaborators[id]
	if !ok {
		return nil, collaborator.ErrCollaboratorNotFound
	}
	return cloneCollaborator(c), nil
}

func (r *CollaboratorRepository) FindByCIN(_ context.Context, cin string) (*collaborator.Collaborator, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.findByCINLocked(cin)
	if c == nil {
		return nil, collaborator.ErrCollaboratorNotFound
	}
	return cloneCollaborator(c), nil
}

// List は作成日時の新しい順に返します。
func (r *CollaboratorRepository) List(_ context.Context, filter collaborator.ListCollaboratorsFilter) ([]*collaborator.Collaborator, string, error) {
	if filter.Limit <= 0 {
		return nil, "", collaborator.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", collaborator.ErrInvalidPageToken
	}

	s := r.store
	s.mu.RLock()
	filtered := make([]*collaborator.Collaborator, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		c := s.collaborators[s.order[i]]
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, cloneCollaborator(c))
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if filter.Offset >= len(filtered) {
		return []*collaborator.Collaborator{}, "", nil
	}

	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	nextToken := ""
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}

	return filtered[filter.Offset:end], nextToken, nil
}

func (s *Store) findByCINLocked(cin string) *collaborator.Collaborator {
	for _, c := range s.collaborators {
		if c.CIN == cin {
			return c
		}
	}
	return nil
}

func cloneCollaborator(c *collaborator.Collaborator) *collaborator.Collaborator {
	clone := *c
	if c.CNSS != nil {
		cnss := *c.CNSS
		clone.CNSS = &cnss
	}
	if c.Specialty != nil {
		specialty := *c.Specialty
		clone.Specialty = &specialty
	}
	if c.HiredAt != nil {
		hired := *c.HiredAt
		clone.HiredAt = &hired
	}
	return &clone
}
