package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
)

// DocumentRepository は Store 上の document.Repository 実装です。
type DocumentRepository struct {
	store *Store
}

// Create は所有者の存在を外部キー相当として検証します。
func (r *DocumentRepository) Create(_ context.Context, d *document.Document) (*document.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collaborators[d.CollaboratorID]; !ok {
		return nil, collaborator.ErrCollaboratorNotFound
	}

	clone := cloneDocument(d)
	clone.ID = uuid.NewString()
	s.documents[clone.ID] = clone
	return cloneDocument(clone), nil
}

func (r *DocumentRepository) Update(_ context.Context, d *document.Document) (*document.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.documents[d.ID]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}

	clone := cloneDocument(d)
	clone.CollaboratorID = current.CollaboratorID
	clone.CreatedAt = current.CreatedAt
	s.documents[d.ID] = clone
	return cloneDocument(clone), nil
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return document.ErrDocumentNotFound
	}
	delete(s.documents, id)
	return nil
}

func (r *DocumentRepository) FindByID(_ context.Context, id string) (*document.Document, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

func (r *DocumentRepository) List(_ context.Context, filter document.ListFilter) ([]*document.Document, error) {
	s := r.store
	s.mu.RLock()
	found := make([]*document.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if filter.CollaboratorID != nil && d.CollaboratorID != *filter.CollaboratorID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		found = append(found, cloneDocument(d))
	}
	s.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].ID < found[j].ID
	})
	return found, nil
}

func cloneDocument(d *document.Document) *document.Document {
	clone := *d
	clone.Description = cloneString(d.Description)
	clone.FileName = cloneString(d.FileName)
	clone.FileURL = cloneString(d.FileURL)
	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
