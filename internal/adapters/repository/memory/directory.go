package memory

import (
	"context"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
)

// Directory は Store 上の attendance.Directory 実装です。
type Directory struct {
	store *Store
}

func (d *Directory) FindByCIN(_ context.Context, cin string) (*attendance.CollaboratorRef, error) {
	s := d.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.findByCINLocked(cin)
	if c == nil {
		return nil, attendance.ErrCollaboratorNotFound
	}
	return &attendance.CollaboratorRef{
		ID:        c.ID,
		CIN:       c.CIN,
		LastName:  c.LastName,
		FirstName: c.FirstName,
	}, nil
}
