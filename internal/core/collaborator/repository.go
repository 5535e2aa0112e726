package collaborator

import "context"

// Repository は協力者永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, collaborator *Collaborator) (*Collaborator, error)
	Update(ctx context.Context, collaborator *Collaborator) (*Collaborator, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Collaborator, error)
	FindByCIN(ctx context.Context, cin string) (*Collaborator, error)
	List(ctx context.Context, filter ListCollaboratorsFilter) ([]*Collaborator, string, error)
}

// ListCollaboratorsFilter は一覧取得用フィルタです。
type ListCollaboratorsFilter struct {
	Status *Status
	Limit  int
	Offset int
}
