package document

import (
	"context"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
)

// Repository は書類メタデータ永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	Update(ctx context.Context, doc *Document) (*Document, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Document, error)
	// List は作成日時の新しい順に返します。
	List(ctx context.Context, filter ListFilter) ([]*Document, error)
}

// ListFilter は一覧取得用フィルタです。nil のフィールドは条件に含めません。
type ListFilter struct {
	CollaboratorID *string
	Status         *Status
}

// Collaborators は書類の所有者となる協力者を解決します。collaborator.Repository が満たします。
type Collaborators interface {
	FindByID(ctx context.Context, id string) (*collaborator.Collaborator, error)
	FindByCIN(ctx context.Context, cin string) (*collaborator.Collaborator, error)
}
