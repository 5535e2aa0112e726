package document

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は書類ユースケースの公開インターフェースです。
type UseCase interface {
	CreateDocument(ctx context.Context, in CreateDocumentInput) (*Document, error)
	GetDocument(ctx context.Context, in GetDocumentInput) (*Document, error)
	ListDocuments(ctx context.Context, in ListDocumentsInput) ([]*Document, error)
	UpdateDocument(ctx context.Context, in UpdateDocumentInput) (*Document, error)
	UpdateDocumentStatus(ctx context.Context, in UpdateDocumentStatusInput) (*Document, error)
	DeleteDocument(ctx context.Context, in DeleteDocumentInput) error
}

// Service は書類メタデータの登録と審査状態の管理をまとめます。
type Service struct {
	repo          Repository
	collaborators Collaborators
	clock         Clock
	tx            TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, collaborators Collaborators, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, collaborators: collaborators, clock: clock, tx: tx}
}

// CreateDocumentInput は書類登録時の入力です。
type CreateDocumentInput struct {
	CollaboratorID string
	Name           string
	Type           string
	Description    *string
	FileName       *string
	FileURL        *string
}

// UpdateDocumentInput は書類更新時の入力です。nil のフィールドは変更しません。
// Description / FileName / FileURL は *Set が true の場合に nil でクリアします。
type UpdateDocumentInput struct {
	ID             string
	Name           *string
	Type           *string
	Description    *string
	DescriptionSet bool
	FileName       *string
	FileNameSet    bool
	FileURL        *string
	FileURLSet     bool
}

// UpdateDocumentStatusInput は審査状態変更時の入力です。
type UpdateDocumentStatusInput struct {
	ID     string
	Status Status
}

// GetDocumentInput は書類取得時の入力です。
type GetDocumentInput struct {
	ID string
}

// DeleteDocumentInput は書類削除時の入力です。
type DeleteDocumentInput struct {
	ID string
}

// ListDocumentsInput は一覧取得時の入力です。CollaboratorID と CIN は排他です。
type ListDocumentsInput struct {
	CollaboratorID string
	CIN            string
	Status         *Status
}

// CreateDocument は協力者の書類を EN_ATTENTE で登録します。
func (s *Service) CreateDocument(ctx context.Context, in CreateDocumentInput) (*Document, error) {
	collaboratorID, err := collaborator.NormalizeID(in.CollaboratorID)
	if err != nil {
		return nil, err
	}

	name, err := requireText(in.Name, ErrInvalidName)
	if err != nil {
		return nil, err
	}

	kind, err := requireText(in.Type, ErrInvalidType)
	if err != nil {
		return nil, err
	}

	fileURL, err := normalizeFileURL(in.FileURL)
	if err != nil {
		return nil, err
	}

	var created *Document
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.collaborators.FindByID(txCtx, collaboratorID); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Document{
			CollaboratorID: collaboratorID,
			Name:           name,
			Type:           kind,
			Description:    normalizeOptionalText(in.Description),
			FileName:       normalizeOptionalText(in.FileName),
			FileURL:        fileURL,
			Status:         StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetDocument は書類を取得します。
func (s *Service) GetDocument(ctx context.Context, in GetDocumentInput) (*Document, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Document
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListDocuments は書類を作成日時の新しい順に返します。
// 協力者を指定した場合、その協力者が存在しなければ collaborator.ErrCollaboratorNotFound です。
func (s *Service) ListDocuments(ctx context.Context, in ListDocumentsInput) ([]*Document, error) {
	rawID := strings.TrimSpace(in.CollaboratorID)
	rawCIN := strings.TrimSpace(in.CIN)
	if rawID != "" && rawCIN != "" {
		return nil, ErrInvalidFilter
	}

	filter := ListFilter{}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, fmt.Errorf("status %q: %w", *in.Status, ErrInvalidStatus)
		}
		status := *in.Status
		filter.Status = &status
	}

	var (
		collaboratorID string
		cin            string
		err            error
	)
	switch {
	case rawID != "":
		if collaboratorID, err = collaborator.NormalizeID(rawID); err != nil {
			return nil, err
		}
	case rawCIN != "":
		if cin, err = collaborator.NormalizeCIN(rawCIN); err != nil {
			return nil, err
		}
	}

	var docs []*Document
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		switch {
		case collaboratorID != "":
			if _, err := s.collaborators.FindByID(txCtx, collaboratorID); err != nil {
				return err
			}
			filter.CollaboratorID = &collaboratorID
		case cin != "":
			owner, err := s.collaborators.FindByCIN(txCtx, cin)
			if err != nil {
				return err
			}
			filter.CollaboratorID = &owner.ID
		}

		found, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		docs = found
		return nil
	}); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []*Document{}
	}
	return docs, nil
}

// UpdateDocument は書類のメタデータを部分更新します。審査状態は変更しません。
func (s *Service) UpdateDocument(ctx context.Context, in UpdateDocumentInput) (*Document, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var fileURL *string
	if in.FileURLSet {
		if fileURL, err = normalizeFileURL(in.FileURL); err != nil {
			return nil, err
		}
	}

	var updated *Document
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := applyText(&existing.Name, in.Name, ErrInvalidName); err != nil {
			return err
		}
		if err := applyText(&existing.Type, in.Type, ErrInvalidType); err != nil {
			return err
		}
		if in.DescriptionSet {
			existing.Description = normalizeOptionalText(in.Description)
		}
		if in.FileNameSet {
			existing.FileName = normalizeOptionalText(in.FileName)
		}
		if in.FileURLSet {
			existing.FileURL = fileURL
		}
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdateDocumentStatus は審査状態を変更します。任意の状態から任意の状態へ遷移できます。
func (s *Service) UpdateDocumentStatus(ctx context.Context, in UpdateDocumentStatusInput) (*Document, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	if !in.Status.IsValid() {
		return nil, fmt.Errorf("status %q: %w", in.Status, ErrInvalidStatus)
	}

	var updated *Document
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		existing.Status = in.Status
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteDocument は書類のメタデータを削除します。
func (s *Service) DeleteDocument(ctx context.Context, in DeleteDocumentInput) error {
	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return parsed.String(), nil
}

func requireText(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func applyText(dst *string, raw *string, invalid error) error {
	if raw == nil {
		return nil
	}
	value, err := requireText(*raw, invalid)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

func normalizeOptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeFileURL は外部ストレージ上の参照を検証します。スキーム付きの場合はホストが必須です。
func normalizeFileURL(raw *string) (*string, error) {
	value := normalizeOptionalText(raw)
	if value == nil {
		return nil, nil
	}
	parsed, err := url.Parse(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileURL, err)
	}
	if parsed.Scheme != "" && parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidFileURL, *value)
	}
	return value, nil
}
