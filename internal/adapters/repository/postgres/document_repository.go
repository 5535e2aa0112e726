package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
	pgdb "github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/db/postgres"
)

const documentColumns = `id, collaborator_id, name, type, description, file_name, file_url, status, created_at, updated_at`

// DocumentRepository は書類メタデータの PostgreSQL 実装です。
type DocumentRepository struct {
	pool pgdb.Queryer
}

// NewDocumentRepository は DocumentRepository を生成します。
func NewDocumentRepository(pool pgdb.Queryer) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Create は書類メタデータを登録します。
func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO documents (collaborator_id, name, type, description, file_name, file_url, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+documentColumns,
		d.CollaboratorID,
		d.Name,
		d.Type,
		nullableString(d.Description),
		nullableString(d.FileName),
		nullableString(d.FileURL),
		string(d.Status),
		d.CreatedAt,
		d.UpdatedAt,
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return created, nil
}

// Update は書類のメタデータと審査状態を更新します。所有者と作成日時は変更しません。
func (r *DocumentRepository) Update(ctx context.Context, d *document.Document) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE documents
           SET name = $1,
               type = $2,
               description = $3,
               file_name = $4,
               file_url = $5,
               status = $6,
               updated_at = $7
         WHERE id = $8
        RETURNING `+documentColumns,
		d.Name,
		d.Type,
		nullableString(d.Description),
		nullableString(d.FileName),
		nullableString(d.FileURL),
		string(d.Status),
		d.UpdatedAt,
		d.ID,
	)

	updated, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return updated, nil
}

// Delete は書類メタデータを削除します。
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return translateDocumentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

// FindByID は ID で書類を取得します。
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 LIMIT 1`, id)

	found, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return found, nil
}

// List は条件に一致する書類を作成日時の新しい順に返します。
func (r *DocumentRepository) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	args := make([]any, 0, 2)
	whereClause := ""
	if filter.CollaboratorID != nil {
		args = append(args, *filter.CollaboratorID)
		whereClause = " WHERE collaborator_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		if whereClause == "" {
			whereClause = " WHERE"
		} else {
			whereClause += " AND"
		}
		whereClause += " status = $" + strconv.Itoa(len(args))
	}

	query := `SELECT ` + documentColumns + ` FROM documents` + whereClause + `
         ORDER BY created_at DESC, id DESC`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	defer rows.Close()

	docs := make([]*document.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, translateDocumentPgError(err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDocumentPgError(err)
	}
	return docs, nil
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var (
		id             string
		collaboratorID string
		name           string
		kind           string
		description    sql.NullString
		fileName       sql.NullString
		fileURL        sql.NullString
		status         string
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := row.Scan(
		&id,
		&collaboratorID,
		&name,
		&kind,
		&description,
		&fileName,
		&fileURL,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}

	return &document.Document{
		ID:             id,
		CollaboratorID: collaboratorID,
		Name:           name,
		Type:           kind,
		Description:    stringPtr(description),
		FileName:       stringPtr(fileName),
		FileURL:        stringPtr(fileURL),
		Status:         document.Status(status),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func translateDocumentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return document.ErrDocumentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == documentCollaboratorFKey {
				return collaborator.ErrCollaboratorNotFound
			}
			return err
		case checkViolationCode:
			if pgErr.ConstraintName == documentStatusCheck {
				return document.ErrInvalidStatus
			}
			return err
		case invalidTextCode:
			return document.ErrInvalidID
		}
	}

	return err
}
