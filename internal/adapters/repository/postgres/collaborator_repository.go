package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	pgdb "github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	invalidTextCode         = "22P02"

	checkinCollaboratorFKey  = "checkin_events_collaborator_id_fkey"
	documentCollaboratorFKey = "documents_collaborator_id_fkey"
	collaboratorDatesCheck   = "collaborators_hired_after_birth_check"
	documentStatusCheck      = "documents_status_check"
)

const collaboratorColumns = `id, cin, last_name, first_name, birth_date, birth_place, address, cnss, specialty, hired_at, status, created_at, updated_at`

// CollaboratorRepository は PostgreSQL を利用した協力者永続化の実装です。
type CollaboratorRepository struct {
	pool pgdb.Queryer
}

// NewCollaboratorRepository は CollaboratorRepository を生成します。
func NewCollaboratorRepository(pool pgdb.Queryer) *CollaboratorRepository {
	return &CollaboratorRepository{pool: pool}
}

// Create は協力者を新規作成します。
func (r *CollaboratorRepository) Create(ctx context.Context, c *collaborator.Collaborator) (*collaborator.Collaborator, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO collaborators (cin, last_name, first_name, birth_date, birth_place, address, cnss, specialty, hired_at, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+collaboratorColumns,
		c.CIN,
		c.LastName,
		c.FirstName,
		dateOnly(c.BirthDate),
		c.BirthPlace,
		c.Address,
		nullableString(c.CNSS),
		nullableString(c.Specialty),
		nullableDate(c.HiredAt),
		string(c.Status),
		c.CreatedAt,
		c.UpdatedAt,
	)

	created, err := scanCollaborator(row)
	if err != nil {
		return nil, translateCollaboratorPgError(err)
	}
	return created, nil
}

// Update は協力者情報を更新します。
func (r *CollaboratorRepository) Update(ctx context.Context, c *collaborator.Collaborator) (*collaborator.Collaborator, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE collaborators
           SET cin = $1,
               last_name = $2,
               first_name = $3,
               birth_date = $4,
               birth_place = $5,
               address = $6,
               cnss = $7,
               specialty = $8,
               hired_at = $9,
               status = $10,
               updated_at = $11
         WHERE id = $12
        RETURNING `+collaboratorColumns,
		c.CIN,
		c.LastName,
		c.FirstName,
		dateOnly(c.BirthDate),
		c.BirthPlace,
		c.Address,
		nullableString(c.CNSS),
		nullableString(c.Specialty),
		nullableDate(c.HiredAt),
		string(c.Status),
		c.UpdatedAt,
		c.ID,
	)

	updated, err := scanCollaborator(row)
	if err != nil {
		return nil, translateCollaboratorPgError(err)
	}
	return updated, nil
}

// Delete は協力者を削除します。打刻が残っている場合は外部キー制約で拒否されます。
func (r *CollaboratorRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM collaborators WHERE id = $1`, id)
	if err != nil {
		return translateCollaboratorPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return collaborator.ErrCollaboratorNotFound
	}
	return nil
}

// FindByID は ID で協力者を取得します。
func (r *CollaboratorRepository) FindByID(ctx context.Context, id string) (*collaborator.Collaborator, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+collaboratorColumns+` FROM collaborators WHERE id = $1 LIMIT 1`, id)

	found, err := scanCollaborator(row)
	if err != nil {
		return nil, translateCollaboratorPgError(err)
	}
	return found, nil
}

// FindByCIN は CIN で協力者を取得します。
func (r *CollaboratorRepository) FindByCIN(ctx context.Context, cin string) (*collaborator.Collaborator, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+collaboratorColumns+` FROM collaborators WHERE cin = $1 LIMIT 1`, cin)

	found, err := scanCollaborator(row)
	if err != nil {
		return nil, translateCollaboratorPgError(err)
	}
	return found, nil
}

// List は協力者の一覧を作成日時の新しい順に取得します。
func (r *CollaboratorRepository) List(ctx context.Context, filter collaborator.ListCollaboratorsFilter) ([]*collaborator.Collaborator, string, error) {
	if filter.Limit <= 0 {
		return nil, "", collaborator.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", collaborator.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		whereClause = " WHERE status = $" + strconv.Itoa(len(args))
	}

	args = append(args, limitWithBuffer)
	limitPlaceholder := "$" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	query := `SELECT ` + collaboratorColumns + ` FROM collaborators` + whereClause + `
         ORDER BY created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateCollaboratorPgError(err)
	}
	defer rows.Close()

	collaborators := make([]*collaborator.Collaborator, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, "", translateCollaboratorPgError(err)
		}
		collaborators = append(collaborators, c)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateCollaboratorPgError(err)
	}

	var nextToken string
	if len(collaborators) == limitWithBuffer {
		collaborators = collaborators[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return collaborators, nextToken, nil
}

func scanCollaborator(row pgx.Row) (*collaborator.Collaborator, error) {
	var (
		id         string
		cin        string
		lastName   string
		firstName  string
		birthDate  time.Time
		birthPlace string
		address    string
		cnss       sql.NullString
		specialty  sql.NullString
		hiredAt    sql.NullTime
		status     string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(
		&id,
		&cin,
		&lastName,
		&firstName,
		&birthDate,
		&birthPlace,
		&address,
		&cnss,
		&specialty,
		&hiredAt,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, collaborator.ErrCollaboratorNotFound
		}
		return nil, err
	}

	var hiredPtr *time.Time
	if hiredAt.Valid {
		date := dateOnly(hiredAt.Time)
		hiredPtr = &date
	}

	return &collaborator.Collaborator{
		ID:         id,
		CIN:        cin,
		LastName:   lastName,
		FirstName:  firstName,
		BirthDate:  dateOnly(birthDate),
		BirthPlace: birthPlace,
		Address:    address,
		CNSS:       stringPtr(cnss),
		Specialty:  stringPtr(specialty),
		HiredAt:    hiredPtr,
		Status:     collaborator.Status(status),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateCollaboratorPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return collaborator.ErrCollaboratorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return collaborator.ErrCINAlreadyExists
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case checkinCollaboratorFKey:
				return collaborator.ErrCollaboratorHasCheckIns
			case documentCollaboratorFKey:
				return collaborator.ErrCollaboratorHasDocuments
			}
			return err
		case checkViolationCode:
			if pgErr.ConstraintName == collaboratorDatesCheck {
				return collaborator.ErrInvalidDateRange
			}
			return err
		case invalidTextCode:
			return collaborator.ErrInvalidID
		}
	}

	return err
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return dateOnly(*value)
}

func nullableString(value *string) any {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return *value
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
