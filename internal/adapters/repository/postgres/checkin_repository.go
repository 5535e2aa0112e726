package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	pgdb "github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/db/postgres"
)

const checkInColumns = `id, collaborator_id, kind, occurred_at`

// CheckInRepository は打刻イベントの PostgreSQL 実装です。
type CheckInRepository struct {
	pool pgdb.Queryer
}

// NewCheckInRepository は CheckInRepository を生成します。
func NewCheckInRepository(pool pgdb.Queryer) *CheckInRepository {
	return &CheckInRepository{pool: pool}
}

// LockCollaborator は協力者行を FOR UPDATE でロックし、同一協力者の打刻をトランザクション単位で直列化します。
// トランザクション外では pgdb.ErrNoTransaction を返します。
func (r *CheckInRepository) LockCollaborator(ctx context.Context, collaboratorID string) error {
	if !pgdb.InTransaction(ctx) {
		return fmt.Errorf("lock collaborator %s: %w", collaboratorID, pgdb.ErrNoTransaction)
	}
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var id string
	err := exec.QueryRow(ctx, `SELECT id FROM collaborators WHERE id = $1 FOR UPDATE`, collaboratorID).Scan(&id)
	if err != nil {
		return translateCheckInPgError(err)
	}
	return nil
}

// FindMostRecent は協力者の全期間で最新の打刻を返します。存在しない場合は (nil, nil) です。
func (r *CheckInRepository) FindMostRecent(ctx context.Context, collaboratorID string) (*attendance.CheckInEvent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+checkInColumns+`
          FROM checkin_events
         WHERE collaborator_id = $1
         ORDER BY occurred_at DESC, id DESC
         LIMIT 1
    `, collaboratorID)

	event, err := scanCheckIn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateCheckInPgError(err)
	}
	return event, nil
}

// FindInRange は [start, end) に発生した打刻を時刻昇順で返します。
func (r *CheckInRepository) FindInRange(ctx context.Context, collaboratorID string, start, end time.Time) ([]*attendance.CheckInEvent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+checkInColumns+`
          FROM checkin_events
         WHERE collaborator_id = $1 AND occurred_at >= $2 AND occurred_at < $3
         ORDER BY occurred_at ASC, id ASC
    `, collaboratorID, start, end)
	if err != nil {
		return nil, translateCheckInPgError(err)
	}
	defer rows.Close()

	events := make([]*attendance.CheckInEvent, 0)
	for rows.Next() {
		event, err := scanCheckIn(rows)
		if err != nil {
			return nil, translateCheckInPgError(err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, translateCheckInPgError(err)
	}

	return events, nil
}

// CountByKindInRange は [start, end) に発生した指定種別の打刻件数を返します。
func (r *CheckInRepository) CountByKindInRange(ctx context.Context, collaboratorID string, kind attendance.Kind, start, end time.Time) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var count int64
	err := exec.QueryRow(ctx, `
        SELECT COUNT(*)
          FROM checkin_events
         WHERE collaborator_id = $1 AND kind = $2 AND occurred_at >= $3 AND occurred_at < $4
    `, collaboratorID, string(kind), start, end).Scan(&count)
	if err != nil {
		return 0, translateCheckInPgError(err)
	}
	return int(count), nil
}

// Insert は打刻を追加します。
func (r *CheckInRepository) Insert(ctx context.Context, event *attendance.CheckInEvent) (*attendance.CheckInEvent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO checkin_events (id, collaborator_id, kind, occurred_at)
        VALUES ($1, $2, $3, $4)
        RETURNING `+checkInColumns,
		event.ID,
		event.CollaboratorID,
		string(event.Kind),
		event.OccurredAt,
	)

	created, err := scanCheckIn(row)
	if err != nil {
		return nil, translateCheckInPgError(err)
	}
	// timestamptz は UTC で返るため、呼び出し側のロケーションに戻す。
	created.OccurredAt = created.OccurredAt.In(event.OccurredAt.Location())
	return created, nil
}

func scanCheckIn(row pgx.Row) (*attendance.CheckInEvent, error) {
	var (
		id             string
		collaboratorID string
		kind           string
		occurredAt     time.Time
	)

	if err := row.Scan(&id, &collaboratorID, &kind, &occurredAt); err != nil {
		return nil, err
	}

	return &attendance.CheckInEvent{
		ID:             id,
		CollaboratorID: collaboratorID,
		Kind:           attendance.Kind(kind),
		OccurredAt:     occurredAt,
	}, nil
}

func translateCheckInPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrCollaboratorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return attendance.ErrCollaboratorNotFound
		case checkViolationCode:
			return attendance.ErrInvalidKind
		}
	}

	return err
}
