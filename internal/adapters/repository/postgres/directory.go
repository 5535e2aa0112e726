package postgres

import (
	"context"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	pgdb "github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/db/postgres"
)

// Directory は collaborators テーブルから打刻対象者を解決する attendance.Directory の実装です。
type Directory struct {
	pool pgdb.Queryer
}

// NewDirectory は Directory を生成します。
func NewDirectory(pool pgdb.Queryer) *Directory {
	return &Directory{pool: pool}
}

// FindByCIN は CIN で協力者を解決します。見つからない場合は attendance.ErrCollaboratorNotFound です。
func (d *Directory) FindByCIN(ctx context.Context, cin string) (*attendance.CollaboratorRef, error) {
	exec := pgdb.QueryerFromContext(ctx, d.pool)

	var ref attendance.CollaboratorRef
	err := exec.QueryRow(ctx, `SELECT id, cin, last_name, first_name FROM collaborators WHERE cin = $1 LIMIT 1`, cin).
		Scan(&ref.ID, &ref.CIN, &ref.LastName, &ref.FirstName)
	if err != nil {
		return nil, translateCheckInPgError(err)
	}
	return &ref, nil
}
