package attendance

import (
	"context"
	"time"
)

// Directory は CIN から協力者を解決します。
type Directory interface {
	// FindByCIN は該当がなければ ErrCollaboratorNotFound を返します。
	FindByCIN(ctx context.Context, cin string) (*CollaboratorRef, error)
}

// EventStore は打刻永続化の抽象です。範囲はすべて [start, end) の半開区間です。
type EventStore interface {
	// LockCollaborator は同一協力者の打刻をトランザクション終了まで直列化します。
	LockCollaborator(ctx context.Context, collaboratorID string) error
	// FindMostRecent は最新の打刻を返します。存在しない場合は (nil, nil) です。
	FindMostRecent(ctx context.Context, collaboratorID string) (*CheckInEvent, error)
	FindInRange(ctx context.Context, collaboratorID string, start, end time.Time) ([]*CheckInEvent, error)
	CountByKindInRange(ctx context.Context, collaboratorID string, kind Kind, start, end time.Time) (int, error)
	Insert(ctx context.Context, event *CheckInEvent) (*CheckInEvent, error)
}

// LastCheckInCache は最新打刻の読み取りキャッシュです。
type LastCheckInCache interface {
	// Get はキャッシュミス時に (nil, nil) を返します。
	Get(ctx context.Context, collaboratorID string) (*CheckInEvent, error)
	Set(ctx context.Context, event *CheckInEvent) error
	// Delete は協力者のエントリを破棄します。エントリがない場合も成功です。
	Delete(ctx context.Context, collaboratorID string) error
}

// Publisher は記録済みの打刻を外部へ通知します。
type Publisher interface {
	Publish(ctx context.Context, event *CheckInEvent, collaborator CollaboratorRef) error
}
