package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
)

const (
	defaultKeyPrefix = "pointage:last:"

	fieldID             = "id"
	fieldCollaboratorID = "collaborator_id"
	fieldKind           = "kind"
	fieldOccurredAt     = "occurred_at"
	fieldStamp          = "ts"
)

// 既存エントリより新しい打刻の場合のみ書き込む。
var setIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'ts')
if current and tonumber(current) > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'ts', ARGV[1], 'id', ARGV[2], 'collaborator_id', ARGV[3], 'kind', ARGV[4], 'occurred_at', ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[6])
return 1
`)

// Client は LastCheckInCache が利用する Redis コマンドです。*redis.Client が満たします。
type Client interface {
	redis.Scripter
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LastCheckInCache は協力者ごとの最新打刻を Redis ハッシュに保持する attendance.LastCheckInCache の実装です。
type LastCheckInCache struct {
	client Client
	ttl    time.Duration
	prefix string
}

// NewLastCheckInCache は LastCheckInCache を生成します。
func NewLastCheckInCache(client Client, ttl time.Duration) *LastCheckInCache {
	return &LastCheckInCache{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

// Get はキャッシュ済みの最新打刻を返します。未登録の場合は (nil, nil) です。
func (c *LastCheckInCache) Get(ctx context.Context, collaboratorID string) (*attendance.CheckInEvent, error) {
	fields, err := c.client.HGetAll(ctx, c.key(collaboratorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: get last check-in: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeEvent(fields)
}

// Set は event を最新打刻として保存します。より新しい打刻が既に保存されている場合は何もしません。
func (c *LastCheckInCache) Set(ctx context.Context, event *attendance.CheckInEvent) error {
	ttl := c.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	err := setIfNewer.Run(ctx, c.client, []string{c.key(event.CollaboratorID)},
		event.OccurredAt.UnixMicro(),
		event.ID,
		event.CollaboratorID,
		string(event.Kind),
		event.OccurredAt.Format(time.RFC3339Nano),
		ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("cache: set last check-in: %w", err)
	}
	return nil
}

// Delete は協力者のエントリを削除します。
func (c *LastCheckInCache) Delete(ctx context.Context, collaboratorID string) error {
	if err := c.client.Del(ctx, c.key(collaboratorID)).Err(); err != nil {
		return fmt.Errorf("cache: delete last check-in: %w", err)
	}
	return nil
}

func (c *LastCheckInCache) key(collaboratorID string) string {
	return c.prefix + collaboratorID
}

func decodeEvent(fields map[string]string) (*attendance.CheckInEvent, error) {
	id, ok := fields[fieldID]
	if !ok || id == "" {
		return nil, errors.New("cache: entry without id")
	}
	if _, err := strconv.ParseInt(fields[fieldStamp], 10, 64); err != nil {
		return nil, fmt.Errorf("cache: malformed stamp: %w", err)
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, fields[fieldOccurredAt])
	if err != nil {
		return nil, fmt.Errorf("cache: malformed occurred_at: %w", err)
	}

	kind := attendance.Kind(fields[fieldKind])
	if !kind.IsValid() {
		return nil, fmt.Errorf("cache: %w", attendance.ErrInvalidKind)
	}

	return &attendance.CheckInEvent{
		ID:             id,
		CollaboratorID: fields[fieldCollaboratorID],
		Kind:           kind,
		OccurredAt:     occurredAt,
	}, nil
}
