package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
)

type (
	txKey     struct{}
	readTxKey struct{}
)

// ErrNoTransaction は読み書きトランザクションを前提とする操作が単独で呼ばれた場合のエラーです。
var ErrNoTransaction = errors.New("memory: operation requires a read-write transaction")

// Store はプロセス内メモリに協力者と打刻、書類メタデータを保持するストレージです。
// 読み書きトランザクションは txMu で直列化され、エラー時はスナップショットに巻き戻します。
// 読み取り専用トランザクションは txMu の読み取りロックを保持し、実行中の書き込みを観測しません。
type Store struct {
	txMu sync.RWMutex

	mu            sync.RWMutex
	collaborators map[string]*collaborator.Collaborator
	order         []string
	events        []*attendance.CheckInEvent
	documents     map[string]*document.Document
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{
		collaborators: make(map[string]*collaborator.Collaborator),
		documents:     make(map[string]*document.Document),
	}
}

// Collaborators は collaborator.Repository の実装を返します。
func (s *Store) Collaborators() *CollaboratorRepository {
	return &CollaboratorRepository{store: s}
}

// CheckIns は attendance.EventStore の実装を返します。
func (s *Store) CheckIns() *CheckInRepository {
	return &CheckInRepository{store: s}
}

// Documents は document.Repository の実装を返します。
func (s *Store) Documents() *DocumentRepository {
	return &DocumentRepository{store: s}
}

// Directory は attendance.Directory の実装を返します。
func (s *Store) Directory() *Directory {
	return &Directory{store: s}
}

// WithinReadOnly は読み書きトランザクションと排他で fn を実行します。入れ子の呼び出しは外側に合流します。
func (s *Store) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if InTransaction(ctx) || ctx.Value(readTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.RLock()
	defer s.txMu.RUnlock()
	return fn(context.WithValue(ctx, readTxKey{}, struct{}{}))
}

// WithinReadWrite は fn を排他的に実行し、エラー時は変更を破棄します。入れ子の呼び出しは外側に合流します。
func (s *Store) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if InTransaction(ctx) {
		return fn(ctx)
	}
	if ctx.Value(readTxKey{}) != nil {
		return fmt.Errorf("memory: read-write transaction nested in read-only: %w", ErrNoTransaction)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// InTransaction は ctx が読み書きトランザクション内かを返します。
func InTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

type snapshot struct {
	collaborators map[string]*collaborator.Collaborator
	order         []string
	events        []*attendance.CheckInEvent
	documents     map[string]*document.Document
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collaborators := make(map[string]*collaborator.Collaborator, len(s.collaborators))
	for id, c := range s.collaborators {
		collaborators[id] = c
	}
	documents := make(map[string]*document.Document, len(s.documents))
	for id, d := range s.documents {
		documents[id] = d
	}
	return snapshot{
		collaborators: collaborators,
		order:         append([]string(nil), s.order...),
		events:        append([]*attendance.CheckInEvent(nil), s.events...),
		documents:     documents,
	}
}

// 保存済みの値は常に複製を介して差し替えるため、浅いコピーで巻き戻せる。
func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collaborators = snap.collaborators
	s.order = snap.order
	s.events = snap.events
	s.documents = snap.documents
}
