package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance")

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
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

// UseCase は打刻ユースケースの公開インターフェースです。
type UseCase interface {
	RecordCheckIn(ctx context.Context, in RecordCheckInInput) (*CheckInEvent, error)
	GetLastCheckIn(ctx context.Context, in GetLastCheckInInput) (*CheckInEvent, error)
	GetDailySummary(ctx context.Context, in GetDailySummaryInput) (*DailySummary, error)
	GetEventsForPeriod(ctx context.Context, in GetEventsForPeriodInput) ([]*CheckInEvent, error)
}

// Service は打刻の順序制御と集計をまとめます。
type Service struct {
	directory Directory
	events    EventStore
	clock     Clock
	tx        TransactionManager
	location  *time.Location
	cache     LastCheckInCache
	publisher Publisher
	logger    *slog.Logger
	newID     func() string
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithLocation は暦日の判定に使うロケーションを指定します。既定は time.Local です。
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithCache は最新打刻のキャッシュを設定します。
func WithCache(cache LastCheckInCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithPublisher は打刻イベントの通知先を設定します。
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator は打刻 ID の採番関数を差し替えます。
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService は Service を生成します。
func NewService(directory Directory, events EventStore, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}

	s := &Service{
		directory: directory,
		events:    events,
		clock:     clock,
		tx:        tx,
		location:  time.Local,
		logger:    slog.Default(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RecordCheckInInput は打刻記録時の入力です。Kind が空の場合は未指定として扱います。
type RecordCheckInInput struct {
	CIN  string
	Kind Kind
}

// GetLastCheckInInput は最新打刻取得時の入力です。
type GetLastCheckInInput struct {
	CIN string
}

// GetDailySummaryInput は日次集計の入力です。Date が nil の場合は当日です。
type GetDailySummaryInput struct {
	CIN  string
	Date *time.Time
}

// GetEventsForPeriodInput は期間指定一覧の入力です。Month と Year は両方指定するか両方省略します。
type GetEventsForPeriodInput struct {
	CIN   string
	Month *int
	Year  *int
}

// RecordCheckIn は交互ルールを検証したうえで打刻を記録します。
// 最新打刻の読み取りと挿入は同一トランザクション内で行い、協力者単位で直列化します。
func (s *Service) RecordCheckIn(ctx context.Context, in RecordCheckInInput) (_ *CheckInEvent, err error) {
	ctx, span := tracer.Start(ctx, "attendance.RecordCheckIn")
	defer func() { endSpan(span, err) }()

	if in.Kind == "" {
		return nil, fmt.Errorf("kind is required: %w", ErrInvalidKind)
	}
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("kind %q: %w", in.Kind, ErrInvalidKind)
	}

	cin, err := normalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("attendance.kind", string(in.Kind)))

	var (
		recorded     *CheckInEvent
		collaborator *CollaboratorRef
	)
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		ref, err := s.directory.FindByCIN(txCtx, cin)
		if err != nil {
			return err
		}

		if err := s.events.LockCollaborator(txCtx, ref.ID); err != nil {
			return err
		}

		last, err := s.events.FindMostRecent(txCtx, ref.ID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := Evaluate(last, in.Kind, now); err != nil {
			return err
		}

		// 挿入前に破棄し、コミット後にキャッシュが古い打刻を返さないようにする。
		if err := s.invalidateLast(txCtx, ref.ID); err != nil {
			return err
		}

		created, err := s.events.Insert(txCtx, &CheckInEvent{
			ID:             s.newID(),
			Kind:           in.Kind,
			OccurredAt:     now,
			CollaboratorID: ref.ID,
		})
		if err != nil {
			return err
		}

		recorded = created
		collaborator = ref
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "check-in recorded",
		slog.String("collaborator_id", collaborator.ID),
		slog.String("cin", collaborator.CIN),
		slog.String("name", strings.TrimSpace(collaborator.FirstName+" "+collaborator.LastName)),
		slog.String("kind", string(recorded.Kind)),
	)

	s.afterRecord(ctx, recorded, *collaborator)

	return recorded, nil
}

// GetLastCheckIn は最新の打刻を返します。打刻が存在しない場合は (nil, nil) です。
func (s *Service) GetLastCheckIn(ctx context.Context, in GetLastCheckInInput) (_ *CheckInEvent, err error) {
	ctx, span := tracer.Start(ctx, "attendance.GetLastCheckIn")
	defer func() { endSpan(span, err) }()

	cin, err := normalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}

	var (
		last      *CheckInEvent
		fromStore bool
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ref, err := s.directory.FindByCIN(txCtx, cin)
		if err != nil {
			return err
		}

		if cached := s.cachedLast(txCtx, ref.ID); cached != nil {
			last = cached
			return nil
		}

		found, err := s.events.FindMostRecent(txCtx, ref.ID)
		if err != nil {
			return err
		}
		last = found
		fromStore = true
		return nil
	}); err != nil {
		return nil, err
	}

	if fromStore && last != nil {
		s.cacheLast(ctx, last)
	}

	return last, nil
}

// GetDailySummary は指定日 (既定は当日) の出勤・退勤件数と打刻一覧を返します。
func (s *Service) GetDailySummary(ctx context.Context, in GetDailySummaryInput) (_ *DailySummary, err error) {
	ctx, span := tracer.Start(ctx, "attendance.GetDailySummary")
	defer func() { endSpan(span, err) }()

	cin, err := normalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	period := DayPeriod(date, s.location)

	summary := &DailySummary{Date: period.Start}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ref, err := s.directory.FindByCIN(txCtx, cin)
		if err != nil {
			return err
		}

		events, err := s.events.FindInRange(txCtx, ref.ID, period.Start, period.End)
		if err != nil {
			return err
		}

		arrivals, err := s.events.CountByKindInRange(txCtx, ref.ID, KindArrival, period.Start, period.End)
		if err != nil {
			return err
		}

		departures, err := s.events.CountByKindInRange(txCtx, ref.ID, KindDeparture, period.Start, period.End)
		if err != nil {
			return err
		}

		summary.Events = nonNilEvents(events)
		summary.ArrivalCount = arrivals
		summary.DepartureCount = departures
		return nil
	}); err != nil {
		return nil, err
	}

	return summary, nil
}

// GetEventsForPeriod は指定月 (既定は当月) の打刻を時刻昇順で返します。
func (s *Service) GetEventsForPeriod(ctx context.Context, in GetEventsForPeriodInput) (_ []*CheckInEvent, err error) {
	ctx, span := tracer.Start(ctx, "attendance.GetEventsForPeriod")
	defer func() { endSpan(span, err) }()

	cin, err := normalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}

	period, err := ResolveMonthPeriod(in.Month, in.Year, s.now())
	if err != nil {
		return nil, err
	}

	var events []*CheckInEvent
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ref, err := s.directory.FindByCIN(txCtx, cin)
		if err != nil {
			return err
		}

		found, err := s.events.FindInRange(txCtx, ref.ID, period.Start, period.End)
		if err != nil {
			return err
		}
		events = found
		return nil
	}); err != nil {
		return nil, err
	}

	return nonNilEvents(events), nil
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.location)
}

// afterRecord はコミット後の副作用です。失敗しても打刻自体は成功として扱います。
func (s *Service) afterRecord(ctx context.Context, event *CheckInEvent, collaborator CollaboratorRef) {
	s.cacheLast(ctx, event)

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, collaborator); err != nil {
		s.logger.WarnContext(ctx, "failed to publish check-in",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) cachedLast(ctx context.Context, collaboratorID string) *CheckInEvent {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, collaboratorID)
	if err != nil {
		s.logger.WarnContext(ctx, "last check-in cache read failed",
			slog.String("collaborator_id", collaboratorID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if cached != nil {
		cached.OccurredAt = cached.OccurredAt.In(s.location)
	}
	return cached
}

func (s *Service) cacheLast(ctx context.Context, event *CheckInEvent) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "last check-in cache write failed",
			slog.String("collaborator_id", event.CollaboratorID),
			slog.String("error", err.Error()),
		)
		// 並行する読み取りが古い打刻を書き戻している可能性があるため破棄する。
		if err := s.cache.Delete(ctx, event.CollaboratorID); err != nil {
			s.logger.WarnContext(ctx, "last check-in cache invalidation failed",
				slog.String("collaborator_id", event.CollaboratorID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) invalidateLast(ctx context.Context, collaboratorID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, collaboratorID); err != nil {
		return fmt.Errorf("invalidate last check-in cache: %w", err)
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func normalizeCIN(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("cin: %w", ErrInvalidCollaboratorID)
	}
	return strings.ToUpper(trimmed), nil
}

func nonNilEvents(events []*CheckInEvent) []*CheckInEvent {
	if events == nil {
		return []*CheckInEvent{}
	}
	return events
}
