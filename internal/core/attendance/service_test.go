package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

var (
	testLocation = time.FixedZone("UTC+1", 3600)
	alice        = &CollaboratorRef{ID: "c-1", CIN: "AB123456", LastName: "Alaoui", FirstName: "Amina"}
	bob          = &CollaboratorRef{ID: "c-2", CIN: "CD654321", LastName: "Bennani", FirstName: "Youssef"}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, testLocation)
}

type serviceFixture struct {
	svc       *Service
	directory *fakeDirectory
	store     *fakeEventStore
	clock     *stubClock
}

func newFixture(t *testing.T, opts ...Option) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		directory: newFakeDirectory(alice, bob),
		store:     newFakeEventStore(),
		clock:     &stubClock{now: at(12, 8, 0)},
	}
	base := []Option{
		WithLocation(testLocation),
		WithIDGenerator(sequentialIDs()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	f.svc = NewService(f.directory, f.store, f.clock, &serialTx{}, append(base, opts...)...)
	return f
}

func (f *serviceFixture) record(t *testing.T, when time.Time, cin string, kind Kind) (*CheckInEvent, error) {
	t.Helper()
	f.clock.Set(when)
	return f.svc.RecordCheckIn(context.Background(), RecordCheckInInput{CIN: cin, Kind: kind})
}

func intPtr(v int) *int {
	return &v
}

func TestService_RecordCheckIn_FirstArrival(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	event, err := f.record(t, at(12, 8, 0), " ab123456 ", KindArrival)
	if err != nil {
		t.Fatalf("RecordCheckIn returned error: %v", err)
	}

	if event.ID != "evt-1" {
		t.Errorf("unexpected id: %s", event.ID)
	}
	if event.Kind != KindArrival {
		t.Errorf("unexpected kind: %s", event.Kind)
	}
	if event.CollaboratorID != alice.ID {
		t.Errorf("unexpected collaborator: %s", event.CollaboratorID)
	}
	if !event.OccurredAt.Equal(at(12, 8, 0)) {
		t.Errorf("unexpected occurred_at: %v", event.OccurredAt)
	}
	if event.OccurredAt.Location() != testLocation {
		t.Errorf("expected occurred_at in server location, got %v", event.OccurredAt.Location())
	}
	if len(f.store.locks) != 1 || f.store.locks[0] != alice.ID {
		t.Errorf("expected collaborator lock before insert, got %v", f.store.locks)
	}
}

func TestService_RecordCheckIn_RuleViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prior   []Kind
		propose Kind
		wantErr error
	}{
		{name: "first departure", propose: KindDeparture, wantErr: ErrFirstCheckInNotArrival},
		{name: "second arrival", prior: []Kind{KindArrival}, propose: KindArrival, wantErr: ErrConsecutiveSameKind},
		{name: "second departure", prior: []Kind{KindArrival, KindDeparture}, propose: KindDeparture, wantErr: ErrConsecutiveSameKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			for i, kind := range tt.prior {
				if _, err := f.record(t, at(12, 8+i, 0), alice.CIN, kind); err != nil {
					t.Fatalf("prior check-in %d failed: %v", i, err)
				}
			}

			_, err := f.record(t, at(12, 18, 0), alice.CIN, tt.propose)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrBusinessRuleViolation) {
				t.Fatalf("expected ErrBusinessRuleViolation, got %v", err)
			}
			if got := f.store.count(); got != len(tt.prior) {
				t.Fatalf("expected no new event to be persisted, got %d events", got)
			}
		})
	}
}

func TestService_RecordCheckIn_WorkdayScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("arrival failed: %v", err)
	}
	if _, err := f.record(t, at(12, 8, 5), alice.CIN, KindArrival); !errors.Is(err, ErrConsecutiveSameKind) {
		t.Fatalf("expected duplicate arrival to be rejected, got %v", err)
	}
	if _, err := f.record(t, at(12, 17, 0), alice.CIN, KindDeparture); err != nil {
		t.Fatalf("departure failed: %v", err)
	}

	f.clock.Set(at(12, 20, 0))
	summary, err := f.svc.GetDailySummary(ctx, GetDailySummaryInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("GetDailySummary returned error: %v", err)
	}
	if summary.ArrivalCount != 1 || summary.DepartureCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(summary.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(summary.Events))
	}
	if !summary.Date.Equal(at(12, 0, 0)) {
		t.Fatalf("unexpected summary date: %v", summary.Date)
	}
}

func TestService_RecordCheckIn_DayBoundaryResets(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("arrival failed: %v", err)
	}
	if _, err := f.record(t, at(12, 17, 0), alice.CIN, KindDeparture); err != nil {
		t.Fatalf("departure failed: %v", err)
	}
	if _, err := f.record(t, at(13, 0, 1), alice.CIN, KindDeparture); !errors.Is(err, ErrFirstCheckInNotArrival) {
		t.Fatalf("expected first departure of new day to be rejected, got %v", err)
	}
	if _, err := f.record(t, at(13, 8, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("arrival on next day failed: %v", err)
	}
}

func TestService_RecordCheckIn_OpenArrivalDoesNotCarryOver(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	if _, err := f.record(t, at(12, 22, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("arrival failed: %v", err)
	}
	if _, err := f.record(t, at(13, 7, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("expected arrival after an open arrival on the previous day to succeed, got %v", err)
	}
}

func TestService_RecordCheckIn_AcceptedEventsAlternate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	proposals := []Kind{
		KindDeparture, KindArrival, KindArrival, KindDeparture, KindDeparture,
		KindArrival, KindDeparture, KindArrival, KindArrival, KindDeparture,
	}

	for i, kind := range proposals {
		_, err := f.record(t, at(12, 8, i), alice.CIN, kind)
		if err != nil && !errors.Is(err, ErrBusinessRuleViolation) {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}

	f.clock.Set(at(12, 23, 0))
	summary, err := f.svc.GetDailySummary(context.Background(), GetDailySummaryInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("GetDailySummary returned error: %v", err)
	}
	if len(summary.Events) == 0 {
		t.Fatal("expected accepted events")
	}
	for i, e := range summary.Events {
		want := KindArrival
		if i%2 == 1 {
			want = KindDeparture
		}
		if e.Kind != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, e.Kind)
		}
	}
	if summary.ArrivalCount-summary.DepartureCount > 1 || summary.ArrivalCount < summary.DepartureCount {
		t.Fatalf("counts out of balance: %+v", summary)
	}
}

func TestService_RecordCheckIn_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      RecordCheckInInput
		wantErr error
	}{
		{name: "missing kind", in: RecordCheckInInput{CIN: alice.CIN}, wantErr: ErrInvalidKind},
		{name: "unknown kind", in: RecordCheckInInput{CIN: alice.CIN, Kind: Kind("PAUSE")}, wantErr: ErrInvalidKind},
		{name: "blank cin", in: RecordCheckInInput{CIN: "   ", Kind: KindArrival}, wantErr: ErrInvalidCollaboratorID},
		{name: "missing kind wins over blank cin", in: RecordCheckInInput{}, wantErr: ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			_, err := f.svc.RecordCheckIn(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.directory.calls != 0 {
				t.Fatalf("directory should not be consulted for invalid input")
			}
		})
	}
}

func TestService_RecordCheckIn_UnknownCollaborator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.record(t, at(12, 8, 0), "ZZ000000", KindArrival)
	if !errors.Is(err, ErrCollaboratorNotFound) {
		t.Fatalf("expected ErrCollaboratorNotFound, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatal("expected no event to be stored")
	}
}

func TestService_RecordCheckIn_StorageFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.insertErr = errStorage

	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatal("expected no event to be stored")
	}
}

func TestService_RecordCheckIn_SideEffectFailuresAreIgnored(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	publisher := &recordingPublisher{err: errors.New("broker down")}
	f := newFixture(t, WithCache(cache), WithPublisher(publisher))

	event, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival)
	if err != nil {
		t.Fatalf("expected success despite side-effect failures, got %v", err)
	}
	if event == nil || event.Kind != KindArrival {
		t.Fatalf("unexpected event: %+v", event)
	}
	if len(publisher.published) != 1 || publisher.published[0].CIN != alice.CIN {
		t.Fatalf("expected publisher to receive collaborator, got %+v", publisher.published)
	}
}

func TestService_RecordCheckIn_CacheWriteFailureDoesNotServeStaleEvent(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	f := newFixture(t, WithCache(cache))
	ctx := context.Background()

	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); err != nil {
		t.Fatalf("arrival failed: %v", err)
	}
	if cached, _ := cache.Get(ctx, alice.ID); cached == nil || cached.Kind != KindArrival {
		t.Fatalf("expected arrival to be cached, got %+v", cached)
	}

	cache.setErr = errors.New("redis write failed")
	departure, err := f.record(t, at(12, 17, 0), alice.CIN, KindDeparture)
	if err != nil {
		t.Fatalf("departure failed: %v", err)
	}

	last, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("GetLastCheckIn returned error: %v", err)
	}
	if last == nil || last.ID != departure.ID || last.Kind != KindDeparture {
		t.Fatalf("expected departure %s, got %+v", departure.ID, last)
	}
}

func TestService_RecordCheckIn_CacheInvalidationFailureRejects(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.delErr = errors.New("redis down")
	publisher := &recordingPublisher{}
	f := newFixture(t, WithCache(cache), WithPublisher(publisher))

	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); !errors.Is(err, cache.delErr) {
		t.Fatalf("expected invalidation error, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatal("expected no event to be stored")
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected nothing published, got %+v", publisher.published)
	}
}

func TestService_RecordCheckIn_ConcurrentArrivals(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.clock.Set(at(12, 8, 0))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RecordCheckIn(context.Background(), RecordCheckInInput{CIN: alice.CIN, Kind: KindArrival})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrBusinessRuleViolation):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != workers-1 {
		t.Fatalf("expected exactly one success, got succeeded=%d rejected=%d", succeeded, rejected)
	}
	if f.store.count() != 1 {
		t.Fatalf("expected one stored event, got %d", f.store.count())
	}
}

func TestService_GetLastCheckIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	last, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("GetLastCheckIn returned error: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no check-in, got %+v", last)
	}

	f.store.seed(&CheckInEvent{ID: "old", Kind: KindArrival, OccurredAt: at(1, 8, 0), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "new", Kind: KindDeparture, OccurredAt: at(1, 17, 0), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "other", Kind: KindArrival, OccurredAt: at(2, 8, 0), CollaboratorID: bob.ID})

	last, err = f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: "ab123456"})
	if err != nil {
		t.Fatalf("GetLastCheckIn returned error: %v", err)
	}
	if last == nil || last.ID != "new" {
		t.Fatalf("expected most recent event, got %+v", last)
	}

	if _, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: "XX"}); !errors.Is(err, ErrCollaboratorNotFound) {
		t.Fatalf("expected ErrCollaboratorNotFound, got %v", err)
	}
}

func TestService_GetLastCheckIn_UsesCache(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	f := newFixture(t, WithCache(cache))
	ctx := context.Background()

	f.store.seed(&CheckInEvent{ID: "stored", Kind: KindArrival, OccurredAt: at(11, 8, 0), CollaboratorID: alice.ID})

	first, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN})
	if err != nil || first == nil || first.ID != "stored" {
		t.Fatalf("unexpected first lookup: %+v, %v", first, err)
	}
	readsAfterMiss := f.store.reads

	second, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN})
	if err != nil || second == nil || second.ID != "stored" {
		t.Fatalf("unexpected cached lookup: %+v, %v", second, err)
	}
	if f.store.reads != readsAfterMiss {
		t.Fatalf("expected cache hit to skip the store")
	}
	if cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", cache.hits)
	}

	recorded, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival)
	if err != nil {
		t.Fatalf("RecordCheckIn returned error: %v", err)
	}
	third, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN})
	if err != nil || third == nil || third.ID != recorded.ID {
		t.Fatalf("expected cache to be refreshed after recording, got %+v, %v", third, err)
	}
}

func TestService_GetLastCheckIn_CacheReadFailureFallsBack(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	f := newFixture(t, WithCache(cache))

	f.store.seed(&CheckInEvent{ID: "stored", Kind: KindArrival, OccurredAt: at(11, 8, 0), CollaboratorID: alice.ID})

	last, err := f.svc.GetLastCheckIn(context.Background(), GetLastCheckInInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("expected fallback to store, got %v", err)
	}
	if last == nil || last.ID != "stored" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestService_GetDailySummary(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	kinds := []Kind{KindArrival, KindDeparture, KindArrival, KindDeparture, KindArrival}
	for i, kind := range kinds {
		if _, err := f.record(t, at(10, 8+2*i, 0), alice.CIN, kind); err != nil {
			t.Fatalf("check-in %d failed: %v", i, err)
		}
	}
	f.store.seed(&CheckInEvent{ID: "prev-day", Kind: KindArrival, OccurredAt: at(9, 23, 59), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "next-day", Kind: KindArrival, OccurredAt: at(11, 0, 0), CollaboratorID: alice.ID})

	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	summary, err := f.svc.GetDailySummary(context.Background(), GetDailySummaryInput{CIN: alice.CIN, Date: &date})
	if err != nil {
		t.Fatalf("GetDailySummary returned error: %v", err)
	}

	if summary.ArrivalCount != 3 || summary.DepartureCount != 2 {
		t.Fatalf("unexpected counts: arrivals=%d departures=%d", summary.ArrivalCount, summary.DepartureCount)
	}
	if len(summary.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(summary.Events))
	}
	for i := 1; i < len(summary.Events); i++ {
		if summary.Events[i].OccurredAt.Before(summary.Events[i-1].OccurredAt) {
			t.Fatalf("events not ascending at %d", i)
		}
	}
}

func TestService_GetDailySummary_EmptyDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	summary, err := f.svc.GetDailySummary(context.Background(), GetDailySummaryInput{CIN: bob.CIN})
	if err != nil {
		t.Fatalf("GetDailySummary returned error: %v", err)
	}
	if summary.ArrivalCount != 0 || summary.DepartureCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.Events == nil || len(summary.Events) != 0 {
		t.Fatalf("expected empty non-nil events, got %#v", summary.Events)
	}
}

func TestService_GetEventsForPeriod(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.seed(&CheckInEvent{ID: "feb", Kind: KindArrival, OccurredAt: time.Date(2024, 2, 29, 23, 30, 0, 0, testLocation), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "mar-2", Kind: KindDeparture, OccurredAt: time.Date(2024, 3, 31, 23, 59, 0, 0, testLocation), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "mar-1", Kind: KindArrival, OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, testLocation), CollaboratorID: alice.ID})
	f.store.seed(&CheckInEvent{ID: "apr", Kind: KindArrival, OccurredAt: time.Date(2024, 4, 1, 0, 0, 0, 0, testLocation), CollaboratorID: alice.ID})

	events, err := f.svc.GetEventsForPeriod(context.Background(), GetEventsForPeriodInput{CIN: alice.CIN, Month: intPtr(3), Year: intPtr(2024)})
	if err != nil {
		t.Fatalf("GetEventsForPeriod returned error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "mar-1" || events[1].ID != "mar-2" {
		t.Fatalf("unexpected events: %+v", events)
	}

	// 月・年省略時は当月 (2024-03)。
	current, err := f.svc.GetEventsForPeriod(context.Background(), GetEventsForPeriodInput{CIN: alice.CIN})
	if err != nil {
		t.Fatalf("GetEventsForPeriod returned error: %v", err)
	}
	if len(current) != 2 {
		t.Fatalf("expected current month events, got %d", len(current))
	}
}

func TestService_GetEventsForPeriod_EmptyMonth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.seed(&CheckInEvent{ID: "feb", Kind: KindArrival, OccurredAt: time.Date(2024, 2, 10, 8, 0, 0, 0, testLocation), CollaboratorID: alice.ID})

	events, err := f.svc.GetEventsForPeriod(context.Background(), GetEventsForPeriodInput{CIN: alice.CIN, Month: intPtr(3), Year: intPtr(2024)})
	if err != nil {
		t.Fatalf("GetEventsForPeriod returned error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", events)
	}
}

func TestService_GetEventsForPeriod_InvalidPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		month *int
		year  *int
	}{
		{name: "month only", month: intPtr(3)},
		{name: "year only", year: intPtr(2024)},
		{name: "month zero", month: intPtr(0), year: intPtr(2024)},
		{name: "month thirteen", month: intPtr(13), year: intPtr(2024)},
		{name: "year zero", month: intPtr(1), year: intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			_, err := f.svc.GetEventsForPeriod(context.Background(), GetEventsForPeriodInput{CIN: alice.CIN, Month: tt.month, Year: tt.year})
			if !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("expected ErrInvalidPeriod, got %v", err)
			}
		})
	}
}

func TestService_ReadsPropagateStorageErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.readErr = errStorage
	ctx := context.Background()

	if _, err := f.svc.GetLastCheckIn(ctx, GetLastCheckInInput{CIN: alice.CIN}); !errors.Is(err, errStorage) {
		t.Fatalf("GetLastCheckIn: expected storage error, got %v", err)
	}
	if _, err := f.svc.GetDailySummary(ctx, GetDailySummaryInput{CIN: alice.CIN}); !errors.Is(err, errStorage) {
		t.Fatalf("GetDailySummary: expected storage error, got %v", err)
	}
	if _, err := f.svc.GetEventsForPeriod(ctx, GetEventsForPeriodInput{CIN: alice.CIN}); !errors.Is(err, errStorage) {
		t.Fatalf("GetEventsForPeriod: expected storage error, got %v", err)
	}
	if _, err := f.record(t, at(12, 8, 0), alice.CIN, KindArrival); !errors.Is(err, errStorage) {
		t.Fatalf("RecordCheckIn: expected storage error, got %v", err)
	}
}
