package attendance

import "time"

// DayState は協力者ごと・日ごとの暗黙的な打刻状態です。永続化はされず、直近の打刻から毎回導出します。
type DayState int

const (
	// StateStart は当日まだ打刻がない状態です。
	StateStart DayState = iota
	// StateAwaitingDeparture は出勤後で退勤を待っている状態です。
	StateAwaitingDeparture
	// StateAwaitingArrival は退勤後で次の出勤を待っている状態です。
	StateAwaitingArrival
)

func (s DayState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateAwaitingDeparture:
		return "AWAITING_DEPARTURE"
	case StateAwaitingArrival:
		return "AWAITING_ARRIVAL"
	default:
		return "UNKNOWN"
	}
}

// ExpectedKind はこの状態で受け付ける打刻種別を返します。
func (s DayState) ExpectedKind() Kind {
	if s == StateAwaitingDeparture {
		return KindDeparture
	}
	return KindArrival
}

// DayStateAt は直近の打刻 last と現在時刻 now から当日の状態を導出します。
// last が now と異なる暦日 (now のロケーション基準) であれば日付変更としてリセットされます。
func DayStateAt(last *CheckInEvent, now time.Time) DayState {
	if last == nil || !sameDay(last.OccurredAt, now) {
		return StateStart
	}
	if last.Kind == KindArrival {
		return StateAwaitingDeparture
	}
	return StateAwaitingArrival
}

// Evaluate は直近の打刻 last に対して proposed を記録してよいかを判定します。
// last はその協力者の全期間での最新打刻で、日付によるスコープはここで適用します。
func Evaluate(last *CheckInEvent, proposed Kind, now time.Time) error {
	if DayStateAt(last, now) == StateStart {
		if proposed != KindArrival {
			return ErrFirstCheckInNotArrival
		}
		return nil
	}

	if last.Kind == proposed {
		return ErrConsecutiveSameKind
	}

	// 現状の2種別では到達しない。
	if proposed == KindDeparture && last.Kind != KindArrival {
		return ErrDepartureWithoutArrival
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
