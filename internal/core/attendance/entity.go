package attendance

import (
	"strings"
	"time"
)

// Kind は打刻の種別です。
type Kind string

const (
	KindArrival   Kind = "ARRIVAL"
	KindDeparture Kind = "DEPARTURE"
)

// 旧システム (ARRIVEE / DEPART) から移行したクライアント向けの別名です。
var kindAliases = map[string]Kind{
	"ARRIVAL":   KindArrival,
	"ARRIVEE":   KindArrival,
	"DEPARTURE": KindDeparture,
	"DEPART":    KindDeparture,
}

// ParseKind は文字列を Kind に変換します。空文字は ErrInvalidKind です。
func ParseKind(raw string) (Kind, error) {
	kind, ok := kindAliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidKind
	}
	return kind, nil
}

// IsValid は定義済みの種別かを返します。
func (k Kind) IsValid() bool {
	return k == KindArrival || k == KindDeparture
}

// CheckInEvent は打刻エンティティです。作成後は変更されません。
type CheckInEvent struct {
	ID             string
	Kind           Kind
	OccurredAt     time.Time
	CollaboratorID string
}

// CollaboratorRef は打刻処理が参照する協力者のスナップショットです。
type CollaboratorRef struct {
	ID        string
	CIN       string
	LastName  string
	FirstName string
}

// DailySummary は1日分の打刻集計です。
type DailySummary struct {
	Date           time.Time
	ArrivalCount   int
	DepartureCount int
	Events         []*CheckInEvent
}
