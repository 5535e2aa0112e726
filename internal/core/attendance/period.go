package attendance

import "time"

const (
	minPeriodYear = 1
	maxPeriodYear = 9999
)

// Period は [Start, End) の半開区間です。
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains は t が区間に含まれるかを返します。
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// DayPeriod は date の暦日 (年月日のみ使用) を loc で解釈した1日分の区間を返します。
func DayPeriod(date time.Time, loc *time.Location) Period {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthPeriod は指定月の1日 00:00 から翌月1日 00:00 までの区間を返します。
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// ResolveMonthPeriod は月・年の指定から対象区間を決定します。
// 両方未指定なら now の月、片方のみの指定や範囲外の値は ErrInvalidPeriod です。
func ResolveMonthPeriod(month, year *int, now time.Time) (Period, error) {
	switch {
	case month == nil && year == nil:
		return MonthPeriod(now.Year(), now.Month(), now.Location()), nil
	case month == nil || year == nil:
		return Period{}, ErrInvalidPeriod
	}

	if *month < 1 || *month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	if *year < minPeriodYear || *year > maxPeriodYear {
		return Period{}, ErrInvalidPeriod
	}

	return MonthPeriod(*year, time.Month(*month), now.Location()), nil
}
