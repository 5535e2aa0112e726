package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCollaboratorID = errors.New("attendance: invalid collaborator id")
	ErrInvalidKind           = errors.New("attendance: invalid check-in kind")
	ErrInvalidPeriod         = errors.New("attendance: invalid period")
	ErrCollaboratorNotFound  = errors.New("attendance: collaborator not found")

	// ErrBusinessRuleViolation は打刻の交互ルール違反すべてが wrap する親エラーです。
	ErrBusinessRuleViolation = errors.New("attendance: business rule violation")

	ErrFirstCheckInNotArrival  = fmt.Errorf("%w: first check-in of the day must be an arrival", ErrBusinessRuleViolation)
	ErrConsecutiveSameKind     = fmt.Errorf("%w: two consecutive check-ins of the same kind are not allowed", ErrBusinessRuleViolation)
	ErrDepartureWithoutArrival = fmt.Errorf("%w: departure must be preceded by an arrival", ErrBusinessRuleViolation)
)

// ViolationReason はルール違反エラーを短い識別子に変換します。ルール違反でなければ空文字です。
func ViolationReason(err error) string {
	switch {
	case errors.Is(err, ErrFirstCheckInNotArrival):
		return "first_not_arrival"
	case errors.Is(err, ErrConsecutiveSameKind):
		return "consecutive_same_kind"
	case errors.Is(err, ErrDepartureWithoutArrival):
		return "departure_without_arrival"
	case errors.Is(err, ErrBusinessRuleViolation):
		return "other"
	default:
		return ""
	}
}
