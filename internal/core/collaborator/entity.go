package collaborator

import "time"

// Status は協力者の在籍状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Collaborator は協力者 (打刻対象の従業員) エンティティです。
type Collaborator struct {
	ID         string
	CIN        string
	LastName   string
	FirstName  string
	BirthDate  time.Time
	BirthPlace string
	Address    string
	CNSS       *string
	Specialty  *string
	HiredAt    *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
