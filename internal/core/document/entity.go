package document

import "time"

// Status は書類の審査状態を表します。
type Status string

const (
	StatusPending  Status = "EN_ATTENTE"
	StatusApproved Status = "VALIDE"
	StatusRejected Status = "REJETE"
)

// IsValid は定義済みの状態かを返します。
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Document は協力者が提出した証明書類 (PieceJustificative) のメタデータです。
// ファイル本体は保持せず、外部ストレージ上の参照のみを記録します。
type Document struct {
	ID             string
	CollaboratorID string
	Name           string
	Type           string
	Description    *string
	FileName       *string
	FileURL        *string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
