package collaborator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

var cinPattern = regexp.MustCompile(`^[A-Z0-9]{4,20}$`)

// Service は協力者に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は協力者ユースケースの公開インターフェースです。
type UseCase interface {
	CreateCollaborator(ctx context.Context, in CreateCollaboratorInput) (*Collaborator, error)
	GetCollaborator(ctx context.Context, in GetCollaboratorInput) (*Collaborator, error)
	GetCollaboratorByCIN(ctx context.Context, in GetCollaboratorByCINInput) (*Collaborator, error)
	ListCollaborators(ctx context.Context, in ListCollaboratorsInput) (*ListCollaboratorsResult, error)
	UpdateCollaborator(ctx context.Context, in UpdateCollaboratorInput) (*Collaborator, error)
	DeleteCollaborator(ctx context.Context, in DeleteCollaboratorInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateCollaboratorInput は協力者作成時の入力です。
type CreateCollaboratorInput struct {
	CIN        string
	LastName   string
	FirstName  string
	BirthDate  time.Time
	BirthPlace string
	Address    string
	CNSS       *string
	Specialty  *string
	HiredAt    *time.Time
	Status     *Status
}

// UpdateCollaboratorInput は協力者更新時の入力です。nil のフィールドは変更しません。
// CNSS / Specialty / HiredAt は *Set が true の場合に nil でクリアします。
type UpdateCollaboratorInput struct {
	ID           string
	CIN          *string
	LastName     *string
	FirstName    *string
	BirthDate    *time.Time
	BirthPlace   *string
	Address      *string
	CNSS         *string
	CNSSSet      bool
	Specialty    *string
	SpecialtySet bool
	HiredAt      *time.Time
	HiredAtSet   bool
	Status       *Status
}

// DeleteCollaboratorInput は協力者削除時の入力です。
type DeleteCollaboratorInput struct {
	ID string
}

// GetCollaboratorInput は協力者取得時の入力です。
type GetCollaboratorInput struct {
	ID string
}

// GetCollaboratorByCINInput は CIN による協力者取得時の入力です。
type GetCollaboratorByCINInput struct {
	CIN string
}

// ListCollaboratorsInput は一覧取得時の入力です。
type ListCollaboratorsInput struct {
	PageSize  int
	PageToken string
	Status    *Status
}

// ListCollaboratorsResult は一覧取得結果を表します。
type ListCollaboratorsResult struct {
	Collaborators []*Collaborator
	NextPageToken string
}

// CreateCollaborator は新しい協力者を作成します。
func (s *Service) CreateCollaborator(ctx context.Context, in CreateCollaboratorInput) (*Collaborator, error) {
	cin, err := NormalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}

	lastName, err := requireText(in.LastName, ErrInvalidLastName)
	if err != nil {
		return nil, err
	}

	firstName, err := requireText(in.FirstName, ErrInvalidFirstName)
	if err != nil {
		return nil, err
	}

	birthPlace, err := requireText(in.BirthPlace, ErrInvalidBirthPlace)
	if err != nil {
		return nil, err
	}

	address, err := requireText(in.Address, ErrInvalidAddress)
	if err != nil {
		return nil, err
	}

	if in.BirthDate.IsZero() {
		return nil, ErrInvalidBirthDate
	}
	birthDate := *normalizeDate(&in.BirthDate)
	hiredAt := normalizeDate(in.HiredAt)

	status := StatusActive
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	var created *Collaborator
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		if err := validateDates(birthDate, hiredAt, now); err != nil {
			return err
		}

		if err := s.ensureCINNotExists(txCtx, cin); err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Collaborator{
			CIN:        cin,
			LastName:   lastName,
			FirstName:  firstName,
			BirthDate:  birthDate,
			BirthPlace: birthPlace,
			Address:    address,
			CNSS:       normalizeOptionalText(in.CNSS),
			Specialty:  normalizeOptionalText(in.Specialty),
			HiredAt:    cloneTime(hiredAt),
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateCollaborator は協力者情報を部分更新します。
func (s *Service) UpdateCollaborator(ctx context.Context, in UpdateCollaboratorInput) (*Collaborator, error) {
	id, err := NormalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Collaborator
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.CIN != nil {
			cin, err := NormalizeCIN(*in.CIN)
			if err != nil {
				return err
			}
			if cin != existing.CIN {
				if err := s.ensureCINNotExists(txCtx, cin); err != nil {
					return err
				}
				existing.CIN = cin
			}
		}

		if err := applyText(&existing.LastName, in.LastName, ErrInvalidLastName); err != nil {
			return err
		}
		if err := applyText(&existing.FirstName, in.FirstName, ErrInvalidFirstName); err != nil {
			return err
		}
		if err := applyText(&existing.BirthPlace, in.BirthPlace, ErrInvalidBirthPlace); err != nil {
			return err
		}
		if err := applyText(&existing.Address, in.Address, ErrInvalidAddress); err != nil {
			return err
		}

		if in.BirthDate != nil {
			if in.BirthDate.IsZero() {
				return ErrInvalidBirthDate
			}
			existing.BirthDate = *normalizeDate(in.BirthDate)
		}

		if in.CNSSSet {
			existing.CNSS = normalizeOptionalText(in.CNSS)
		}
		if in.SpecialtySet {
			existing.Specialty = normalizeOptionalText(in.Specialty)
		}
		if in.HiredAtSet {
			existing.HiredAt = cloneTime(normalizeDate(in.HiredAt))
		}

		if in.Status != nil {
			if !isValidStatus(*in.Status) {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		now := s.clock.Now()
		if err := validateDates(existing.BirthDate, existing.HiredAt, now); err != nil {
			return err
		}
		existing.UpdatedAt = now

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCollaborator は協力者を削除します。打刻が記録済みの場合は ErrCollaboratorHasCheckIns です。
func (s *Service) DeleteCollaborator(ctx context.Context, in DeleteCollaboratorInput) error {
	id, err := NormalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// GetCollaborator は協力者を取得します。
func (s *Service) GetCollaborator(ctx context.Context, in GetCollaboratorInput) (*Collaborator, error) {
	id, err := NormalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Collaborator
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetCollaboratorByCIN は CIN で協力者を取得します。
func (s *Service) GetCollaboratorByCIN(ctx context.Context, in GetCollaboratorByCINInput) (*Collaborator, error) {
	cin, err := NormalizeCIN(in.CIN)
	if err != nil {
		return nil, err
	}

	var result *Collaborator
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCIN(txCtx, cin)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListCollaborators は協力者の一覧を取得します。
func (s *Service) ListCollaborators(ctx context.Context, in ListCollaboratorsInput) (*ListCollaboratorsResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var statusPtr *Status
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	var (
		collaborators []*Collaborator
		nextToken     string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, token, err := s.repo.List(txCtx, ListCollaboratorsFilter{
			Status: statusPtr,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		collaborators = found
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	if collaborators == nil {
		collaborators = []*Collaborator{}
	}

	return &ListCollaboratorsResult{Collaborators: collaborators, NextPageToken: nextToken}, nil
}

func (s *Service) ensureCINNotExists(ctx context.Context, cin string) error {
	found, err := s.repo.FindByCIN(ctx, cin)
	if err != nil && !errors.Is(err, ErrCollaboratorNotFound) {
		return err
	}
	if found != nil {
		return ErrCINAlreadyExists
	}
	return nil
}

// NormalizeID は協力者 ID を UUID として検証し、正規形で返します。不正な場合は ErrInvalidID です。
func NormalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return parsed.String(), nil
}

// NormalizeCIN は CIN の前後空白を除去し大文字化します。形式が不正な場合は ErrInvalidCIN です。
func NormalizeCIN(raw string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !cinPattern.MatchString(normalized) {
		return "", ErrInvalidCIN
	}
	return normalized, nil
}

func requireText(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func applyText(dst *string, raw *string, invalid error) error {
	if raw == nil {
		return nil
	}
	value, err := requireText(*raw, invalid)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

func normalizeOptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func validateDates(birthDate time.Time, hiredAt *time.Time, now time.Time) error {
	if birthDate.After(now) {
		return ErrInvalidBirthDate
	}
	if hiredAt != nil && hiredAt.Before(birthDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
