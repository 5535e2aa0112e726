package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
)

const internalErrorMessage = "internal server error"

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidDate  = errors.New("invalid date: expected YYYY-MM-DD")
	errInvalidQuery = errors.New("invalid query parameter")
)

func toHTTPStatus(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidDate),
		errors.Is(err, errInvalidQuery),
		errors.Is(err, attendance.ErrInvalidCollaboratorID),
		errors.Is(err, attendance.ErrInvalidKind),
		errors.Is(err, attendance.ErrInvalidPeriod),
		errors.Is(err, collaborator.ErrInvalidID),
		errors.Is(err, collaborator.ErrInvalidCIN),
		errors.Is(err, collaborator.ErrInvalidLastName),
		errors.Is(err, collaborator.ErrInvalidFirstName),
		errors.Is(err, collaborator.ErrInvalidBirthDate),
		errors.Is(err, collaborator.ErrInvalidBirthPlace),
		errors.Is(err, collaborator.ErrInvalidAddress),
		errors.Is(err, collaborator.ErrInvalidStatus),
		errors.Is(err, collaborator.ErrInvalidPageSize),
		errors.Is(err, collaborator.ErrInvalidPageToken),
		errors.Is(err, collaborator.ErrInvalidDateRange),
		errors.Is(err, document.ErrInvalidID),
		errors.Is(err, document.ErrInvalidName),
		errors.Is(err, document.ErrInvalidType),
		errors.Is(err, document.ErrInvalidStatus),
		errors.Is(err, document.ErrInvalidFileURL),
		errors.Is(err, document.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrCollaboratorNotFound),
		errors.Is(err, collaborator.ErrCollaboratorNotFound),
		errors.Is(err, document.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrBusinessRuleViolation),
		errors.Is(err, collaborator.ErrCINAlreadyExists),
		errors.Is(err, collaborator.ErrCollaboratorHasCheckIns),
		errors.Is(err, collaborator.ErrCollaboratorHasDocuments):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError はドメインエラーを HTTP ステータスに変換して書き込みます。
// 500 の場合は内部の詳細を隠して汎用メッセージを返します。
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()
	status := toHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed",
			"request_id", GetRequestID(ctx),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, status, errorResponse{Error: internalErrorMessage})
		return
	}

	logger.WarnContext(ctx, "request rejected",
		"request_id", GetRequestID(ctx),
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
