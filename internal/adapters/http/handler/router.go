package handler

//go:generate mockgen -destination=mocks/attendance_mock.go -package=mocks -mock_names=UseCase=MockAttendanceUseCase github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance UseCase
//go:generate mockgen -destination=mocks/collaborator_mock.go -package=mocks -mock_names=UseCase=MockCollaboratorUseCase github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator UseCase
//go:generate mockgen -destination=mocks/document_mock.go -package=mocks -mock_names=UseCase=MockDocumentUseCase github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document UseCase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/metrics"
)

const healthCheckTimeout = 2 * time.Second

// Registrar は chi.Router にルートを登録するハンドラーです。
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck は /healthz で確認する依存先です。
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter は共通ミドルウェアと運用エンドポイントを備えたルーターを生成します。
func NewRouter(logger *slog.Logger, m *metrics.Metrics, checks []HealthCheck, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Latency(m))

	r.Get("/healthz", healthHandler(logger, checks))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}

func healthHandler(logger *slog.Logger, checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"request_id", GetRequestID(ctx),
					"dependency", c.Name,
					"error", err.Error(),
				)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "dependency": c.Name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
