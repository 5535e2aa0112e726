package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
)

// DocumentHandler は証明書類メタデータ API の HTTP ハンドラーです。
type DocumentHandler struct {
	svc    document.UseCase
	logger *slog.Logger
}

// NewDocumentHandler は DocumentHandler を生成します。
func NewDocumentHandler(svc document.UseCase, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, logger: logger}
}

// Register は書類ルートを登録します。
func (h *DocumentHandler) Register(r chi.Router) {
	r.Route("/api/pieces-justificatives", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/collaborateur/{collaboratorID}", h.handleListByCollaborator)
		r.Get("/collaborateur/cin/{cin}", h.handleListByCIN)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Patch("/{id}/statut", h.handleUpdateStatus)
		r.Delete("/{id}", h.handleDelete)
	})
}

type createDocumentRequest struct {
	CollaboratorID string  `json:"collaborator_id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Description    *string `json:"description"`
	FileName       *string `json:"file_name"`
	FileURL        *string `json:"file_url"`
}

type updateDocumentRequest struct {
	Name        *string        `json:"name"`
	Type        *string        `json:"type"`
	Description optionalString `json:"description"`
	FileName    optionalString `json:"file_name"`
	FileURL     optionalString `json:"file_url"`
}

type updateDocumentStatusRequest struct {
	Status string `json:"status"`
}

type documentResponse struct {
	ID             string    `json:"id"`
	CollaboratorID string    `json:"collaborator_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Description    *string   `json:"description"`
	FileName       *string   `json:"file_name"`
	FileURL        *string   `json:"file_url"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *DocumentHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.svc.CreateDocument(r.Context(), document.CreateDocumentInput{
		CollaboratorID: req.CollaboratorID,
		Name:           req.Name,
		Type:           req.Type,
		Description:    req.Description,
		FileName:       req.FileName,
		FileURL:        req.FileURL,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/pieces-justificatives/"+created.ID)
	writeJSON(w, http.StatusCreated, toDocumentResponse(created))
}

func (h *DocumentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetDocument(r.Context(), document.GetDocumentInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(found))
}

func (h *DocumentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, document.ListDocumentsInput{})
}

func (h *DocumentHandler) handleListByCollaborator(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, document.ListDocumentsInput{CollaboratorID: chi.URLParam(r, "collaboratorID")})
}

func (h *DocumentHandler) handleListByCIN(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, document.ListDocumentsInput{CIN: chi.URLParam(r, "cin")})
}

// list は status クエリを絞り込み条件に加えて一覧を返します。
func (h *DocumentHandler) list(w http.ResponseWriter, r *http.Request, in document.ListDocumentsInput) {
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := document.Status(raw)
		in.Status = &status
	}

	docs, err := h.svc.ListDocuments(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateDocument(r.Context(), document.UpdateDocumentInput{
		ID:             chi.URLParam(r, "id"),
		Name:           req.Name,
		Type:           req.Type,
		Description:    req.Description.Value,
		DescriptionSet: req.Description.Set,
		FileName:       req.FileName.Value,
		FileNameSet:    req.FileName.Set,
		FileURL:        req.FileURL.Value,
		FileURLSet:     req.FileURL.Set,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(updated))
}

func (h *DocumentHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateDocumentStatus(r.Context(), document.UpdateDocumentStatusInput{
		ID:     chi.URLParam(r, "id"),
		Status: document.Status(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(updated))
}

func (h *DocumentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDocument(r.Context(), document.DeleteDocumentInput{ID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDocumentResponse(d *document.Document) documentResponse {
	return documentResponse{
		ID:             d.ID,
		CollaboratorID: d.CollaboratorID,
		Name:           d.Name,
		Type:           d.Type,
		Description:    d.Description,
		FileName:       d.FileName,
		FileURL:        d.FileURL,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
