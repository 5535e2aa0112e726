package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
)

const (
	aliceID = "3f6c1d2e-8a4b-4c5d-9e7f-1a2b3c4d5e6f"
	bobID   = "7b9e2f1a-3c4d-4e5f-8a6b-9c0d1e2f3a4b"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeCollaborators struct {
	byID map[string]*collaborator.Collaborator
}

func newFakeCollaborators() *fakeCollaborators {
	return &fakeCollaborators{byID: map[string]*collaborator.Collaborator{
		aliceID: {ID: aliceID, CIN: "AB123456", LastName: "Alaoui", FirstName: "Amina"},
		bobID:   {ID: bobID, CIN: "CD654321", LastName: "Bennani", FirstName: "Karim"},
	}}
}

func (f *fakeCollaborators) FindByID(_ context.Context, id string) (*collaborator.Collaborator, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, collaborator.ErrCollaboratorNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCollaborators) FindByCIN(_ context.Context, cin string) (*collaborator.Collaborator, error) {
	for _, c := range f.byID {
		if c.CIN == cin {
			clone := *c
			return &clone, nil
		}
	}
	return nil, collaborator.ErrCollaboratorNotFound
}

type fakeDocumentRepo struct {
	docs     map[string]*Document
	sequence int
	listErr  error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *Document) (*Document, error) {
	r.sequence++
	clone := *doc
	clone.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", r.sequence)
	r.docs[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *Document) (*Document, error) {
	if _, ok := r.docs[doc.ID]; !ok {
		return nil, ErrDocumentNotFound
	}
	clone := *doc
	r.docs[doc.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, id string) (*Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDocumentRepo) List(_ context.Context, filter ListFilter) ([]*Document, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*Document
	for _, d := range r.docs {
		if filter.CollaboratorID != nil && d.CollaboratorID != *filter.CollaboratorID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func strPtr(s string) *string {
	return &s
}

func statusPtr(s Status) *Status {
	return &s
}

func newTestService(t *testing.T) (*Service, *fakeDocumentRepo, *stubClock) {
	t.Helper()
	repo := newFakeDocumentRepo()
	clock := &stubClock{now: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)}
	return NewService(repo, newFakeCollaborators(), clock, nil), repo, clock
}

func TestService_CreateDocument_Success(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(t)

	doc, err := svc.CreateDocument(context.Background(), CreateDocumentInput{
		CollaboratorID: " " + aliceID + " ",
		Name:           "  Certificat médical ",
		Type:           "MEDICAL",
		Description:    strPtr("  "),
		FileName:       strPtr("certificat.pdf"),
		FileURL:        strPtr("https://files.example.com/docs/certificat.pdf"),
	})
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}
	if doc.ID == "" || doc.CollaboratorID != aliceID {
		t.Fatalf("unexpected identity: %+v", doc)
	}
	if doc.Name != "Certificat médical" || doc.Type != "MEDICAL" {
		t.Fatalf("expected trimmed fields, got %+v", doc)
	}
	if doc.Description != nil {
		t.Fatalf("expected blank description to be dropped, got %q", *doc.Description)
	}
	if doc.Status != StatusPending {
		t.Fatalf("expected %s, got %s", StatusPending, doc.Status)
	}
	if !doc.CreatedAt.Equal(clock.now) || !doc.UpdatedAt.Equal(clock.now) {
		t.Fatalf("unexpected timestamps: %+v", doc)
	}
}

func TestService_CreateDocument_Validation(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	valid := func() CreateDocumentInput {
		return CreateDocumentInput{CollaboratorID: aliceID, Name: "CIN scan", Type: "IDENTITE"}
	}

	tests := []struct {
		name   string
		mutate func(*CreateDocumentInput)
		want   error
	}{
		{"malformed collaborator id", func(in *CreateDocumentInput) { in.CollaboratorID = "alice" }, collaborator.ErrInvalidID},
		{"unknown collaborator", func(in *CreateDocumentInput) { in.CollaboratorID = "9d1e4c0b-0000-4000-8000-000000000000" }, collaborator.ErrCollaboratorNotFound},
		{"blank name", func(in *CreateDocumentInput) { in.Name = " " }, ErrInvalidName},
		{"blank type", func(in *CreateDocumentInput) { in.Type = "" }, ErrInvalidType},
		{"url without host", func(in *CreateDocumentInput) { in.FileURL = strPtr("https:///missing-host") }, ErrInvalidFileURL},
		{"unparsable url", func(in *CreateDocumentInput) { in.FileURL = strPtr("http://[::1") }, ErrInvalidFileURL},
	}

	for _, tt := range tests {
		in := valid()
		tt.mutate(&in)
		if _, err := svc.CreateDocument(context.Background(), in); !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
	if len(repo.docs) != 0 {
		t.Fatalf("expected nothing stored, got %d documents", len(repo.docs))
	}
}

func TestService_UpdateDocumentStatus(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, CreateDocumentInput{CollaboratorID: aliceID, Name: "Diplôme", Type: "DIPLOME"})
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}

	clock.now = clock.now.Add(time.Hour)
	approved, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: doc.ID, Status: StatusApproved})
	if err != nil {
		t.Fatalf("UpdateDocumentStatus returned error: %v", err)
	}
	if approved.Status != StatusApproved || !approved.UpdatedAt.Equal(clock.now) {
		t.Fatalf("unexpected document after approval: %+v", approved)
	}

	// 審査済みの書類も再審査できる。
	reopened, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: doc.ID, Status: StatusPending})
	if err != nil || reopened.Status != StatusPending {
		t.Fatalf("expected reopening to succeed, got %+v, %v", reopened, err)
	}

	if _, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: doc.ID, Status: "ARCHIVE"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: "doc-1", Status: StatusRejected}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: "5a5a5a5a-0000-4000-8000-000000000000", Status: StatusRejected}); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestService_UpdateDocument(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, CreateDocumentInput{
		CollaboratorID: aliceID,
		Name:           "Attestation",
		Type:           "ADMIN",
		Description:    strPtr("initiale"),
		FileURL:        strPtr("https://files.example.com/a.pdf"),
	})
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}
	if _, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: doc.ID, Status: StatusRejected}); err != nil {
		t.Fatalf("UpdateDocumentStatus returned error: %v", err)
	}

	updated, err := svc.UpdateDocument(ctx, UpdateDocumentInput{
		ID:             doc.ID,
		Name:           strPtr(" Attestation de travail "),
		DescriptionSet: true,
		FileURLSet:     true,
		FileURL:        strPtr("s3://pieces/attestation.pdf"),
	})
	if err != nil {
		t.Fatalf("UpdateDocument returned error: %v", err)
	}
	if updated.Name != "Attestation de travail" || updated.Type != "ADMIN" {
		t.Fatalf("unexpected text fields: %+v", updated)
	}
	if updated.Description != nil {
		t.Fatalf("expected description to be cleared")
	}
	if updated.FileURL == nil || *updated.FileURL != "s3://pieces/attestation.pdf" {
		t.Fatalf("unexpected file url: %v", updated.FileURL)
	}
	if updated.Status != StatusRejected {
		t.Fatalf("expected status to be preserved, got %s", updated.Status)
	}

	if _, err := svc.UpdateDocument(ctx, UpdateDocumentInput{ID: doc.ID, Type: strPtr(" ")}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.UpdateDocument(ctx, UpdateDocumentInput{ID: doc.ID, FileURLSet: true, FileURL: strPtr("ftp://")}); !errors.Is(err, ErrInvalidFileURL) {
		t.Fatalf("expected ErrInvalidFileURL, got %v", err)
	}
}

func TestService_ListDocuments(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(t)
	ctx := context.Background()

	create := func(owner, name string) *Document {
		t.Helper()
		clock.now = clock.now.Add(time.Minute)
		doc, err := svc.CreateDocument(ctx, CreateDocumentInput{CollaboratorID: owner, Name: name, Type: "ADMIN"})
		if err != nil {
			t.Fatalf("CreateDocument(%s) returned error: %v", name, err)
		}
		return doc
	}

	first := create(aliceID, "first")
	second := create(aliceID, "second")
	create(bobID, "other")
	if _, err := svc.UpdateDocumentStatus(ctx, UpdateDocumentStatusInput{ID: first.ID, Status: StatusApproved}); err != nil {
		t.Fatalf("UpdateDocumentStatus returned error: %v", err)
	}

	all, err := svc.ListDocuments(ctx, ListDocumentsInput{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 documents, got %d, %v", len(all), err)
	}

	byCIN, err := svc.ListDocuments(ctx, ListDocumentsInput{CIN: " ab123456 "})
	if err != nil {
		t.Fatalf("ListDocuments by cin returned error: %v", err)
	}
	if len(byCIN) != 2 || byCIN[0].ID != second.ID || byCIN[1].ID != first.ID {
		t.Fatalf("expected newest-first alice documents, got %+v", byCIN)
	}

	pending, err := svc.ListDocuments(ctx, ListDocumentsInput{CollaboratorID: aliceID, Status: statusPtr(StatusPending)})
	if err != nil || len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("expected only the pending document, got %+v, %v", pending, err)
	}

	approved, err := svc.ListDocuments(ctx, ListDocumentsInput{Status: statusPtr(StatusApproved)})
	if err != nil || len(approved) != 1 || approved[0].ID != first.ID {
		t.Fatalf("expected only the approved document, got %+v, %v", approved, err)
	}

	none, err := svc.ListDocuments(ctx, ListDocumentsInput{CIN: "CD654321", Status: statusPtr(StatusRejected)})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil result, got %+v, %v", none, err)
	}
}

func TestService_ListDocuments_Errors(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{CIN: "ZZ999999"}); !errors.Is(err, collaborator.ErrCollaboratorNotFound) {
		t.Fatalf("expected ErrCollaboratorNotFound for unknown cin, got %v", err)
	}
	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{CollaboratorID: "9d1e4c0b-0000-4000-8000-000000000000"}); !errors.Is(err, collaborator.ErrCollaboratorNotFound) {
		t.Fatalf("expected ErrCollaboratorNotFound for unknown id, got %v", err)
	}
	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{CIN: "a-b"}); !errors.Is(err, collaborator.ErrInvalidCIN) {
		t.Fatalf("expected ErrInvalidCIN, got %v", err)
	}
	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{CollaboratorID: aliceID, CIN: "AB123456"}); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{Status: statusPtr("valide")}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	storage := errors.New("storage unavailable")
	repo.listErr = storage
	if _, err := svc.ListDocuments(ctx, ListDocumentsInput{}); !errors.Is(err, storage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestService_GetAndDeleteDocument(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, CreateDocumentInput{CollaboratorID: bobID, Name: "RIB", Type: "BANQUE"})
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}

	found, err := svc.GetDocument(ctx, GetDocumentInput{ID: doc.ID})
	if err != nil || found.Name != "RIB" {
		t.Fatalf("unexpected GetDocument result: %+v, %v", found, err)
	}

	if err := svc.DeleteDocument(ctx, DeleteDocumentInput{ID: doc.ID}); err != nil {
		t.Fatalf("DeleteDocument returned error: %v", err)
	}
	if _, err := svc.GetDocument(ctx, GetDocumentInput{ID: doc.ID}); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := svc.DeleteDocument(ctx, DeleteDocumentInput{ID: doc.ID}); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetDocument(ctx, GetDocumentInput{ID: ""}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
