package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
	"github.com/guided-platform/matching-service/internal/validator"
)

type stubInviteService struct {
	createResp *services.InviteResponse
	createErr  error
}

func (s *stubInviteService) Create(ctx context.Context, req *services.InviteCreateRequest) (*services.InviteResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubInviteService) GetByID(ctx context.Context, id string) (*services.InviteResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInviteService) List(ctx context.Context, req *services.InviteListRequest) (*services.InviteListResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInviteService) Act(ctx context.Context, id string, actor models.InviteActor, actorID string, action models.InviteAction) (*services.InviteResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInviteService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, errors.New("not implemented")
}

func newInviteTestRouter(svc services.InviteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	handler := NewInviteHandler(svc, validator.New(), logger)

	router := gin.New()
	router.POST("/invites", handler.CreateInvite)
	return router
}

func postInvite(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/invites", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateInvite_Created(t *testing.T) {
	invite := &models.Invite{ID: "inv-1", StudentID: "student-1", MentorID: "mentor-1", Status: models.InviteProposed}
	svc := &stubInviteService{createResp: &services.InviteResponse{Invite: invite}}
	router := newInviteTestRouter(svc)

	rec := postInvite(t, router, `{"student_id":"student-1","mentor_id":"mentor-1","created_by":"student"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateInvite_DuplicateCarriesExisting(t *testing.T) {
	existing := &models.Invite{ID: "inv-1", StudentID: "student-1", MentorID: "mentor-1", Status: models.InviteAcceptedByStudent}
	svc := &stubInviteService{
		createResp: &services.InviteResponse{Invite: existing},
		createErr:  services.ErrDuplicateInvite,
	}
	router := newInviteTestRouter(svc)

	rec := postInvite(t, router, `{"student_id":"student-1","mentor_id":"mentor-1","created_by":"mentor"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var body DuplicateInviteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode conflict body: %v", err)
	}
	if body.Invite == nil || body.Invite.ID != existing.ID {
		t.Fatalf("conflict body should carry the existing invite, got %+v", body.Invite)
	}
	if body.Invite.Status != models.InviteAcceptedByStudent {
		t.Errorf("expected existing status preserved, got %s", body.Invite.Status)
	}
}
