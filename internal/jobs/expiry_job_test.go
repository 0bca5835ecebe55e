package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/services"
)

type stubInviteService struct {
	expired     int
	expireErr   error
	sweepWindow time.Duration
	calls       int
}

func (s *stubInviteService) Create(ctx context.Context, req *services.InviteCreateRequest) (*services.InviteResponse, error) {
	return nil, errors.New("not implemented")
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
	s.calls++
	s.sweepWindow = olderThan
	return s.expired, s.expireErr
}

func TestExpiryJobRun(t *testing.T) {
	stub := &stubInviteService{expired: 3}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	job := NewExpiryJob(stub, logger)
	job.Run()

	if stub.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", stub.calls)
	}
	if stub.sweepWindow != services.ExpiryWindow {
		t.Errorf("expected sweep window %v, got %v", services.ExpiryWindow, stub.sweepWindow)
	}
}

func TestExpiryJobRunSwallowsErrors(t *testing.T) {
	stub := &stubInviteService{expireErr: errors.New("database down")}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	job := NewExpiryJob(stub, logger)
	job.Run()

	if stub.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", stub.calls)
	}
	if !bytes.Contains(buf.Bytes(), []byte("invite expiry sweep failed")) {
		t.Errorf("expected failure log, got %q", buf.String())
	}
}
