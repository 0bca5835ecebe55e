package services

import (
	"bytes"
	"context"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type StudentUpsertRequest = validator.StudentUpsertRequest
type MentorUpsertRequest = validator.MentorUpsertRequest
type InviteCreateRequest = validator.InviteCreateRequest
type InviteListRequest = validator.InviteListRequest
type RankMentorsRequest = validator.RankMentorsRequest
type RankStudentsRequest = validator.RankStudentsRequest

// MentorMatchResponse is one ranked candidate on the student side
type MentorMatchResponse struct {
	Mentor       *models.Mentor `json:"mentor"`
	Score        int            `json:"score"`
	Reasons      []string       `json:"reasons"`
	FirstOverlap *time.Time     `json:"first_overlap,omitempty"`
}

// StudentMatchResponse is one ranked candidate on the mentor side
type StudentMatchResponse struct {
	Student      *models.Student `json:"student"`
	Score        int             `json:"score"`
	Reasons      []string        `json:"reasons"`
	FirstOverlap *time.Time      `json:"first_overlap,omitempty"`
}

type MentorMatchListResponse struct {
	Matches  []MentorMatchResponse `json:"matches"`
	Total    int                   `json:"total"`
	Strategy string                `json:"strategy"`
}

type StudentMatchListResponse struct {
	Matches  []StudentMatchResponse `json:"matches"`
	Total    int                    `json:"total"`
	Strategy string                 `json:"strategy"`
}

// InviteResponse wraps an invite with derived flags
type InviteResponse struct {
	*models.Invite
	NeedsNudge bool `json:"needs_nudge"`
}

type InviteListResponse struct {
	Invites []*InviteResponse `json:"invites"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

// ===== SERVICE INTERFACES =====

// MatchService ranks candidates for discovery and facilitator curation
type MatchService interface {
	// RankMentorsForStudent runs the weighted strategy for student discovery.
	RankMentorsForStudent(ctx context.Context, req *RankMentorsRequest) (*MentorMatchListResponse, error)

	// RankStudentsForMentor runs the reverse strategy for mentor discovery.
	RankStudentsForMentor(ctx context.Context, req *RankStudentsRequest) (*StudentMatchListResponse, error)

	// Shortlist builds the facilitator's curated list for one student,
	// applying the score floor.
	Shortlist(ctx context.Context, studentID string) (*MentorMatchListResponse, error)
}

// InviteService owns the invite lifecycle state machine
type InviteService interface {
	Create(ctx context.Context, req *InviteCreateRequest) (*InviteResponse, error)
	GetByID(ctx context.Context, id string) (*InviteResponse, error)
	List(ctx context.Context, req *InviteListRequest) (*InviteListResponse, error)

	// Act applies one lifecycle action (accept, reject, approve) on behalf of
	// an actor. Illegal transitions return IllegalTransitionError.
	Act(ctx context.Context, id string, actor models.InviteActor, actorID string, action models.InviteAction) (*InviteResponse, error)

	// ExpireStale moves non-terminal invites older than the retention window
	// to expired. Returns the number of invites touched.
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// ProfileService manages student and mentor profiles
type ProfileService interface {
	UpsertStudent(ctx context.Context, req *StudentUpsertRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	UpsertMentor(ctx context.Context, req *MentorUpsertRequest) (*models.Mentor, error)
	GetMentor(ctx context.Context, id string) (*models.Mentor, error)
}

// ReportService produces facilitator exports
type ReportService interface {
	// ExportInvites renders the invite pipeline as an Excel workbook.
	// Returns the file content and a suggested filename.
	ExportInvites(ctx context.Context, req *InviteListRequest) (*bytes.Buffer, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Match() MatchService
	Invite() InviteService
	Profile() ProfileService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
