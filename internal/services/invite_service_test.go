package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/events"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/validator"
)

// MockRepository backs the service tests with in-memory maps.
type MockRepository struct {
	students map[string]*models.Student
	mentors  map[string]*models.Mentor
	invites  map[string]*models.Invite
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		students: make(map[string]*models.Student),
		mentors:  make(map[string]*models.Mentor),
		invites:  make(map[string]*models.Invite),
	}
}

func (m *MockRepository) Student() repositories.StudentRepository { return &mockStudentRepo{m} }
func (m *MockRepository) Mentor() repositories.MentorRepository   { return &mockMentorRepo{m} }
func (m *MockRepository) Invite() repositories.InviteRepository   { return &mockInviteRepo{m} }
func (m *MockRepository) User() repositories.UserRepository       { return nil }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

type mockStudentRepo struct{ m *MockRepository }

func (r *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if _, ok := r.m.students[student.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	r.m.students[student.ID] = student
	return nil
}

func (r *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	student, ok := r.m.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, repositories.ErrNotFound)
	}
	return student, nil
}

func (r *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.m.students[student.ID] = student
	return nil
}

func (r *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, s := range r.m.students {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *mockStudentRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	_, ok := r.m.students[id]
	return ok, nil
}

type mockMentorRepo struct{ m *MockRepository }

func (r *mockMentorRepo) Create(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error {
	if _, ok := r.m.mentors[mentor.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	r.m.mentors[mentor.ID] = mentor
	return nil
}

func (r *mockMentorRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Mentor, error) {
	mentor, ok := r.m.mentors[id]
	if !ok {
		return nil, fmt.Errorf("mentor %s: %w", id, repositories.ErrNotFound)
	}
	return mentor, nil
}

func (r *mockMentorRepo) Update(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error {
	r.m.mentors[mentor.ID] = mentor
	return nil
}

func (r *mockMentorRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.MentorFilters) ([]*models.Mentor, int64, error) {
	var out []*models.Mentor
	for _, m := range r.m.mentors {
		if filters.HasCapacity != nil && *filters.HasCapacity {
			confirmed, _ := r.ConfirmedCount(ctx, tx, m.ID)
			if confirmed >= m.MaxStudents {
				continue
			}
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *mockMentorRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	_, ok := r.m.mentors[id]
	return ok, nil
}

func (r *mockMentorRepo) ConfirmedCount(ctx context.Context, tx *gorm.DB, mentorID string) (int, error) {
	count := 0
	for _, invite := range r.m.invites {
		if invite.MentorID == mentorID && invite.Status == models.InviteConfirmed {
			count++
		}
	}
	return count, nil
}

type mockInviteRepo struct{ m *MockRepository }

func (r *mockInviteRepo) Create(ctx context.Context, tx *gorm.DB, invite *models.Invite) error {
	for _, existing := range r.m.invites {
		if existing.StudentID == invite.StudentID && existing.MentorID == invite.MentorID {
			return repositories.ErrDuplicateKey
		}
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now()
	}
	if invite.UpdatedAt.IsZero() {
		invite.UpdatedAt = invite.CreatedAt
	}
	r.m.invites[invite.ID] = invite
	return nil
}

func (r *mockInviteRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invite, error) {
	invite, ok := r.m.invites[id]
	if !ok {
		return nil, fmt.Errorf("invite %s: %w", id, repositories.ErrNotFound)
	}
	return invite, nil
}

func (r *mockInviteRepo) GetByPair(ctx context.Context, tx *gorm.DB, studentID, mentorID string) (*models.Invite, error) {
	for _, invite := range r.m.invites {
		if invite.StudentID == studentID && invite.MentorID == mentorID {
			return invite, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockInviteRepo) Update(ctx context.Context, tx *gorm.DB, invite *models.Invite) error {
	if _, ok := r.m.invites[invite.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.invites[invite.ID] = invite
	return nil
}

func (r *mockInviteRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.InviteFilters) ([]*models.Invite, int64, error) {
	var out []*models.Invite
	for _, invite := range r.m.invites {
		if filters.StudentID != nil && invite.StudentID != *filters.StudentID {
			continue
		}
		if filters.MentorID != nil && invite.MentorID != *filters.MentorID {
			continue
		}
		if filters.Status != nil && invite.Status != *filters.Status {
			continue
		}
		if filters.Pending != nil && *filters.Pending && !invite.Status.IsPending() {
			continue
		}
		out = append(out, invite)
	}
	return out, int64(len(out)), nil
}

func (r *mockInviteRepo) RejectedMentorIDs(ctx context.Context, tx *gorm.DB, studentID string) ([]string, error) {
	var ids []string
	for _, invite := range r.m.invites {
		if invite.StudentID == studentID && invite.Status.IsRejected() {
			ids = append(ids, invite.MentorID)
		}
	}
	return ids, nil
}

func (r *mockInviteRepo) RejectedStudentIDs(ctx context.Context, tx *gorm.DB, mentorID string) ([]string, error) {
	var ids []string
	for _, invite := range r.m.invites {
		if invite.MentorID == mentorID && invite.Status.IsRejected() {
			ids = append(ids, invite.StudentID)
		}
	}
	return ids, nil
}

func (r *mockInviteRepo) ListStale(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.Invite, error) {
	var out []*models.Invite
	for _, invite := range r.m.invites {
		if invite.Status.IsPending() && invite.UpdatedAt.Before(cutoff) {
			out = append(out, invite)
		}
	}
	return out, nil
}

// ===== TEST HELPERS =====

func newTestInviteService(repo repositories.Repository) (*inviteService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := events.NewMockEventPublisher(logger)
	svc := &inviteService{
		repo:           repo,
		logger:         logger,
		validator:      validator.New(),
		eventPublisher: publisher,
	}
	return svc, publisher
}

func seedPair(repo *MockRepository) (*models.Student, *models.Mentor) {
	student := &models.Student{
		ID:             "student-1",
		FirstName:      "Amina",
		LastName:       "Hassan",
		Email:          "amina@example.com",
		EducationLevel: models.EducationHighSchool,
		Languages:      []string{"Swedish", "English"},
		Subjects:       []string{"Math"},
		Interests:      []string{"Chess", "Robotics"},
		MeetingPref:    models.MeetingEither,
	}
	mentor := &models.Mentor{
		ID:          "mentor-1",
		FirstName:   "Erik",
		LastName:    "Lund",
		Email:       "erik@example.com",
		Languages:   []string{"Swedish"},
		Skills:      []string{"Chess"},
		AgePref:     models.AgePrefAny,
		MeetingPref: models.MeetingEither,
		MaxStudents: 3,
	}
	repo.students[student.ID] = student
	repo.mentors[mentor.ID] = mentor
	return student, mentor
}

// ===== TESTS =====

func TestInviteService_CreateAndConfirmFlow(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, publisher := newTestInviteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: "student-1",
		MentorID:  "mentor-1",
		CreatedBy: models.ActorFacilitator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.InviteProposed {
		t.Fatalf("expected proposed, got %s", created.Status)
	}
	if created.Score <= 0 {
		t.Errorf("expected frozen compatibility score, got %d", created.Score)
	}

	// Student accepts.
	after, err := svc.Act(ctx, created.ID, models.ActorStudent, "student-1", models.ActionAccept)
	if err != nil {
		t.Fatalf("student accept: %v", err)
	}
	if after.Status != models.InviteAcceptedByStudent {
		t.Fatalf("expected accepted_by_student, got %s", after.Status)
	}
	if !after.AcceptedByStudent || after.AcceptedByMentor {
		t.Errorf("acceptance flags wrong: student=%v mentor=%v", after.AcceptedByStudent, after.AcceptedByMentor)
	}

	// Approval before mutual acceptance is illegal.
	if _, err := svc.Act(ctx, created.ID, models.ActorFacilitator, "fac-1", models.ActionApprove); !IsIllegalTransition(err) {
		t.Fatalf("expected illegal transition for early approval, got %v", err)
	}

	publisher.ClearEvents()

	// Mentor accepts second; the pair is complete and the match confirms.
	after, err = svc.Act(ctx, created.ID, models.ActorMentor, "mentor-1", models.ActionAccept)
	if err != nil {
		t.Fatalf("mentor accept: %v", err)
	}
	if !after.MutuallyAccepted() {
		t.Fatal("expected mutual acceptance")
	}
	if after.Status != models.InviteConfirmed {
		t.Fatalf("expected confirmed, got %s", after.Status)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.EventMatchConfirmed {
		t.Errorf("expected %s, got %s", events.EventMatchConfirmed, published[0].Type)
	}

	// Confirmed is terminal.
	if _, err := svc.Act(ctx, created.ID, models.ActorStudent, "student-1", models.ActionReject); !IsIllegalTransition(err) {
		t.Fatalf("expected illegal transition on terminal invite, got %v", err)
	}
}

func TestInviteService_SecondAcceptConfirms(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, publisher := newTestInviteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: "student-1",
		MentorID:  "mentor-1",
		CreatedBy: models.ActorMentor,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	after, err := svc.Act(ctx, created.ID, models.ActorMentor, "mentor-1", models.ActionAccept)
	if err != nil {
		t.Fatalf("mentor accept: %v", err)
	}
	if after.Status != models.InviteAcceptedByMentor {
		t.Fatalf("expected accepted_by_mentor, got %s", after.Status)
	}

	publisher.ClearEvents()

	after, err = svc.Act(ctx, created.ID, models.ActorStudent, "student-1", models.ActionAccept)
	if err != nil {
		t.Fatalf("student accept: %v", err)
	}
	if after.Status != models.InviteConfirmed {
		t.Fatalf("student completing the pair should confirm, got %s", after.Status)
	}
	if !after.AcceptedByStudent || !after.AcceptedByMentor {
		t.Errorf("acceptance flags wrong: student=%v mentor=%v", after.AcceptedByStudent, after.AcceptedByMentor)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventMatchConfirmed {
		t.Fatalf("expected a single %s event, got %+v", events.EventMatchConfirmed, published)
	}
}

func TestInviteService_DuplicateCreate(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, _ := newTestInviteService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: "student-1",
		MentorID:  "mentor-1",
		CreatedBy: models.ActorStudent,
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: "student-1",
		MentorID:  "mentor-1",
		CreatedBy: models.ActorMentor,
	})
	if !errors.Is(err, ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite, got %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Fatal("duplicate create should surface the existing invite")
	}
}

func TestInviteService_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		actor models.InviteActor
		want  models.InviteStatus
	}{
		{"student rejects", models.ActorStudent, models.InviteRejectedByStudent},
		{"mentor rejects", models.ActorMentor, models.InviteRejectedByMentor},
		{"facilitator rejects", models.ActorFacilitator, models.InviteRejectedByFacilitator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockRepository()
			seedPair(repo)
			svc, _ := newTestInviteService(repo)
			ctx := context.Background()

			created, err := svc.Create(ctx, &InviteCreateRequest{
				StudentID: "student-1",
				MentorID:  "mentor-1",
				CreatedBy: models.ActorFacilitator,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			actorID := ""
			switch tt.actor {
			case models.ActorStudent:
				actorID = "student-1"
			case models.ActorMentor:
				actorID = "mentor-1"
			case models.ActorFacilitator:
				actorID = "fac-1"
			}

			after, err := svc.Act(ctx, created.ID, tt.actor, actorID, models.ActionReject)
			if err != nil {
				t.Fatalf("reject: %v", err)
			}
			if after.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, after.Status)
			}
			if !after.Status.IsTerminal() {
				t.Error("rejection should be terminal")
			}
		})
	}
}

func TestInviteService_ActorAuthorization(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, _ := newTestInviteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: "student-1",
		MentorID:  "mentor-1",
		CreatedBy: models.ActorFacilitator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A different student cannot act on this invite.
	_, err = svc.Act(ctx, created.ID, models.ActorStudent, "student-99", models.ActionAccept)
	var pe *PermissionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PermissionError, got %v", err)
	}

	// Students cannot approve.
	_, err = svc.Act(ctx, created.ID, models.ActorStudent, "student-1", models.ActionApprove)
	if !errors.As(err, &pe) {
		t.Fatalf("expected PermissionError for student approve, got %v", err)
	}
}

func TestInviteService_CapacityGate(t *testing.T) {
	repo := NewMockRepository()
	student, mentor := seedPair(repo)
	mentor.MaxStudents = 1

	// The mentor already has one confirmed relationship.
	repo.invites["existing"] = &models.Invite{
		ID:        "existing",
		StudentID: "student-other",
		MentorID:  mentor.ID,
		Status:    models.InviteConfirmed,
	}

	svc, _ := newTestInviteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &InviteCreateRequest{
		StudentID: student.ID,
		MentorID:  mentor.ID,
		CreatedBy: models.ActorFacilitator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Act(ctx, created.ID, models.ActorStudent, student.ID, models.ActionAccept); err != nil {
		t.Fatalf("student accept: %v", err)
	}

	// The completing accept would confirm the match, so it hits the gate.
	_, err = svc.Act(ctx, created.ID, models.ActorMentor, mentor.ID, models.ActionAccept)
	if !errors.Is(err, ErrMentorAtCapacity) {
		t.Fatalf("expected ErrMentorAtCapacity, got %v", err)
	}
}

func TestInviteService_ExpireStale(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, publisher := newTestInviteService(repo)
	ctx := context.Background()

	old := time.Now().Add(-40 * 24 * time.Hour)
	repo.invites["stale"] = &models.Invite{
		ID: "stale", StudentID: "student-1", MentorID: "mentor-1",
		Status: models.InviteProposed, CreatedAt: old, UpdatedAt: old,
	}
	repo.invites["fresh"] = &models.Invite{
		ID: "fresh", StudentID: "student-2", MentorID: "mentor-1",
		Status: models.InviteProposed, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	repo.invites["old-terminal"] = &models.Invite{
		ID: "old-terminal", StudentID: "student-3", MentorID: "mentor-1",
		Status: models.InviteRejectedByMentor, CreatedAt: old, UpdatedAt: old,
	}

	count, err := svc.ExpireStale(ctx, ExpiryWindow)
	if err != nil {
		t.Fatalf("ExpireStale: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired, got %d", count)
	}
	if repo.invites["stale"].Status != models.InviteExpired {
		t.Errorf("stale invite not expired: %s", repo.invites["stale"].Status)
	}
	if repo.invites["fresh"].Status != models.InviteProposed {
		t.Errorf("fresh invite should be untouched: %s", repo.invites["fresh"].Status)
	}
	if repo.invites["old-terminal"].Status != models.InviteRejectedByMentor {
		t.Errorf("terminal invite should be untouched: %s", repo.invites["old-terminal"].Status)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventInviteExpired {
		t.Errorf("expected one %s event, got %d events", events.EventInviteExpired, len(published))
	}
}

func TestInviteService_NeedsNudge(t *testing.T) {
	repo := NewMockRepository()
	seedPair(repo)
	svc, _ := newTestInviteService(repo)
	ctx := context.Background()

	idle := time.Now().Add(-3 * 24 * time.Hour)
	repo.invites["idle"] = &models.Invite{
		ID: "idle", StudentID: "student-1", MentorID: "mentor-1",
		Status: models.InviteProposed, CreatedAt: idle, UpdatedAt: idle,
	}

	got, err := svc.GetByID(ctx, "idle")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.NeedsNudge {
		t.Error("invite idle for 3 days should need a nudge")
	}
}
