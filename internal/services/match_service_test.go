package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/validator"
)

func newTestMatchService(repo *MockRepository) *matchService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return &matchService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
	}
}

func seedMentor(repo *MockRepository, id string, languages, skills []string, maxStudents int) *models.Mentor {
	mentor := &models.Mentor{
		ID:          id,
		FirstName:   "Mentor",
		LastName:    id,
		Email:       id + "@example.com",
		Languages:   languages,
		Skills:      skills,
		AgePref:     models.AgePrefAny,
		MeetingPref: models.MeetingEither,
		MaxStudents: maxStudents,
	}
	repo.mentors[id] = mentor
	return mentor
}

func TestMatchService_RankMentorsForStudent(t *testing.T) {
	repo := NewMockRepository()
	student, _ := seedPair(repo)
	seedMentor(repo, "mentor-2", []string{"Swedish"}, []string{"Chess", "Robotics"}, 3)
	seedMentor(repo, "mentor-3", []string{"French"}, []string{"Cooking"}, 3)

	svc := newTestMatchService(repo)

	resp, err := svc.RankMentorsForStudent(context.Background(), &RankMentorsRequest{
		StudentID: student.ID,
	})
	if err != nil {
		t.Fatalf("RankMentorsForStudent: %v", err)
	}

	// Discovery is unfiltered: the hard-gated mentor-3 still appears, at zero.
	if resp.Total != 3 {
		t.Fatalf("expected 3 candidates, got %d", resp.Total)
	}
	if resp.Strategy != "weighted" {
		t.Errorf("expected weighted strategy, got %s", resp.Strategy)
	}

	// mentor-2 matches both interests so it outranks mentor-1.
	if resp.Matches[0].Mentor.ID != "mentor-2" {
		t.Errorf("expected mentor-2 first, got %s", resp.Matches[0].Mentor.ID)
	}
	for i := 1; i < len(resp.Matches); i++ {
		if resp.Matches[i].Score > resp.Matches[i-1].Score {
			t.Fatalf("ranking not sorted at index %d", i)
		}
	}
	last := resp.Matches[len(resp.Matches)-1]
	if last.Mentor.ID != "mentor-3" || last.Score != 0 {
		t.Errorf("expected gated mentor-3 last with score 0, got %s score %d", last.Mentor.ID, last.Score)
	}
}

func TestMatchService_RejectedPairsExcluded(t *testing.T) {
	repo := NewMockRepository()
	student, mentor := seedPair(repo)
	seedMentor(repo, "mentor-2", []string{"Swedish"}, []string{"Chess"}, 3)

	repo.invites["rej"] = &models.Invite{
		ID:        "rej",
		StudentID: student.ID,
		MentorID:  mentor.ID,
		Status:    models.InviteRejectedByMentor,
	}

	svc := newTestMatchService(repo)

	resp, err := svc.RankMentorsForStudent(context.Background(), &RankMentorsRequest{
		StudentID: student.ID,
	})
	if err != nil {
		t.Fatalf("RankMentorsForStudent: %v", err)
	}
	for _, match := range resp.Matches {
		if match.Mentor.ID == mentor.ID {
			t.Fatal("rejected pair must not reappear in rankings")
		}
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 candidate after exclusion, got %d", resp.Total)
	}
}

func TestMatchService_RankStudentsForMentor(t *testing.T) {
	repo := NewMockRepository()
	_, mentor := seedPair(repo)
	repo.students["student-2"] = &models.Student{
		ID:             "student-2",
		FirstName:      "Noor",
		LastName:       "Ali",
		Email:          "noor@example.com",
		EducationLevel: models.EducationHighSchool,
		Languages:      []string{"Arabic"},
		Interests:      []string{"Painting"},
		MeetingPref:    models.MeetingEither,
	}

	svc := newTestMatchService(repo)

	resp, err := svc.RankStudentsForMentor(context.Background(), &RankStudentsRequest{
		MentorID: mentor.ID,
	})
	if err != nil {
		t.Fatalf("RankStudentsForMentor: %v", err)
	}
	if resp.Strategy != "reverse" {
		t.Errorf("expected reverse strategy, got %s", resp.Strategy)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 candidates, got %d", resp.Total)
	}
	// student-1 shares a language with the mentor; student-2 does not and
	// scores zero under the reverse gate.
	if resp.Matches[0].Student.ID != "student-1" {
		t.Errorf("expected student-1 first, got %s", resp.Matches[0].Student.ID)
	}
}

func TestMatchService_Shortlist(t *testing.T) {
	repo := NewMockRepository()
	student, _ := seedPair(repo)
	weak := seedMentor(repo, "mentor-weak", []string{"Swedish"}, []string{"Knitting"}, 3)
	weak.MeetingPref = models.MeetingInPerson

	full := seedMentor(repo, "mentor-full", []string{"Swedish"}, []string{"Chess"}, 1)
	repo.invites["full-conf"] = &models.Invite{
		ID:        "full-conf",
		StudentID: "someone-else",
		MentorID:  full.ID,
		Status:    models.InviteConfirmed,
	}

	svc := newTestMatchService(repo)

	resp, err := svc.Shortlist(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("Shortlist: %v", err)
	}

	for _, match := range resp.Matches {
		if match.Score < 30 {
			t.Errorf("shortlist entry below floor: %s scored %d", match.Mentor.ID, match.Score)
		}
		if match.Mentor.ID == full.ID {
			t.Error("capacity-exhausted mentor must not be shortlisted")
		}
	}
}

func TestMatchService_UnknownStudent(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestMatchService(repo)

	_, err := svc.RankMentorsForStudent(context.Background(), &RankMentorsRequest{
		StudentID: "ghost",
	})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}
