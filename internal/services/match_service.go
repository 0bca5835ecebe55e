package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/matching"
	"github.com/guided-platform/matching-service/internal/metrics"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/validator"
)

type matchService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMatchService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) MatchService {
	return &matchService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// RankMentorsForStudent ranks every mentor for one student with the weighted
// strategy. Discovery is deliberately unfiltered: hard-gated and zero-score
// candidates stay in the list so the student sees the full pool.
func (s *matchService) RankMentorsForStudent(ctx context.Context, req *RankMentorsRequest) (*MentorMatchListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	strategy := matching.WeightedStrategy{}
	timer := time.Now()
	defer func() {
		metrics.RankDuration.WithLabelValues(strategy.Name()).Observe(time.Since(timer).Seconds())
	}()
	metrics.RankRequestsTotal.WithLabelValues(strategy.Name()).Inc()

	student, err := s.repo.Student().GetByID(ctx, nil, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	mentors, _, err := s.repo.Mentor().List(ctx, nil, repositories.MentorFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load mentors: %w", err)
	}

	// Rejected pairs are permanently out of each other's lists.
	mentors, err = s.withoutRejectedMentors(ctx, req.StudentID, mentors)
	if err != nil {
		return nil, err
	}

	metrics.CandidatesScored.WithLabelValues(strategy.Name()).Add(float64(len(mentors)))

	ranked := matching.RankMentors(strategy, student, mentors, matching.RankOptions{
		MinScore: req.MinScore,
	})

	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	s.logger.Debug("ranked mentors for student",
		"student_id", req.StudentID,
		"candidates", len(mentors),
		"returned", len(ranked))

	return toMentorMatchList(ranked, strategy.Name()), nil
}

// RankStudentsForMentor ranks students for one mentor with the reverse
// strategy, which favors language overlap and locality over subject fit.
func (s *matchService) RankStudentsForMentor(ctx context.Context, req *RankStudentsRequest) (*StudentMatchListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	strategy := matching.ReverseStrategy{}
	timer := time.Now()
	defer func() {
		metrics.RankDuration.WithLabelValues(strategy.Name()).Observe(time.Since(timer).Seconds())
	}()
	metrics.RankRequestsTotal.WithLabelValues(strategy.Name()).Inc()

	mentor, err := s.repo.Mentor().GetByID(ctx, nil, req.MentorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to load mentor: %w", err)
	}

	students, _, err := s.repo.Student().List(ctx, nil, repositories.StudentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	rejected, err := s.repo.Invite().RejectedStudentIDs(ctx, nil, req.MentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rejected students: %w", err)
	}
	students = filterStudents(students, rejected)

	metrics.CandidatesScored.WithLabelValues(strategy.Name()).Add(float64(len(students)))

	ranked := matching.RankStudents(strategy, mentor, students, matching.RankOptions{
		MinScore: req.MinScore,
	})

	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	return toStudentMatchList(ranked, strategy.Name()), nil
}

// Shortlist builds the facilitator's curated list: weighted ranking with the
// score floor applied, capacity-exhausted mentors dropped.
func (s *matchService) Shortlist(ctx context.Context, studentID string) (*MentorMatchListResponse, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	hasCapacity := true
	mentors, _, err := s.repo.Mentor().List(ctx, nil, repositories.MentorFilters{HasCapacity: &hasCapacity})
	if err != nil {
		return nil, fmt.Errorf("failed to load mentors: %w", err)
	}

	mentors, err = s.withoutRejectedMentors(ctx, studentID, mentors)
	if err != nil {
		return nil, err
	}

	strategy := matching.WeightedStrategy{}
	metrics.RankRequestsTotal.WithLabelValues(strategy.Name()).Inc()

	ranked := matching.RankMentors(strategy, student, mentors, matching.RankOptions{
		MinScore: matching.ShortlistFloor,
	})

	return toMentorMatchList(ranked, strategy.Name()), nil
}

func (s *matchService) withoutRejectedMentors(ctx context.Context, studentID string, mentors []*models.Mentor) ([]*models.Mentor, error) {
	rejected, err := s.repo.Invite().RejectedMentorIDs(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rejected mentors: %w", err)
	}
	if len(rejected) == 0 {
		return mentors, nil
	}

	excluded := make(map[string]bool, len(rejected))
	for _, id := range rejected {
		excluded[id] = true
	}

	kept := mentors[:0]
	for _, mentor := range mentors {
		if !excluded[mentor.ID] {
			kept = append(kept, mentor)
		}
	}
	return kept, nil
}

func filterStudents(students []*models.Student, rejected []string) []*models.Student {
	if len(rejected) == 0 {
		return students
	}
	excluded := make(map[string]bool, len(rejected))
	for _, id := range rejected {
		excluded[id] = true
	}
	kept := students[:0]
	for _, student := range students {
		if !excluded[student.ID] {
			kept = append(kept, student)
		}
	}
	return kept
}

func toMentorMatchList(ranked []matching.MentorMatch, strategy string) *MentorMatchListResponse {
	matches := make([]MentorMatchResponse, 0, len(ranked))
	for _, m := range ranked {
		matches = append(matches, MentorMatchResponse{
			Mentor:       m.Mentor,
			Score:        m.Score,
			Reasons:      m.Reasons,
			FirstOverlap: m.FirstOverlap,
		})
	}
	return &MentorMatchListResponse{
		Matches:  matches,
		Total:    len(matches),
		Strategy: strategy,
	}
}

func toStudentMatchList(ranked []matching.StudentMatch, strategy string) *StudentMatchListResponse {
	matches := make([]StudentMatchResponse, 0, len(ranked))
	for _, m := range ranked {
		matches = append(matches, StudentMatchResponse{
			Student:      m.Student,
			Score:        m.Score,
			Reasons:      m.Reasons,
			FirstOverlap: m.FirstOverlap,
		})
	}
	return &StudentMatchListResponse{
		Matches:  matches,
		Total:    len(matches),
		Strategy: strategy,
	}
}
