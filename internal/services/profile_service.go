package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// UpsertStudent creates or replaces a student profile. Missing city, postcode
// and meeting preference fall back to the platform defaults.
func (s *profileService) UpsertStudent(ctx context.Context, req *StudentUpsertRequest) (*models.Student, error) {
	if errs := s.validator.GetBusinessValidator().ValidateStudentUpsert(req); len(errs) > 0 {
		return nil, errs
	}

	student := &models.Student{
		ID:             req.ID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		EducationLevel: req.EducationLevel,
		City:           req.City,
		Postcode:       req.Postcode,
		Languages:      req.Languages,
		Subjects:       req.Subjects,
		Interests:      req.Interests,
		Availability:   req.Availability,
		Bio:            req.Bio,
		Goals:          req.Goals,
		MeetingPref:    req.MeetingPref,
		UpdatedAt:      time.Now(),
	}
	student.ApplyDefaults()

	exists, err := s.repo.Student().Exists(ctx, nil, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}

	if exists {
		if err := s.repo.Student().Update(ctx, nil, student); err != nil {
			return nil, fmt.Errorf("failed to update student: %w", err)
		}
		s.logger.Info("student profile updated", "student_id", req.ID)
	} else {
		if err := s.repo.Student().Create(ctx, nil, student); err != nil {
			return nil, fmt.Errorf("failed to create student: %w", err)
		}
		s.logger.Info("student profile created", "student_id", req.ID)
	}

	return s.repo.Student().GetByID(ctx, nil, req.ID)
}

func (s *profileService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return student, nil
}

// UpsertMentor creates or replaces a mentor profile. Capacity cannot drop
// below the confirmed relationships the mentor already holds.
func (s *profileService) UpsertMentor(ctx context.Context, req *MentorUpsertRequest) (*models.Mentor, error) {
	confirmed := 0
	exists, err := s.repo.Mentor().Exists(ctx, nil, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mentor existence: %w", err)
	}
	if exists {
		confirmed, err = s.repo.Mentor().ConfirmedCount(ctx, nil, req.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count confirmed invites: %w", err)
		}
	}

	if errs := s.validator.GetBusinessValidator().ValidateMentorUpsert(req, confirmed); len(errs) > 0 {
		return nil, errs
	}

	mentor := &models.Mentor{
		ID:           req.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         req.Role,
		Employer:     req.Employer,
		City:         req.City,
		Postcode:     req.Postcode,
		Languages:    req.Languages,
		Skills:       req.Skills,
		Hobbies:      req.Hobbies,
		Availability: req.Availability,
		Bio:          req.Bio,
		AgePref:      req.AgePref,
		MeetingPref:  req.MeetingPref,
		MaxStudents:  req.MaxStudents,
		UpdatedAt:    time.Now(),
	}
	mentor.ApplyDefaults()

	if exists {
		if err := s.repo.Mentor().Update(ctx, nil, mentor); err != nil {
			return nil, fmt.Errorf("failed to update mentor: %w", err)
		}
		s.logger.Info("mentor profile updated", "mentor_id", req.ID)
	} else {
		if err := s.repo.Mentor().Create(ctx, nil, mentor); err != nil {
			return nil, fmt.Errorf("failed to create mentor: %w", err)
		}
		s.logger.Info("mentor profile created", "mentor_id", req.ID)
	}

	return s.repo.Mentor().GetByID(ctx, nil, req.ID)
}

func (s *profileService) GetMentor(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, err := s.repo.Mentor().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to load mentor: %w", err)
	}
	return mentor, nil
}
