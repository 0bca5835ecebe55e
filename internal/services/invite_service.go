package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/events"
	"github.com/guided-platform/matching-service/internal/matching"
	"github.com/guided-platform/matching-service/internal/metrics"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/validator"
)

// NudgeThreshold is how long an invite may sit untouched before the
// facilitator UI flags it for a reminder.
const NudgeThreshold = 48 * time.Hour

// ExpiryWindow is how long a non-terminal invite survives without movement
// before the sweep expires it.
const ExpiryWindow = 30 * 24 * time.Hour

type inviteService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewInviteService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) InviteService {
	return &inviteService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// Create proposes a pairing. The pair's compatibility is scored at creation
// time and frozen on the invite. A second proposal for the same pair returns
// the existing invite with ErrDuplicateInvite.
func (s *inviteService) Create(ctx context.Context, req *InviteCreateRequest) (*InviteResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateInviteCreate(req); len(errs) > 0 {
		return nil, errs
	}

	s.logger.Info("creating invite",
		"student_id", req.StudentID,
		"mentor_id", req.MentorID,
		"created_by", req.CreatedBy)

	student, err := s.repo.Student().GetByID(ctx, nil, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	mentor, err := s.repo.Mentor().GetByID(ctx, nil, req.MentorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to load mentor: %w", err)
	}

	score := matching.ScorePair(student, mentor, time.Now())

	invite := &models.Invite{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		MentorID:  req.MentorID,
		Score:     score.Score,
		Reasons:   score.Reasons,
		Status:    models.InviteProposed,
		CreatedBy: req.CreatedBy,
	}

	if err := s.repo.Invite().Create(ctx, nil, invite); err != nil {
		if repositories.IsDuplicateError(err) {
			existing, getErr := s.repo.Invite().GetByPair(ctx, nil, req.StudentID, req.MentorID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load existing invite: %w", getErr)
			}
			return s.toResponse(existing), ErrDuplicateInvite
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	metrics.InviteTransitionsTotal.WithLabelValues("create", string(invite.Status)).Inc()

	s.publishInviteEvent(ctx, events.EventInviteCreated, invite, req.CreatedBy)

	return s.toResponse(invite), nil
}

func (s *inviteService) GetByID(ctx context.Context, id string) (*InviteResponse, error) {
	invite, err := s.repo.Invite().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	return s.toResponse(invite), nil
}

func (s *inviteService) List(ctx context.Context, req *InviteListRequest) (*InviteListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	filters := repositories.InviteFilters{
		StudentID: req.StudentID,
		MentorID:  req.MentorID,
		Status:    req.Status,
		Pending:   req.Pending,
		Limit:     req.Limit,
		Offset:    req.Offset,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	invites, total, err := s.repo.Invite().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	responses := make([]*InviteResponse, 0, len(invites))
	for _, invite := range invites {
		responses = append(responses, s.toResponse(invite))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &InviteListResponse{
		Invites: responses,
		Total:   total,
		Page:    page,
		Size:    filters.Limit,
	}, nil
}

// Act applies one lifecycle action. The whole transition runs in a
// transaction so the capacity check and the status write are atomic.
func (s *inviteService) Act(ctx context.Context, id string, actor models.InviteActor, actorID string, action models.InviteAction) (*InviteResponse, error) {
	var result *models.Invite

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		invite, err := txRepo.Invite().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("failed to load invite: %w", err)
		}

		if err := s.authorizeActor(invite, actor, actorID, action); err != nil {
			return err
		}

		next, err := transition(invite, actor, action)
		if err != nil {
			return err
		}

		// Confirmation consumes a capacity slot; re-check inside the
		// transaction so two concurrent confirmations cannot overshoot.
		if next == models.InviteConfirmed {
			mentor, err := txRepo.Mentor().GetByID(ctx, nil, invite.MentorID)
			if err != nil {
				return fmt.Errorf("failed to load mentor: %w", err)
			}
			confirmed, err := txRepo.Mentor().ConfirmedCount(ctx, nil, invite.MentorID)
			if err != nil {
				return fmt.Errorf("failed to count confirmed invites: %w", err)
			}
			if confirmed >= mentor.MaxStudents {
				return ErrMentorAtCapacity
			}
		}

		invite.Status = next
		invite.UpdatedAt = time.Now()

		if err := txRepo.Invite().Update(ctx, nil, invite); err != nil {
			return fmt.Errorf("failed to update invite: %w", err)
		}

		result = invite
		return nil
	})

	if err != nil {
		return nil, err
	}

	metrics.InviteTransitionsTotal.WithLabelValues(string(action), string(result.Status)).Inc()

	s.logger.Info("invite transition applied",
		"invite_id", id,
		"actor", actor,
		"action", action,
		"status", result.Status)

	switch {
	case result.Status == models.InviteConfirmed:
		s.publishMatchConfirmed(ctx, result)
	case result.Status.IsRejected():
		s.publishInviteEvent(ctx, events.EventInviteRejected, result, actor)
	default:
		s.publishInviteEvent(ctx, events.EventInviteAccepted, result, actor)
	}

	return s.toResponse(result), nil
}

// ExpireStale sweeps non-terminal invites that have not moved within the
// window. Runs from the cron job; actor is the system.
func (s *inviteService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	stale, err := s.repo.Invite().ListStale(ctx, nil, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale invites: %w", err)
	}

	expired := 0
	for _, invite := range stale {
		invite.Status = models.InviteExpired
		invite.UpdatedAt = time.Now()
		if err := s.repo.Invite().Update(ctx, nil, invite); err != nil {
			s.logger.Error("failed to expire invite", "invite_id", invite.ID, "error", err)
			continue
		}
		expired++
		metrics.InviteTransitionsTotal.WithLabelValues("expire", string(models.InviteExpired)).Inc()
		s.publishInviteEvent(ctx, events.EventInviteExpired, invite, models.ActorSystem)
	}

	if expired > 0 {
		s.logger.Info("expired stale invites", "count", expired, "cutoff", cutoff)
	}

	return expired, nil
}

// authorizeActor checks that the acting account belongs to the invite, and
// that the action is available to that role at all.
func (s *inviteService) authorizeActor(invite *models.Invite, actor models.InviteActor, actorID string, action models.InviteAction) error {
	switch actor {
	case models.ActorStudent:
		if actorID != "" && actorID != invite.StudentID {
			return NewPermissionError(actorID, invite.ID, "invite", string(action), "not a party to this invite")
		}
		if action == models.ActionApprove {
			return NewPermissionError(actorID, invite.ID, "invite", string(action), "only facilitators approve")
		}
	case models.ActorMentor:
		if actorID != "" && actorID != invite.MentorID {
			return NewPermissionError(actorID, invite.ID, "invite", string(action), "not a party to this invite")
		}
		if action == models.ActionApprove {
			return NewPermissionError(actorID, invite.ID, "invite", string(action), "only facilitators approve")
		}
	case models.ActorFacilitator:
		// Facilitators may approve or reject any invite.
		if action == models.ActionAccept {
			return NewPermissionError(actorID, invite.ID, "invite", string(action), "facilitators approve, not accept")
		}
	default:
		return NewPermissionError(actorID, invite.ID, "invite", string(action), "unknown actor role")
	}
	return nil
}

// transition computes the next status for an action, mutating the acceptance
// flags on the invite. Terminal statuses admit no further transitions.
func transition(invite *models.Invite, actor models.InviteActor, action models.InviteAction) (models.InviteStatus, error) {
	if invite.Status.IsTerminal() {
		return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
	}

	switch action {
	case models.ActionReject:
		switch actor {
		case models.ActorStudent:
			return models.InviteRejectedByStudent, nil
		case models.ActorMentor:
			return models.InviteRejectedByMentor, nil
		case models.ActorFacilitator:
			return models.InviteRejectedByFacilitator, nil
		}

	case models.ActionAccept:
		switch actor {
		case models.ActorStudent:
			if invite.AcceptedByStudent {
				return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
			}
			invite.AcceptedByStudent = true
		case models.ActorMentor:
			if invite.AcceptedByMentor {
				return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
			}
			invite.AcceptedByMentor = true
		default:
			return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
		}
		// The second accept completes the pair and confirms the match;
		// until then the status records who has moved.
		if invite.MutuallyAccepted() {
			return models.InviteConfirmed, nil
		}
		if actor == models.ActorStudent {
			return models.InviteAcceptedByStudent, nil
		}
		return models.InviteAcceptedByMentor, nil

	case models.ActionApprove:
		if actor != models.ActorFacilitator {
			return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
		}
		if !invite.MutuallyAccepted() {
			return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
		}
		return models.InviteConfirmed, nil
	}

	return "", NewIllegalTransitionError(invite.ID, invite.Status, actor, action)
}

func (s *inviteService) toResponse(invite *models.Invite) *InviteResponse {
	return &InviteResponse{
		Invite:     invite,
		NeedsNudge: invite.Status.IsPending() && invite.IdleSince(time.Now()) > NudgeThreshold,
	}
}

func (s *inviteService) publishInviteEvent(ctx context.Context, eventType string, invite *models.Invite, actor models.InviteActor) {
	if s.eventPublisher == nil {
		return
	}
	err := s.eventPublisher.Publish(ctx, eventType, events.InviteEvent{
		InviteID:  invite.ID,
		StudentID: invite.StudentID,
		MentorID:  invite.MentorID,
		Status:    string(invite.Status),
		Actor:     string(actor),
		Score:     invite.Score,
	})
	if err != nil {
		s.logger.Error("failed to publish invite event",
			"event_type", eventType,
			"invite_id", invite.ID,
			"error", err)
	}
}

func (s *inviteService) publishMatchConfirmed(ctx context.Context, invite *models.Invite) {
	if s.eventPublisher == nil {
		return
	}
	payload := events.MatchConfirmedEvent{
		InviteID:  invite.ID,
		StudentID: invite.StudentID,
		MentorID:  invite.MentorID,
		Score:     invite.Score,
		Reasons:   invite.Reasons,
	}
	if invite.Student.Email != "" {
		payload.StudentEmail = invite.Student.Email
	}
	if invite.Mentor.Email != "" {
		payload.MentorEmail = invite.Mentor.Email
	}
	if err := s.eventPublisher.Publish(ctx, events.EventMatchConfirmed, payload); err != nil {
		s.logger.Error("failed to publish match confirmation",
			"invite_id", invite.ID,
			"error", err)
	}
}
