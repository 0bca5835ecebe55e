package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/cache"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
)

type InvitePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewInvitePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.InviteRepository {
	return &InvitePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (i *InvitePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return i.db
}

// Create inserts a new invite. A unique index on (student_id, mentor_id) makes
// duplicate proposals surface as repositories.ErrDuplicateKey so callers can
// recover without losing the existing invite.
func (i *InvitePostgreSQL) Create(ctx context.Context, tx *gorm.DB, invite *models.Invite) error {
	if err := i.getDB(tx).WithContext(ctx).Create(invite).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return fmt.Errorf("invite for student %s and mentor %s: %w",
				invite.StudentID, invite.MentorID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}

	cache.InvalidateInviteCache(ctx, i.cacheManager, invite.ID, invite.StudentID, invite.MentorID)

	return nil
}

// GetByID retrieves an invite by ID with caching
func (i *InvitePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invite, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var invite models.Invite

	err := i.cacheManager.Invite.CacheOrExecute(ctx, cacheKey, &invite, cache.InviteCacheConfig.TTL, func() (interface{}, error) {
		var dbInvite models.Invite
		err := i.getDB(tx).WithContext(ctx).
			Preload("Student").
			Preload("Mentor").
			Where("id = ?", id).
			First(&dbInvite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("invite %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get invite: %w", err)
		}
		return &dbInvite, nil
	})

	if err != nil {
		return nil, err
	}

	return &invite, nil
}

// GetByPair retrieves the invite between a student and a mentor, if any
func (i *InvitePostgreSQL) GetByPair(ctx context.Context, tx *gorm.DB, studentID, mentorID string) (*models.Invite, error) {
	var invite models.Invite
	err := i.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND mentor_id = ?", studentID, mentorID).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invite for student %s and mentor %s: %w",
				studentID, mentorID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invite by pair: %w", err)
	}
	return &invite, nil
}

// Update persists lifecycle changes and invalidates the invite's cache entries
func (i *InvitePostgreSQL) Update(ctx context.Context, tx *gorm.DB, invite *models.Invite) error {
	result := i.getDB(tx).WithContext(ctx).
		Model(&models.Invite{}).
		Where("id = ?", invite.ID).
		Updates(map[string]interface{}{
			"status":              invite.Status,
			"accepted_by_student": invite.AcceptedByStudent,
			"accepted_by_mentor":  invite.AcceptedByMentor,
			"updated_at":          invite.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("invite %s: %w", invite.ID, repositories.ErrNotFound)
	}

	cache.InvalidateInviteCache(ctx, i.cacheManager, invite.ID, invite.StudentID, invite.MentorID)

	return nil
}

// List retrieves invites matching the filters with a total count
func (i *InvitePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.InviteFilters) ([]*models.Invite, int64, error) {
	query := i.getDB(tx).WithContext(ctx).Model(&models.Invite{})
	query = i.helpers.ApplyInviteFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invites: %w", err)
	}

	query = i.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var invites []*models.Invite
	if err := query.Preload("Student").Preload("Mentor").Find(&invites).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list invites: %w", err)
	}

	return invites, total, nil
}

// RejectedMentorIDs returns the mentors a student has a rejected invite with
func (i *InvitePostgreSQL) RejectedMentorIDs(ctx context.Context, tx *gorm.DB, studentID string) ([]string, error) {
	var ids []string
	err := i.getDB(tx).WithContext(ctx).
		Model(&models.Invite{}).
		Where("student_id = ? AND status IN ?", studentID, rejectedStatuses()).
		Pluck("mentor_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rejected mentors: %w", err)
	}
	return ids, nil
}

// RejectedStudentIDs returns the students a mentor has a rejected invite with
func (i *InvitePostgreSQL) RejectedStudentIDs(ctx context.Context, tx *gorm.DB, mentorID string) ([]string, error) {
	var ids []string
	err := i.getDB(tx).WithContext(ctx).
		Model(&models.Invite{}).
		Where("mentor_id = ? AND status IN ?", mentorID, rejectedStatuses()).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rejected students: %w", err)
	}
	return ids, nil
}

// ListStale returns non-terminal invites untouched since the cutoff
func (i *InvitePostgreSQL) ListStale(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.Invite, error) {
	var invites []*models.Invite
	err := i.getDB(tx).WithContext(ctx).
		Where("status IN ?", []models.InviteStatus{
			models.InviteProposed,
			models.InviteAcceptedByStudent,
			models.InviteAcceptedByMentor,
		}).
		Where("updated_at < ?", cutoff).
		Find(&invites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale invites: %w", err)
	}
	return invites, nil
}

func rejectedStatuses() []models.InviteStatus {
	return []models.InviteStatus{
		models.InviteRejectedByStudent,
		models.InviteRejectedByMentor,
		models.InviteRejectedByFacilitator,
	}
}
