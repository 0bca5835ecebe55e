package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/cache"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
)

type MentorPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewMentorPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.MentorRepository {
	return &MentorPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (m *MentorPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return m.db
}

// Create creates a new mentor profile and invalidates list caches
func (m *MentorPostgreSQL) Create(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error {
	mentor.ApplyDefaults()
	if err := m.getDB(tx).WithContext(ctx).Create(mentor).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return fmt.Errorf("mentor %s already exists: %w", mentor.ID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, m.cacheManager.Mentor, "list:*")

	return nil
}

// GetByID retrieves a mentor by ID with caching. The confirmed invite count is
// loaded alongside so capacity checks don't need a second round trip.
func (m *MentorPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Mentor, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var mentor models.Mentor

	err := m.cacheManager.Mentor.CacheOrExecute(ctx, cacheKey, &mentor, cache.MentorCacheConfig.TTL, func() (interface{}, error) {
		var dbMentor models.Mentor
		err := m.getDB(tx).WithContext(ctx).
			Where("id = ?", id).
			First(&dbMentor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("mentor %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get mentor: %w", err)
		}

		confirmed, err := m.helpers.CountConfirmedInvites(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count confirmed invites: %w", err)
		}
		dbMentor.ConfirmedCount = int(confirmed)

		return &dbMentor, nil
	})

	if err != nil {
		return nil, err
	}

	return &mentor, nil
}

// Update persists profile changes and invalidates the mentor's cache entries
func (m *MentorPostgreSQL) Update(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error {
	result := m.getDB(tx).WithContext(ctx).
		Model(&models.Mentor{}).
		Where("id = ?", mentor.ID).
		Updates(map[string]interface{}{
			"first_name":   mentor.FirstName,
			"last_name":    mentor.LastName,
			"email":        mentor.Email,
			"role":         mentor.Role,
			"employer":     mentor.Employer,
			"city":         mentor.City,
			"postcode":     mentor.Postcode,
			"languages":    mentor.Languages,
			"skills":       mentor.Skills,
			"hobbies":      mentor.Hobbies,
			"availability": mentor.Availability,
			"bio":          mentor.Bio,
			"age_pref":     mentor.AgePref,
			"meeting_pref": mentor.MeetingPref,
			"max_students": mentor.MaxStudents,
			"updated_at":   mentor.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update mentor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("mentor %s: %w", mentor.ID, repositories.ErrNotFound)
	}

	cache.InvalidateMentorCache(ctx, m.cacheManager, mentor.ID)

	return nil
}

// List retrieves mentors matching the filters with a total count
func (m *MentorPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.MentorFilters) ([]*models.Mentor, int64, error) {
	query := m.getDB(tx).WithContext(ctx).Model(&models.Mentor{})
	query = m.helpers.ApplyMentorFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count mentors: %w", err)
	}

	query = m.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var mentors []*models.Mentor
	if err := query.Find(&mentors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list mentors: %w", err)
	}

	// HasCapacity needs the confirmed counts, which live on invites. One grouped
	// query covers the whole page.
	if len(mentors) > 0 {
		ids := make([]string, 0, len(mentors))
		for _, mentor := range mentors {
			ids = append(ids, mentor.ID)
		}

		type mentorCount struct {
			MentorID string
			Count    int
		}
		var counts []mentorCount
		err := m.getDB(tx).WithContext(ctx).
			Model(&models.Invite{}).
			Select("mentor_id, COUNT(*) as count").
			Where("mentor_id IN ? AND status = ?", ids, models.InviteConfirmed).
			Group("mentor_id").
			Find(&counts).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count confirmed invites: %w", err)
		}

		byMentor := make(map[string]int, len(counts))
		for _, c := range counts {
			byMentor[c.MentorID] = c.Count
		}
		for _, mentor := range mentors {
			mentor.ConfirmedCount = byMentor[mentor.ID]
		}

		if filters.HasCapacity != nil && *filters.HasCapacity {
			filtered := mentors[:0]
			for _, mentor := range mentors {
				if !mentor.AtCapacity() {
					filtered = append(filtered, mentor)
				}
			}
			mentors = filtered
		}
	}

	return mentors, total, nil
}

// Exists checks whether a mentor profile exists, with short-lived caching
func (m *MentorPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	cacheKey := fmt.Sprintf("mentor:%s", id)
	var exists bool

	err := m.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := m.getDB(tx).WithContext(ctx).
			Model(&models.Mentor{}).
			Where("id = ?", id).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check mentor existence: %w", err)
		}
		return count > 0, nil
	})

	return exists, err
}

// ConfirmedCount returns the number of confirmed invites held by the mentor
func (m *MentorPostgreSQL) ConfirmedCount(ctx context.Context, tx *gorm.DB, mentorID string) (int, error) {
	var count int64
	err := m.getDB(tx).WithContext(ctx).
		Model(&models.Invite{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.InviteConfirmed).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed invites: %w", err)
	}
	return int(count), nil
}
