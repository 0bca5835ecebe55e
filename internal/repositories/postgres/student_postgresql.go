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

type StudentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (s *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create creates a new student profile and invalidates list caches
func (s *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	student.ApplyDefaults()
	if err := s.getDB(tx).WithContext(ctx).Create(student).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return fmt.Errorf("student %s already exists: %w", student.ID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Student, "list:*")

	return nil
}

// GetByID retrieves a student by ID with caching
func (s *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var student models.Student

	err := s.cacheManager.Student.CacheOrExecute(ctx, cacheKey, &student, cache.StudentCacheConfig.TTL, func() (interface{}, error) {
		var dbStudent models.Student
		err := s.getDB(tx).WithContext(ctx).
			Where("id = ?", id).
			First(&dbStudent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("student %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		return &dbStudent, nil
	})

	if err != nil {
		return nil, err
	}

	return &student, nil
}

// Update persists profile changes and invalidates the student's cache entries
func (s *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", student.ID).
		Updates(map[string]interface{}{
			"first_name":      student.FirstName,
			"last_name":       student.LastName,
			"email":           student.Email,
			"education_level": student.EducationLevel,
			"city":            student.City,
			"postcode":        student.Postcode,
			"languages":       student.Languages,
			"subjects":        student.Subjects,
			"interests":       student.Interests,
			"availability":    student.Availability,
			"bio":             student.Bio,
			"goals":           student.Goals,
			"meeting_pref":    student.MeetingPref,
			"updated_at":      student.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("student %s: %w", student.ID, repositories.ErrNotFound)
	}

	cache.InvalidateStudentCache(ctx, s.cacheManager, student.ID)

	return nil
}

// List retrieves students matching the filters with a total count
func (s *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.Student{})
	query = s.helpers.ApplyStudentFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var students []*models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	return students, total, nil
}

// Exists checks whether a student profile exists, with short-lived caching
func (s *StudentPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	cacheKey := fmt.Sprintf("student:%s", id)
	var exists bool

	err := s.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := s.getDB(tx).WithContext(ctx).
			Model(&models.Student{}).
			Where("id = ?", id).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check student existence: %w", err)
		}
		return count > 0, nil
	})

	return exists, err
}
