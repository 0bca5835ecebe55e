package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountConfirmedInvites counts confirmed invites held by a mentor.
func (h *SharedHelpers) CountConfirmedInvites(ctx context.Context, mentorID string) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.InviteConfirmed).
		Count(&count).Error
	return count, err
}

// CountInvitesByStatus counts invites in a given status for a student.
func (h *SharedHelpers) CountInvitesByStatus(ctx context.Context, studentID string, status models.InviteStatus) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

// ApplyStudentFilters applies common filters to student queries
func (h *SharedHelpers) ApplyStudentFilters(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	if filters.EducationLevel != nil {
		query = query.Where("education_level = ?", *filters.EducationLevel)
	}
	if filters.City != nil {
		query = query.Where("city = ?", *filters.City)
	}
	return query
}

// ApplyMentorFilters applies common filters to mentor queries
func (h *SharedHelpers) ApplyMentorFilters(query *gorm.DB, filters repositories.MentorFilters) *gorm.DB {
	if filters.AgePref != nil {
		query = query.Where("age_pref = ?", *filters.AgePref)
	}
	if filters.City != nil {
		query = query.Where("city = ?", *filters.City)
	}
	return query
}

// ApplyInviteFilters applies common filters to invite queries
func (h *SharedHelpers) ApplyInviteFilters(query *gorm.DB, filters repositories.InviteFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.MentorID != nil {
		query = query.Where("mentor_id = ?", *filters.MentorID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Pending != nil && *filters.Pending {
		query = query.Where("status IN ?", []models.InviteStatus{
			models.InviteProposed,
			models.InviteAcceptedByStudent,
			models.InviteAcceptedByMentor,
		})
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"last_name":  true,
		"city":       true,
		"status":     true,
		"score":      true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// BulkUpdateInviteStatus updates status for multiple invites
func (h *SharedHelpers) BulkUpdateInviteStatus(ctx context.Context, ids []string, status models.InviteStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return h.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}
