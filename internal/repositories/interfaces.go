package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/guided-platform/matching-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	EducationLevel *models.EducationLevel `json:"education_level"`
	City           *string                `json:"city"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	SortBy         string                 `json:"sort_by"`    // "created_at", "last_name"
	SortOrder      string                 `json:"sort_order"` // "asc", "desc"
}

type MentorFilters struct {
	AgePref     *models.AgePref `json:"age_pref"`
	City        *string         `json:"city"`
	HasCapacity *bool           `json:"has_capacity"`
	Limit       int             `json:"limit"`
	Offset      int             `json:"offset"`
	SortBy      string          `json:"sort_by"`
	SortOrder   string          `json:"sort_order"`
}

type InviteFilters struct {
	StudentID *string              `json:"student_id"`
	MentorID  *string              `json:"mentor_id"`
	Status    *models.InviteStatus `json:"status"`
	// Pending selects the three non-terminal statuses in one query.
	Pending   *bool      `json:"pending"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// ===== REPOSITORY INTERFACES =====

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

type MentorRepository interface {
	Create(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Mentor, error)
	Update(ctx context.Context, tx *gorm.DB, mentor *models.Mentor) error
	List(ctx context.Context, tx *gorm.DB, filters MentorFilters) ([]*models.Mentor, int64, error)
	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	// ConfirmedCount returns the number of confirmed invites held by the mentor.
	ConfirmedCount(ctx context.Context, tx *gorm.DB, mentorID string) (int, error)
}

type InviteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, invite *models.Invite) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invite, error)
	GetByPair(ctx context.Context, tx *gorm.DB, studentID, mentorID string) (*models.Invite, error)
	Update(ctx context.Context, tx *gorm.DB, invite *models.Invite) error
	List(ctx context.Context, tx *gorm.DB, filters InviteFilters) ([]*models.Invite, int64, error)
	// RejectedMentorIDs returns mentors the student has a rejected invite
	// with; these are excluded from future rankings for that student.
	RejectedMentorIDs(ctx context.Context, tx *gorm.DB, studentID string) ([]string, error)
	// RejectedStudentIDs is the mentor-side counterpart.
	RejectedStudentIDs(ctx context.Context, tx *gorm.DB, mentorID string) ([]string, error)
	// ListStale returns non-terminal invites whose last update is older than
	// the cutoff. Used by the expiry sweep.
	ListStale(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.Invite, error)
}

// UserRepository resolves accounts from the identity provider (read-only for
// the matching service).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}
