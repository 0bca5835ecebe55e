package validator

import (
	"github.com/guided-platform/matching-service/internal/models"
)

// StudentUpsertRequest carries a student profile create or update
type StudentUpsertRequest struct {
	ID             string                `json:"id" validate:"required,max=36"`
	FirstName      string                `json:"first_name" validate:"required,max=100"`
	LastName       string                `json:"last_name" validate:"required,max=100"`
	Email          string                `json:"email" validate:"required,email"`
	EducationLevel models.EducationLevel `json:"education_level" validate:"required,education_level"`
	City           string                `json:"city" validate:"omitempty,max=100"`
	Postcode       string                `json:"postcode" validate:"omitempty,max=10"`
	Languages      []string              `json:"languages" validate:"omitempty,max=20,dive,max=50"`
	Subjects       []string              `json:"subjects" validate:"omitempty,max=30,dive,max=100"`
	Interests      []string              `json:"interests" validate:"omitempty,max=30,dive,max=100"`
	Availability   []string              `json:"availability" validate:"omitempty,max=60,dive,iso_date"`
	Bio            *string               `json:"bio" validate:"omitempty,max=2000"`
	Goals          *string               `json:"goals" validate:"omitempty,max=2000"`
	MeetingPref    models.MeetingPref    `json:"meeting_pref" validate:"omitempty,meeting_pref"`
}

// MentorUpsertRequest carries a mentor profile create or update
type MentorUpsertRequest struct {
	ID           string             `json:"id" validate:"required,max=36"`
	FirstName    string             `json:"first_name" validate:"required,max=100"`
	LastName     string             `json:"last_name" validate:"required,max=100"`
	Email        string             `json:"email" validate:"required,email"`
	Role         string             `json:"role" validate:"omitempty,max=100"`
	Employer     string             `json:"employer" validate:"omitempty,max=100"`
	City         string             `json:"city" validate:"omitempty,max=100"`
	Postcode     string             `json:"postcode" validate:"omitempty,max=10"`
	Languages    []string           `json:"languages" validate:"omitempty,max=20,dive,max=50"`
	Skills       []string           `json:"skills" validate:"omitempty,max=30,dive,max=100"`
	Hobbies      []string           `json:"hobbies" validate:"omitempty,max=30,dive,max=100"`
	Availability []string           `json:"availability" validate:"omitempty,max=60,dive,iso_date"`
	Bio          *string            `json:"bio" validate:"omitempty,max=2000"`
	AgePref      models.AgePref     `json:"age_pref" validate:"omitempty,age_pref"`
	MeetingPref  models.MeetingPref `json:"meeting_pref" validate:"omitempty,meeting_pref"`
	MaxStudents  int                `json:"max_students" validate:"omitempty,min=1,max=20"`
}

// InviteCreateRequest proposes a pairing between a student and a mentor
type InviteCreateRequest struct {
	StudentID string             `json:"student_id" validate:"required,max=36"`
	MentorID  string             `json:"mentor_id" validate:"required,max=36"`
	CreatedBy models.InviteActor `json:"created_by" validate:"required,invite_actor"`
}

// InviteListRequest filters the invite listing
type InviteListRequest struct {
	StudentID *string              `form:"student_id" validate:"omitempty,max=36"`
	MentorID  *string              `form:"mentor_id" validate:"omitempty,max=36"`
	Status    *models.InviteStatus `form:"status" validate:"omitempty,invite_status"`
	Pending   *bool                `form:"pending"`
	Limit     int                  `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset    int                  `form:"offset" validate:"omitempty,min=0"`
	SortBy    string               `form:"sort_by" validate:"omitempty,oneof=created_at updated_at status"`
	SortOrder string               `form:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// RankMentorsRequest asks for a ranked mentor list for one student
type RankMentorsRequest struct {
	StudentID string `form:"student_id" validate:"required,max=36"`
	MinScore  int    `form:"min_score" validate:"omitempty,min=0,max=100"`
	Limit     int    `form:"limit" validate:"omitempty,min=1,max=500"`
}

// RankStudentsRequest asks for a ranked student list for one mentor
type RankStudentsRequest struct {
	MentorID string `form:"mentor_id" validate:"required,max=36"`
	MinScore int    `form:"min_score" validate:"omitempty,min=0,max=100"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=500"`
}
