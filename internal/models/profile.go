package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EducationLevel string

const (
	EducationMiddleSchool EducationLevel = "middle_school"
	EducationHighSchool   EducationLevel = "high_school"
	EducationUniversity   EducationLevel = "university"
)

// Label returns the display form used in match reasons.
func (e EducationLevel) Label() string {
	switch e {
	case EducationMiddleSchool:
		return "Middle School"
	case EducationHighSchool:
		return "High School"
	case EducationUniversity:
		return "University"
	default:
		return string(e)
	}
}

type MeetingPref string

const (
	MeetingOnline   MeetingPref = "online"
	MeetingInPerson MeetingPref = "in_person"
	MeetingEither   MeetingPref = "either"
)

// AgePref is the mentor-side counterpart of EducationLevel, with the extra
// "any" value meaning the mentor takes students of every level.
type AgePref string

const (
	AgePrefMiddleSchool AgePref = "middle_school"
	AgePrefHighSchool   AgePref = "high_school"
	AgePrefUniversity   AgePref = "university"
	AgePrefAny          AgePref = "any"
)

// Defaults applied to optional location fields when a profile arrives without
// them. Profiles come from an onboarding flow that does not require these.
const (
	DefaultCity     = "Stockholm"
	DefaultPostcode = "11122"
)

type Student struct {
	ID        string `json:"id" gorm:"primaryKey;size:255"`
	FirstName string `json:"first_name" gorm:"not null;size:100"`
	LastName  string `json:"last_name" gorm:"not null;size:100"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	EducationLevel EducationLevel `json:"education_level" gorm:"not null;size:20;index" validate:"required,oneof=middle_school high_school university"`
	City           string         `json:"city" gorm:"size:100"`
	Postcode       string         `json:"postcode" gorm:"size:10"`

	Languages datatypes.JSONSlice[string] `json:"languages" gorm:"not null" validate:"required,min=1"`
	Subjects  datatypes.JSONSlice[string] `json:"subjects"`
	Interests datatypes.JSONSlice[string] `json:"interests" gorm:"not null" validate:"required,min=1"`

	Bio   *string `json:"bio" gorm:"type:text"`
	Goals *string `json:"goals" gorm:"type:text"`

	MeetingPref MeetingPref `json:"meeting_pref" gorm:"not null;size:20;default:either" validate:"omitempty,oneof=online in_person either"`

	// Availability holds offered meeting dates in ISO form (2006-01-02).
	Availability datatypes.JSONSlice[string] `json:"availability"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}

// ApplyDefaults fills optional fields that the onboarding flow may leave
// empty so scoring never sees a half-formed profile.
func (s *Student) ApplyDefaults() {
	if s.City == "" {
		s.City = DefaultCity
	}
	if s.Postcode == "" {
		s.Postcode = DefaultPostcode
	}
	if s.MeetingPref == "" {
		s.MeetingPref = MeetingEither
	}
}

type Mentor struct {
	ID        string `json:"id" gorm:"primaryKey;size:255"`
	FirstName string `json:"first_name" gorm:"not null;size:100"`
	LastName  string `json:"last_name" gorm:"not null;size:100"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	Role     string  `json:"role" gorm:"size:100"`
	Employer string  `json:"employer" gorm:"size:100"`
	Bio      *string `json:"bio" gorm:"type:text"`

	City     string `json:"city" gorm:"size:100"`
	Postcode string `json:"postcode" gorm:"size:10"`

	Skills    datatypes.JSONSlice[string] `json:"skills" gorm:"not null" validate:"required,min=1"`
	Hobbies   datatypes.JSONSlice[string] `json:"hobbies"`
	Languages datatypes.JSONSlice[string] `json:"languages" gorm:"not null" validate:"required,min=1"`

	AgePref     AgePref     `json:"age_pref" gorm:"not null;size:20;default:any" validate:"omitempty,oneof=middle_school high_school university any"`
	MeetingPref MeetingPref `json:"meeting_pref" gorm:"not null;size:20;default:either" validate:"omitempty,oneof=online in_person either"`

	MaxStudents int `json:"max_students" gorm:"not null;default:1" validate:"min=1"`

	Availability datatypes.JSONSlice[string] `json:"availability"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	ConfirmedCount int `json:"confirmed_count" gorm:"-"`
}

func (Mentor) TableName() string {
	return "mentors"
}

func (m *Mentor) ApplyDefaults() {
	if m.City == "" {
		m.City = DefaultCity
	}
	if m.Postcode == "" {
		m.Postcode = DefaultPostcode
	}
	if m.MeetingPref == "" {
		m.MeetingPref = MeetingEither
	}
	if m.AgePref == "" {
		m.AgePref = AgePrefAny
	}
	if m.MaxStudents < 1 {
		m.MaxStudents = 1
	}
}

// AcceptsLevel reports whether the mentor takes students of the given level.
func (m *Mentor) AcceptsLevel(level EducationLevel) bool {
	return m.AgePref == AgePrefAny || string(m.AgePref) == string(level)
}

// AtCapacity reports whether the mentor has no open student slots left.
func (m *Mentor) AtCapacity() bool {
	return m.ConfirmedCount >= m.MaxStudents
}
