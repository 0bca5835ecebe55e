package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/guided-platform/matching-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: newValidate()}
}

// newValidate builds a validate instance with all custom rules registered
func newValidate() *validator.Validate {
	validate := validator.New()

	// Availability entries are ISO dates
	validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("education_level", func(fl validator.FieldLevel) bool {
		level := models.EducationLevel(fl.Field().String())
		switch level {
		case models.EducationMiddleSchool, models.EducationHighSchool, models.EducationUniversity:
			return true
		}
		return false
	})

	validate.RegisterValidation("meeting_pref", func(fl validator.FieldLevel) bool {
		pref := models.MeetingPref(fl.Field().String())
		switch pref {
		case models.MeetingOnline, models.MeetingInPerson, models.MeetingEither:
			return true
		}
		return false
	})

	validate.RegisterValidation("age_pref", func(fl validator.FieldLevel) bool {
		pref := models.AgePref(fl.Field().String())
		switch pref {
		case models.AgePrefAny, models.AgePrefMiddleSchool, models.AgePrefHighSchool, models.AgePrefUniversity:
			return true
		}
		return false
	})

	validate.RegisterValidation("invite_actor", func(fl validator.FieldLevel) bool {
		actor := models.InviteActor(fl.Field().String())
		switch actor {
		case models.ActorStudent, models.ActorMentor, models.ActorFacilitator:
			return true
		}
		return false
	})

	validate.RegisterValidation("invite_status", func(fl validator.FieldLevel) bool {
		status := models.InviteStatus(fl.Field().String())
		switch status {
		case models.InviteProposed,
			models.InviteAcceptedByStudent,
			models.InviteAcceptedByMentor,
			models.InviteConfirmed,
			models.InviteRejectedByStudent,
			models.InviteRejectedByMentor,
			models.InviteRejectedByFacilitator,
			models.InviteExpired:
			return true
		}
		return false
	})

	return validate
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateInviteCreate validates invite creation business rules
func (bv *BusinessValidator) ValidateInviteCreate(req *InviteCreateRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.StudentID != "" && req.StudentID == req.MentorID {
		errors = append(errors, ValidationError{
			Field:   "mentor_id",
			Message: "student and mentor must be different accounts",
			Value:   req.MentorID,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateStudentUpsert validates student profile business rules
func (bv *BusinessValidator) ValidateStudentUpsert(req *StudentUpsertRequest) ValidationErrors {
	errors := bv.Validate(req)
	errors = append(errors, bv.validateAvailability("availability", req.Availability)...)
	return errors
}

// ValidateMentorUpsert validates mentor profile business rules
func (bv *BusinessValidator) ValidateMentorUpsert(req *MentorUpsertRequest, confirmedCount int) ValidationErrors {
	errors := bv.Validate(req)
	errors = append(errors, bv.validateAvailability("availability", req.Availability)...)

	// Capacity cannot be lowered below the confirmed relationships already held
	if req.MaxStudents > 0 && req.MaxStudents < confirmedCount {
		errors = append(errors, ValidationError{
			Field:   "max_students",
			Message: "cannot be lower than the number of confirmed students",
			Value:   req.MaxStudents,
			Rule:    "business_logic",
		})
	}

	return errors
}

// validateAvailability rejects slates that are entirely in the past. A profile
// with only stale dates would silently never match on availability.
func (bv *BusinessValidator) validateAvailability(field string, dates []string) ValidationErrors {
	if len(dates) == 0 {
		return nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, raw := range dates {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			continue // struct validation already flags the format
		}
		if !date.Before(today) {
			return nil
		}
	}

	return ValidationErrors{{
		Field:   field,
		Message: "all availability dates are in the past",
		Value:   dates,
		Rule:    "business_logic",
	}}
}
