package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
	"github.com/guided-platform/matching-service/internal/validator"
)

type ProfileHandler struct {
	BaseHandler
	service   services.ProfileService
	validator *validator.Validator
}

func NewProfileHandler(service services.ProfileService, validator *validator.Validator, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// ===== STUDENT PROFILES =====

// CreateStudent creates or replaces a student profile
// @Summary Create student profile
// @Description Upsert a student profile. Missing optional fields get defaults.
// @Tags students
// @Accept json
// @Produce json
// @Param request body services.StudentUpsertRequest true "Student profile"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /students [post]
func (h *ProfileHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student profile")

	var req services.StudentUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.UpsertStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent updates a student profile
// @Summary Update student profile
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body services.StudentUpsertRequest true "Student profile"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /students/{id} [put]
func (h *ProfileHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student profile")

	var req services.StudentUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	req.ID = c.Param("id")

	student, err := h.service.UpsertStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudent returns a student profile
// @Summary Get student profile
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student profile")

	student, err := h.service.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ===== MENTOR PROFILES =====

// CreateMentor creates or replaces a mentor profile
// @Summary Create mentor profile
// @Tags mentors
// @Accept json
// @Produce json
// @Param request body services.MentorUpsertRequest true "Mentor profile"
// @Success 201 {object} models.Mentor
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /mentors [post]
func (h *ProfileHandler) CreateMentor(c *gin.Context) {
	h.LogRequest(c, "Creating mentor profile")

	var req services.MentorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	mentor, err := h.service.UpsertMentor(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mentor)
}

// UpdateMentor updates a mentor profile
// @Summary Update mentor profile
// @Description Upsert a mentor profile. Capacity cannot drop below confirmed matches.
// @Tags mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param request body services.MentorUpsertRequest true "Mentor profile"
// @Success 200 {object} models.Mentor
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /mentors/{id} [put]
func (h *ProfileHandler) UpdateMentor(c *gin.Context) {
	h.LogRequest(c, "Updating mentor profile")

	var req services.MentorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	req.ID = c.Param("id")

	mentor, err := h.service.UpsertMentor(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentor)
}

// GetMentor returns a mentor profile
// @Summary Get mentor profile
// @Tags mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} models.Mentor
// @Failure 404 {object} ErrorResponse "Mentor not found"
// @Router /mentors/{id} [get]
func (h *ProfileHandler) GetMentor(c *gin.Context) {
	h.LogRequest(c, "Getting mentor profile")

	mentor, err := h.service.GetMentor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentor)
}
