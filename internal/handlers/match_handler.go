package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
	"github.com/guided-platform/matching-service/internal/validator"
)

type MatchHandler struct {
	BaseHandler
	service   services.MatchService
	validator *validator.Validator
}

func NewMatchHandler(service services.MatchService, validator *validator.Validator, logger utils.Logger) *MatchHandler {
	return &MatchHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// RankMentors returns the ranked mentor list for a student
// @Summary Rank mentors for a student
// @Description Weighted compatibility ranking over all mentors, including zero-score candidates
// @Tags matches
// @Produce json
// @Param student_id query string false "Student ID (defaults to the authenticated student)"
// @Param min_score query int false "Minimum score filter (0-100)"
// @Param limit query int false "Maximum results"
// @Success 200 {object} services.MentorMatchListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /matches/mentors [get]
func (h *MatchHandler) RankMentors(c *gin.Context) {
	h.LogRequest(c, "Ranking mentors")

	var req services.RankMentorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	// Students browse for themselves unless an explicit ID is given
	if req.StudentID == "" {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		req.StudentID = userID
	}

	matches, err := h.service.RankMentorsForStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// RankStudents returns the ranked student list for a mentor
// @Summary Rank students for a mentor
// @Description Reverse ranking centered on language, interests and location
// @Tags matches
// @Produce json
// @Param mentor_id query string false "Mentor ID (defaults to the authenticated mentor)"
// @Param min_score query int false "Minimum score filter (0-100)"
// @Param limit query int false "Maximum results"
// @Success 200 {object} services.StudentMatchListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Mentor not found"
// @Router /matches/students [get]
func (h *MatchHandler) RankStudents(c *gin.Context) {
	h.LogRequest(c, "Ranking students")

	var req services.RankStudentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	if req.MentorID == "" {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		req.MentorID = userID
	}

	matches, err := h.service.RankStudentsForMentor(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetShortlist returns the curated shortlist for a student
// @Summary Get curated shortlist
// @Description Shortlist for facilitator review: score floor applied, mentors without capacity excluded
// @Tags matches
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} services.MentorMatchListResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /matches/shortlist/{studentId} [get]
func (h *MatchHandler) GetShortlist(c *gin.Context) {
	h.LogRequest(c, "Building shortlist")

	studentID := c.Param("studentId")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Student ID is required",
		})
		return
	}

	matches, err := h.service.Shortlist(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}
