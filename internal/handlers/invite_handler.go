package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
	"github.com/guided-platform/matching-service/internal/validator"
)

type InviteHandler struct {
	BaseHandler
	service   services.InviteService
	validator *validator.Validator
}

func NewInviteHandler(service services.InviteService, validator *validator.Validator, logger utils.Logger) *InviteHandler {
	return &InviteHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// CreateInvite proposes a pairing
// @Summary Create invite
// @Description Propose a student-mentor pairing. A duplicate pair returns the existing invite with 409.
// @Tags invites
// @Accept json
// @Produce json
// @Param request body services.InviteCreateRequest true "Invite details"
// @Success 201 {object} services.InviteResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Student or mentor not found"
// @Failure 409 {object} DuplicateInviteResponse "Invite already exists; body carries the existing invite"
// @Router /invites [post]
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	h.LogRequest(c, "Creating invite")

	var req services.InviteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	// The creating side comes from the authenticated role, not the body
	if actor, ok := actorFromContext(c); ok {
		req.CreatedBy = actor
	}

	invite, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		// A duplicate pair is a recoverable conflict; surface the
		// existing invite so the caller can act on it.
		if errors.Is(err, services.ErrDuplicateInvite) && invite != nil {
			c.JSON(http.StatusConflict, DuplicateInviteResponse{
				Message: "Invite already exists for this pair",
				Invite:  invite,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// DuplicateInviteResponse is the conflict body for a duplicate invite create.
type DuplicateInviteResponse struct {
	Message string                   `json:"message"`
	Invite  *services.InviteResponse `json:"invite"`
}

// GetInvite returns a single invite
// @Summary Get invite
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID"
// @Success 200 {object} services.InviteResponse
// @Failure 404 {object} ErrorResponse "Invite not found"
// @Router /invites/{id} [get]
func (h *InviteHandler) GetInvite(c *gin.Context) {
	h.LogRequest(c, "Getting invite")

	invite, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

// ListInvites returns the invite pipeline with filters
// @Summary List invites
// @Tags invites
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param mentor_id query string false "Filter by mentor"
// @Param status query string false "Filter by exact status"
// @Param pending query bool false "Filter to pending statuses only"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.InviteListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /invites [get]
func (h *InviteHandler) ListInvites(c *gin.Context) {
	h.LogRequest(c, "Listing invites")

	var req services.InviteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	invites, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invites)
}

// AcceptInvite records the acting party's acceptance
// @Summary Accept invite
// @Description The authenticated student or mentor accepts their side of the invite
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID"
// @Success 200 {object} services.InviteResponse
// @Failure 403 {object} ErrorResponse "Not a party to this invite"
// @Failure 404 {object} ErrorResponse "Invite not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /invites/{id}/accept [post]
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	h.LogRequest(c, "Accepting invite")
	h.act(c, models.ActionAccept)
}

// RejectInvite rejects an invite on behalf of the acting party
// @Summary Reject invite
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID"
// @Success 200 {object} services.InviteResponse
// @Failure 403 {object} ErrorResponse "Not a party to this invite"
// @Failure 404 {object} ErrorResponse "Invite not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /invites/{id}/reject [post]
func (h *InviteHandler) RejectInvite(c *gin.Context) {
	h.LogRequest(c, "Rejecting invite")
	h.act(c, models.ActionReject)
}

// ApproveInvite confirms a mutually accepted invite
// @Summary Approve invite
// @Description Facilitator confirms a mutually accepted invite, subject to mentor capacity
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID"
// @Success 200 {object} services.InviteResponse
// @Failure 403 {object} ErrorResponse "Facilitator role required"
// @Failure 404 {object} ErrorResponse "Invite not found"
// @Failure 409 {object} ErrorResponse "Invalid transition or mentor at capacity"
// @Router /invites/{id}/approve [post]
func (h *InviteHandler) ApproveInvite(c *gin.Context) {
	h.LogRequest(c, "Approving invite")
	h.act(c, models.ActionApprove)
}

func (h *InviteHandler) act(c *gin.Context, action models.InviteAction) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Role cannot act on invites",
		})
		return
	}

	invite, err := h.service.Act(c.Request.Context(), c.Param("id"), actor, userID, action)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

// actorFromContext maps the authenticated role to the invite actor. Admins
// act with facilitator powers.
func actorFromContext(c *gin.Context) (models.InviteActor, bool) {
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		return "", false
	}

	switch role {
	case models.RoleStudent:
		return models.ActorStudent, true
	case models.RoleMentor:
		return models.ActorMentor, true
	case models.RoleFacilitator, models.RoleAdmin:
		return models.ActorFacilitator, true
	default:
		return "", false
	}
}
