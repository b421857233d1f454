package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

// ClientHandler serves the coach-facing client roster and invitations.
type ClientHandler struct {
	clientService     service.ClientService
	invitationService service.InvitationService
	logg              *logger.Logger
}

func NewClientHandler(clientService service.ClientService, invitationService service.InvitationService, logg *logger.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, invitationService: invitationService, logg: logg}
}

type LinkClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (r *LinkClientRequest) UnmarshalJSON(data []byte) error {
	type plain LinkClientRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	r.Email = domain.NormalizeEmail(r.Email)
	return nil
}

type UpdateClientStatusRequest struct {
	Status domain.RelationshipStatus `json:"status" binding:"required,oneof=pending active terminated"`
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(clients))
}

// LinkClient godoc
// @Summary Offer a relationship to an existing client account
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LinkClientRequest true "Client's email"
// @Success 200 {object} domain.CoachClientRelationship
// @Failure 404 {object} errorResponse "No such client"
// @Router /clients [post]
func (h *ClientHandler) LinkClient(c *gin.Context) {
	var req LinkClientRequest
	if !bindJSON(c, h.logg, &req) {
		return
	}
	rel, err := h.clientService.LinkExistingClient(c.Request.Context(), mustActor(c), req.Email)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := uuidParam(c, h.logg, "clientId")
	if !ok {
		return
	}
	details, err := h.clientService.GetClientDetails(c.Request.Context(), mustActor(c), clientID)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	details.WorkoutPlans = nonNil(details.WorkoutPlans)
	details.ProgressLogs = nonNil(details.ProgressLogs)
	details.Goals = nonNil(details.Goals)
	c.JSON(http.StatusOK, details)
}

func (h *ClientHandler) UpdateStatus(c *gin.Context) {
	clientID, ok := uuidParam(c, h.logg, "clientId")
	if !ok {
		return
	}
	var req UpdateClientStatusRequest
	if !bindJSON(c, h.logg, &req) {
		return
	}
	rel, err := h.clientService.UpdateClientStatus(c.Request.Context(), mustActor(c), clientID, req.Status)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

// IssueInvitation godoc
// @Summary Invite a prospective client by email
// @Description Stores the intake form and emails a single-use acceptance link.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form body domain.ClientIntake true "Intake form"
// @Success 201 {object} domain.Invitation
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 409 {object} errorResponse "Account already exists"
// @Failure 502 {object} errorResponse "Saved, but the email could not be sent"
// @Router /clients/invitations [post]
func (h *ClientHandler) IssueInvitation(c *gin.Context) {
	var form domain.ClientIntake
	if !bindJSON(c, h.logg, &form) {
		return
	}
	inv, err := h.invitationService.Issue(c.Request.Context(), mustActor(c), form)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *ClientHandler) ListInvitations(c *gin.Context) {
	invs, err := h.invitationService.ListInvitations(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(invs))
}

func (h *ClientHandler) ResendInvitation(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "invitationId")
	if !ok {
		return
	}
	inv, err := h.invitationService.Resend(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// AcceptInvitation godoc
// @Summary Accept an invitation and create the client account
// @Description Public. Every unusable token yields the same 410 response.
// @Tags Client
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param body body service.AcceptInput true "Password for the new account"
// @Success 201 {object} domain.AcceptResult
// @Failure 410 {object} errorResponse "Invalid or expired invitation"
// @Failure 429 {object} errorResponse "Too many attempts"
// @Router /invitations/{token}/accept [post]
func (h *ClientHandler) AcceptInvitation(c *gin.Context) {
	var req service.AcceptInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	result, err := h.invitationService.Accept(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
