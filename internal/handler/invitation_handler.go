package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-board-api/internal/dto"
	"kanban-board-api/internal/response"
	"kanban-board-api/internal/service"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// InviteUser godoc
// @Summary      Invite a user to a board
// @Description  Creates a pending invitation. Owner only; at most one
//               pending invitation exists per user and board.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.CreateInvitationRequest true "User to invite"
// @Success      201 {object} response.SuccessResponse{data=dto.InvitationResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /boards/{boardId}/invitations [post]
func (h *InvitationHandler) InviteUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Invite(c.Request.Context(), userID, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, invitation)
}

// ListMyInvitations godoc
// @Summary      List the caller's open invitations
// @Tags         invitations
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.InvitationResponse}
// @Router       /me/invitations [get]
func (h *InvitationHandler) ListMyInvitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, invitations)
}

// RespondToInvitation godoc
// @Summary      Accept or decline an invitation
// @Description  Settles one of the caller's pending invitations.
//               Accepting joins the board; either way the invitation
//               becomes terminal.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        inviteId path string true "Invitation ID (UUID)"
// @Param        request body dto.RespondInvitationRequest true "Response"
// @Success      200 {object} response.SuccessResponse{data=dto.InvitationResponse}
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /invitations/{inviteId}/respond [post]
func (h *InvitationHandler) RespondToInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	inviteID, ok := parseUUIDParam(c, "inviteId")
	if !ok {
		return
	}

	var req dto.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Respond(c.Request.Context(), userID, inviteID, req.Accept)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, invitation)
}
