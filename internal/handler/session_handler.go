package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora/studyplan-api/internal/models"
	"github.com/lumora/studyplan-api/internal/service"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
	"github.com/lumora/studyplan-api/pkg/response"
)

// SessionHandler wires HTTP endpoints to the progress service.
type SessionHandler struct {
	service *service.ProgressService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.ProgressService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Log study session
// @Description Record hours completed for a subject
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body models.SessionCreateRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.service.LogSession(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, session)
}

// List godoc
// @Summary List study sessions
// @Description Returns the user's logged sessions, most recent first
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sessions, err := h.service.Sessions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sessions, nil)
}

// Progress godoc
// @Summary Subject progress
// @Description Aggregates completed hours per subject against its estimate
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /progress [get]
func (h *SessionHandler) Progress(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	progress, err := h.service.Progress(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, progress, nil)
}
