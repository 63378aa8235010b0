package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type NotificationController struct {
	NotificationSvc *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationSvc: svc}
}

type RecipientRequest struct {
	RecipientKind string `json:"recipient_kind" binding:"required"`
	RecipientID   uint   `json:"recipient_id" binding:"required"`
}

func parseRecipient(rawKind, rawID string) (models.RecipientKind, uint, error) {
	kind, ok := models.ParseRecipientKind(rawKind)
	if !ok {
		return "", 0, apperror.InvalidInput("recipient_kind must be customer or staff")
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return "", 0, apperror.InvalidInput("invalid recipient_id: %q", rawID)
	}
	return kind, uint(id), nil
}

// ListNotifications (GET /api/notifications?recipient_kind=&recipient_id=)
func (ctrl *NotificationController) ListNotifications(c *gin.Context) {
	kind, id, err := parseRecipient(c.Query("recipient_kind"), c.Query("recipient_id"))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	out, err := ctrl.NotificationSvc.List(c.Request.Context(), kind, id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// MarkRead (PATCH /api/notifications/:id/read)
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	if err := ctrl.NotificationSvc.MarkRead(c.Request.Context(), id); err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "read": true})
}

// MarkAllRead (POST /api/notifications/read-all)
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	var req RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "recipient_kind and recipient_id are required")
		return
	}
	kind, ok := models.ParseRecipientKind(req.RecipientKind)
	if !ok {
		utils.JSONAppError(c, apperror.InvalidInput("recipient_kind must be customer or staff"))
		return
	}
	n, err := ctrl.NotificationSvc.MarkAllRead(c.Request.Context(), kind, req.RecipientID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": n})
}
