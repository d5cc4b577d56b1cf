package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationsports "github.com/Apurer/go-order-service/internal/domains/notifications/ports"
)

// NotificationAPI exposes the operator-facing notification flows.
type NotificationAPI struct {
	service notificationsports.Service
}

func NewNotificationAPI(service notificationsports.Service) NotificationAPI {
	return NotificationAPI{service: service}
}

type bulkRequest struct {
	UserIDs []int64 `json:"userIds" binding:"required"`
	Subject string  `json:"subject" binding:"required"`
	Body    string  `json:"body" binding:"required"`
}

type bulkFailure struct {
	UserID int64  `json:"userId"`
	Error  string `json:"error"`
}

type bulkResponse struct {
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Failures   []bulkFailure `json:"failures,omitempty"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// Post /v1/notifications/bulk
// Send the same message to many users
func (api *NotificationAPI) SendBulk(c *gin.Context) {
	var payload bulkRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	result := api.service.SendBulkNotifications(c.Request.Context(), payload.UserIDs, payload.Subject, payload.Body)
	resp := bulkResponse{Successful: result.Successful, Failed: result.Failed}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, bulkFailure{UserID: f.UserID, Error: f.Err.Error()})
	}
	c.JSON(http.StatusOK, resp)
}

// Post /v1/notifications/password-reset
func (api *NotificationAPI) SendPasswordReset(c *gin.Context) {
	var payload passwordResetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	if err := api.service.SendPasswordReset(c.Request.Context(), payload.Email, payload.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Post /v1/users/:userId/welcome
// Fire-and-forget welcome email
func (api *NotificationAPI) SendWelcome(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	api.service.SendWelcomeEmail(c.Request.Context(), userID)
	c.Status(http.StatusAccepted)
}
