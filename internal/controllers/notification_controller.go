package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"localride/internal/middleware"
	"localride/internal/store"
)

// NotificationController serves the in-app notification feed. Rows are
// only ever visible to the user they are addressed to.
type NotificationController struct {
	Store *store.Store
}

func NewNotificationController(st *store.Store) *NotificationController {
	return &NotificationController{Store: st}
}

// ListMyNotifications returns the caller's notifications, newest first.
func (nc *NotificationController) ListMyNotifications(c *gin.Context) {
	userID := middleware.UserID(c)

	notifications, err := nc.Store.ListNotificationsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing notifications: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkRead acknowledges one of the caller's notifications.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID := middleware.UserID(c)

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format."})
		return
	}

	if err := nc.Store.MarkNotificationRead(uint(notificationID), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}
