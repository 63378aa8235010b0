package utils

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/apperror"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONAppError answers with the status carried by err. RoomUnavailable adds the
// blocking reservation id; InvalidTransition adds the state and action.
func JSONAppError(c *gin.Context, err error) {
	e, ok := apperror.As(err)
	if !ok {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		JSONError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if e.Status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := gin.H{"success": false, "error": e.Message, "kind": e.Kind}
	switch e.Kind {
	case apperror.KindRoomUnavailable:
		body["conflictId"] = e.ConflictID
	case apperror.KindInvalidTransition:
		body["state"] = e.State
		body["action"] = e.Action
	}
	c.JSON(e.Status, body)
}
