package utils

import "github.com/gin-gonic/gin"

// Error kinds carried in every failure body. Handlers pick the kind, the
// envelope shape never varies across endpoints.
const (
	KindValidation = "validation"
	KindAuth       = "auth"
	KindForbidden  = "forbidden"
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindStore      = "store"
)

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func RespondSuccess(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func RespondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   ErrorBody{Kind: kind, Message: message},
	})
}

func RespondErrorDetails(c *gin.Context, status int, kind, message, details string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   ErrorBody{Kind: kind, Message: message, Details: details},
	})
}
