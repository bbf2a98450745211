// Package utils holds shared helpers for the HTTP surface.
package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// AppError is a typed application error carrying an HTTP status and a
// stable machine-readable code.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleError renders an error as a JSON response. Non-AppError values
// become opaque 500s.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		c.JSON(appErr.Status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}
	c.JSON(500, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		},
	})
}
