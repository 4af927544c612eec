package utils

import "github.com/gin-gonic/gin"

// Envelope defines the uniform structure for API responses. Success and
// Error are mutually exclusive; Data's shape is call-site specific.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, Envelope{Success: true, Data: data})
}

// SuccessMessage returns a success response carrying a human-readable message.
func SuccessMessage(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(200, Envelope{Success: true, Data: data, Message: message})
}

// Fail returns a standard error response.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Envelope{Success: false, Error: message})
}
