package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondAppError aborts with the {message, code} error body.
func RespondAppError(c *gin.Context, err *AppError) {
	c.AbortWithStatusJSON(err.Status, gin.H{"message": err.Message, "code": err.Code})
}

// RespondHTML writes an already rendered HTML document.
func RespondHTML(c *gin.Context, code int, html string) {
	c.Data(code, "text/html; charset=utf-8", []byte(html))
}
