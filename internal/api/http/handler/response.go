// Package handler implements the HTTP endpoints.
package handler

import "github.com/gin-gonic/gin"

// apiResponse is the common success envelope.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, apiResponse{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}
