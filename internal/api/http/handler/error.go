package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/model"
)

func handleError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	message := "internal server error"

	var appErr *model.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Kind {
		case model.KindInvalidInput:
			code = http.StatusBadRequest
		case model.KindConflict:
			code = http.StatusConflict
		case model.KindUnauthorized:
			code = http.StatusUnauthorized
		case model.KindNotFound:
			code = http.StatusNotFound
		default:
			code = http.StatusInternalServerError
			message = "internal server error"
		}
	} else if errors.Is(err, model.ErrNotFound) {
		code = http.StatusNotFound
		message = "record not found"
	}

	c.AbortWithStatusJSON(code, gin.H{
		"status":  "Fail",
		"message": message,
	})
}
