package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loopwhile/firstppt-sub000/models"
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

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError maps the order core's error taxonomy to HTTP status
// codes and replies with the standard envelope. The message always carries
// the full error text so a rejected action can be corrected, never silently
// discarded.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrSessionClosed):
		RespondError(c, http.StatusConflict, err)
	case errors.Is(err, models.ErrDiscrepancyTooLarge):
		RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrItemUnavailable):
		RespondError(c, http.StatusBadRequest, err)
	default:
		RespondError(c, http.StatusInternalServerError, err)
	}
}
