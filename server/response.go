package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondWithError derives the status and structured body from an
// *apperrors.AppError; anything else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if !apperrors.IsAppError(err) {
		err = apperrors.Internal(err)
	}
	appErr, _ := apperrors.AsAppError(err)
	c.JSON(apperrors.HTTPStatusOf(appErr), appErr.ToResponse())
}
