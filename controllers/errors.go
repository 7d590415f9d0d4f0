package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
)

var (
	errNotFound    = errors.New("not found")
	errInvalidPage = errors.New("invalid page")
)

// respondServiceError maps domain and persistence errors onto HTTP codes.
func respondServiceError(c *gin.Context, err error) {
	utils.RespondError(c, statusFor(err), err)
}

func statusFor(err error) int {
	var (
		invalidStatus     *services.InvalidStatusError
		invalidTransition *services.InvalidTransitionError
		notFound          *services.NotFoundError
		validation        *models.ValidationError
	)
	switch {
	case errors.As(err, &invalidStatus),
		errors.As(err, &invalidTransition),
		errors.As(err, &validation),
		errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest
	case errors.As(err, &notFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
