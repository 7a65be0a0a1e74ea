package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/middlewares"
)

func getUserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentUserIDKey)
}

// abortWithDomainError транслирует ошибки ядра в http статусы. Сырые ошибки хранилища
// сюда не доходят - их поглощает слой сервисов, наружу уходит 500 без деталей.
//
//nolint:cyclop
func abortWithDomainError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":          "insufficient stock",
			"product":        stockErr.ProductName,
			"availableStock": stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrInvalidCoupon):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrPaymentVerificationFailed):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrNotEnoughBalance):
		_ = c.AbortWithError(http.StatusPaymentRequired, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrOrderNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrIDAllocationExhausted):
		// Транзиентная инфраструктурная проблема, юзеру достаточно повторить попытку.
		c.AbortWithStatus(http.StatusServiceUnavailable)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
