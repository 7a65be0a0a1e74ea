package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
)

type AuthHandler struct {
	userSvs UserServicer
}

func NewAuthHandler(userSvs UserServicer) *AuthHandler {
	return &AuthHandler{
		userSvs: userSvs,
	}
}

type RegisterParams struct {
	Username     string `json:"login" binding:"required,max_bytes=150"`
	Password     string `json:"password" binding:"required,min=6,max_bytes=72"`
	ReferralCode string `json:"referralCode" binding:"omitempty,max_bytes=150"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// Register POST RouteGroup + RegisterRoute.
func (a *AuthHandler) Register(c *gin.Context) {
	var params RegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, token, err := a.userSvs.Register(reqCtx, service.RegisterUserArgs{
		Username:     params.Username,
		Password:     params.Password,
		ReferralCode: params.ReferralCode,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			c.AbortWithStatus(http.StatusConflict)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

type LoginParams struct {
	Username string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST RouteGroup + LoginRoute.
func (a *AuthHandler) Login(c *gin.Context) {
	var params LoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, token, err := a.userSvs.Login(reqCtx, service.LoginUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPasswordMissMatch) || errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}
