package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/showfinder/internal/auth"
	"github.com/geocoder89/showfinder/internal/config"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthHandler struct {
	svc Authenticator
}

func NewAuthHandler(svc Authenticator) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// SignUpRequest keeps the field names the web client already sends.
type SignUpRequest struct {
	Email       string   `json:"email" binding:"required,email,max=254"`
	Password    string   `json:"password" binding:"required,max=72"`
	DisplayName string   `json:"displayname" binding:"omitempty,max=120"`
	City        string   `json:"city" binding:"omitempty,max=120"`
	Lat         *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Long        *float64 `json:"long" binding:"omitempty,min=-180,max=180"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	token, err := h.svc.SignUp(cctx, auth.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		City:        req.City,
		Lat:         req.Lat,
		Long:        req.Long,
	})

	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUser) {
			RespondError(ctx, http.StatusBadRequest, "duplicate_user", "Email is already registered.", nil)
			return
		}

		slog.ErrorContext(ctx.Request.Context(), "signup failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	token, err := h.svc.Login(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		slog.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
