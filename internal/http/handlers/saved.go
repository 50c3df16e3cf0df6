package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/showfinder/internal/config"
	"github.com/geocoder89/showfinder/internal/domain/saved"
	"github.com/geocoder89/showfinder/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type SavedStore interface {
	ListByUser(ctx context.Context, userID int64) ([]saved.Concert, error)
	Create(ctx context.Context, req saved.CreateSavedRequest) (saved.Concert, error)
	DeleteForUser(ctx context.Context, userID, id int64) (saved.Concert, error)
}

type SavedHandler struct {
	repo SavedStore
}

func NewSavedHandler(repo SavedStore) *SavedHandler {
	return &SavedHandler{repo: repo}
}

func callerID(ctx *gin.Context) (int64, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "missing_token", "Missing access token")
		return 0, false
	}
	return userID, true
}

func respondStoreError(ctx *gin.Context, message string, err error) {
	slog.ErrorContext(ctx.Request.Context(), message, "err", err)
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, gin.H{"reason": err.Error()})
}

func (h *SavedHandler) List(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.ListByUser(cctx, userID)
	if err != nil {
		respondStoreError(ctx, "Could not list saved concerts", err)
		return
	}

	if items == nil {
		items = []saved.Concert{}
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *SavedHandler) Create(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req saved.CreateSavedRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.UserID = userID

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)
	if err != nil {
		if errors.Is(err, saved.ErrAlreadySaved) {
			RespondConflict(ctx, "already_saved", "Already in saved!")
			return
		}

		respondStoreError(ctx, "Could not save concert", err)
		return
	}

	ctx.JSON(http.StatusOK, c)
}

// Delete removes one of the caller's rows. A missing or foreign id is not an
// error: the response is an empty object.
func (h *SavedHandler) Delete(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "id must be a positive integer", gin.H{"field": "id"})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.DeleteForUser(cctx, userID, id)
	if err != nil {
		if errors.Is(err, saved.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{})
			return
		}

		respondStoreError(ctx, "Could not delete saved concert", err)
		return
	}

	ctx.JSON(http.StatusOK, c)
}
