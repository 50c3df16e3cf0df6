package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/showfinder/internal/domain/location"
	"github.com/geocoder89/showfinder/internal/geosession"
	"github.com/geocoder89/showfinder/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// anonymous callers identify their session with this header
const sessionHeader = "X-Session-Id"

type Geocoder interface {
	Search(ctx context.Context, query string) (location.Location, error)
}

type LocationHandler struct {
	geocoder Geocoder
	sessions geosession.Store
}

func NewLocationHandler(geocoder Geocoder, sessions geosession.Store) *LocationHandler {
	return &LocationHandler{geocoder: geocoder, sessions: sessions}
}

func (h *LocationHandler) Geocode(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("search"))

	if query == "" {
		RespondBadRequest(ctx, "search is required", gin.H{"field": "search"})
		return
	}

	loc, err := h.geocoder.Search(ctx.Request.Context(), query)
	if err != nil {
		RespondUpstreamError(ctx, err, "location_not_found", "No location matched the search")
		return
	}

	userID, _ := middlewares.UserIDFromContext(ctx)

	if key := geosession.Key(userID, ctx.GetHeader(sessionHeader)); key != "" && h.sessions != nil {
		// losing the remembered location only affects the nearby default
		if err := h.sessions.Save(ctx.Request.Context(), key, loc); err != nil {
			slog.WarnContext(ctx.Request.Context(), "geo session save failed", "err", err)
		}
	}

	ctx.JSON(http.StatusOK, loc)
}
