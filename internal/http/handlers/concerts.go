package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/geocoder89/showfinder/internal/domain/concert"
	"github.com/geocoder89/showfinder/internal/geosession"
	"github.com/geocoder89/showfinder/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ConcertFinder interface {
	SearchEvents(ctx context.Context, p concert.SearchParams) ([]byte, error)
	GetEvent(ctx context.Context, id string) ([]byte, error)
	Nearby(ctx context.Context, p concert.NearbyParams) ([]concert.Summary, error)
}

type ConcertsHandler struct {
	finder   ConcertFinder
	sessions geosession.Store
}

func NewConcertsHandler(finder ConcertFinder, sessions geosession.Store) *ConcertsHandler {
	return &ConcertsHandler{finder: finder, sessions: sessions}
}

// Search proxies the event search and returns the upstream body unchanged.
func (h *ConcertsHandler) Search(ctx *gin.Context) {
	body, err := h.finder.SearchEvents(ctx.Request.Context(), concert.SearchParams{
		Keyword: ctx.Query("keyword"),
		City:    ctx.Query("city"),
	})

	if err != nil {
		RespondUpstreamError(ctx, err, "not_found", "No concerts found")
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *ConcertsHandler) GetByID(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))

	if id == "" {
		RespondBadRequest(ctx, "id is required", nil)
		return
	}

	body, err := h.finder.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		RespondUpstreamError(ctx, err, "not_found", "Concert not found")
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Nearby lists events around explicit coordinates, or around the caller's
// last geocoded location when none are given.
func (h *ConcertsHandler) Nearby(ctx *gin.Context) {
	params := concert.NearbyParams{
		Radius:  concert.DefaultRadius,
		Keyword: strings.TrimSpace(ctx.Query("keyword")),
	}

	if params.Keyword == "" {
		params.Keyword = concert.DefaultKeyword
	}

	if raw := ctx.Query("radius"); raw != "" {
		r, err := strconv.Atoi(raw)
		if err != nil || r < 1 || r > concert.MaxRadius {
			RespondBadRequest(ctx, "radius must be an integer between 1 and 500", gin.H{"field": "radius"})
			return
		}
		params.Radius = r
	}

	latRaw, longRaw := ctx.Query("lat"), ctx.Query("long")

	switch {
	case latRaw != "" || longRaw != "":
		lat, long, details := parseCoords(latRaw, longRaw)
		if details != nil {
			RespondBadRequest(ctx, "Invalid coordinates", details)
			return
		}
		params.Lat, params.Long = lat, long

	default:
		userID, _ := middlewares.UserIDFromContext(ctx)
		key := geosession.Key(userID, ctx.GetHeader(sessionHeader))

		if key == "" || h.sessions == nil {
			RespondBadRequest(ctx, "lat and long are required", nil)
			return
		}

		loc, found, err := h.sessions.Load(ctx.Request.Context(), key)
		if err != nil {
			slog.ErrorContext(ctx.Request.Context(), "geo session load failed", "err", err)
			RespondInternal(ctx, "Could not read session location")
			return
		}

		if !found {
			RespondBadRequest(ctx, "lat and long are required (or look up a location first)", nil)
			return
		}

		params.Lat, params.Long = loc.Latitude, loc.Longitude
	}

	events, err := h.finder.Nearby(ctx.Request.Context(), params)
	if err != nil {
		RespondUpstreamError(ctx, err, "not_found", "No concerts found")
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func parseCoords(latRaw, longRaw string) (float64, float64, gin.H) {
	details := gin.H{}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		details["lat"] = "must be a number between -90 and 90"
	}

	long, err := strconv.ParseFloat(longRaw, 64)
	if err != nil || long < -180 || long > 180 {
		details["long"] = "must be a number between -180 and 180"
	}

	if len(details) > 0 {
		return 0, 0, details
	}

	return lat, long, nil
}
