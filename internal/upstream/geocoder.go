package upstream

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/geocoder89/showfinder/internal/domain/location"
	"github.com/go-resty/resty/v2"
)

const geocoderAPI = "locationiq"

// Geocoder resolves free text through the LocationIQ search API.
type Geocoder struct {
	client *resty.Client
	apiKey string
	obs    Observer
}

func NewGeocoder(cfg Config, obs Observer) *Geocoder {
	return &Geocoder{
		client: newRestyClient(cfg),
		apiKey: cfg.APIKey,
		obs:    obs,
	}
}

type geocodeResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns only the first match.
func (g *Geocoder) Search(ctx context.Context, query string) (location.Location, error) {
	var results []geocodeResult

	_, err := call(ctx, g.obs, geocoderAPI, "search", func(ctx context.Context) (*resty.Response, error) {
		return g.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"key":    g.apiKey,
				"q":      query,
				"format": "json",
			}).
			SetResult(&results).
			Get("/search.php")
	})

	if err != nil {
		// LocationIQ answers 404 "Unable to geocode" when nothing matches
		if errors.Is(err, ErrNotFound) {
			return location.Location{}, ErrNoResults
		}

		return location.Location{}, err
	}

	if len(results) == 0 {
		return location.Location{}, ErrNoResults
	}

	first := results[0]

	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return location.Location{}, &Error{API: geocoderAPI, Op: "search", Err: fmt.Errorf("parse lat %q: %w", first.Lat, err)}
	}

	long, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return location.Location{}, &Error{API: geocoderAPI, Op: "search", Err: fmt.Errorf("parse lon %q: %w", first.Lon, err)}
	}

	return location.Location{
		FormattedQuery: first.DisplayName,
		Latitude:       lat,
		Longitude:      long,
	}, nil
}
