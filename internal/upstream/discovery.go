package upstream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/geocoder89/showfinder/internal/domain/concert"
	"github.com/go-resty/resty/v2"
)

const discoveryAPI = "ticketmaster"

// Discovery talks to the Ticketmaster Discovery v2 API. Searches are pinned to
// US music events.
type Discovery struct {
	client *resty.Client
	apiKey string
	obs    Observer
}

func NewDiscovery(cfg Config, obs Observer) *Discovery {
	return &Discovery{
		client: newRestyClient(cfg),
		apiKey: cfg.APIKey,
		obs:    obs,
	}
}

// SearchEvents returns the upstream body unchanged.
func (d *Discovery) SearchEvents(ctx context.Context, p concert.SearchParams) ([]byte, error) {
	resp, err := call(ctx, d.obs, discoveryAPI, "search", func(ctx context.Context) (*resty.Response, error) {
		return d.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"countryCode":        "US",
				"classificationName": "Music",
				"sort":               "date,asc",
				"keyword":            p.Keyword,
				"city":               p.City,
				"apikey":             d.apiKey,
			}).
			Get("/events.json")
	})

	if err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// GetEvent returns the upstream body unchanged.
func (d *Discovery) GetEvent(ctx context.Context, id string) ([]byte, error) {
	resp, err := call(ctx, d.obs, discoveryAPI, "get_event", func(ctx context.Context) (*resty.Response, error) {
		return d.client.R().
			SetContext(ctx).
			SetPathParam("id", id).
			SetQueryParam("apikey", d.apiKey).
			Get("/events/{id}.json")
	})

	if err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

type nearbyResponse struct {
	Embedded struct {
		Events []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			URL   string `json:"url"`
			Dates struct {
				Start struct {
					LocalDate string `json:"localDate"`
					DateTime  string `json:"dateTime"`
				} `json:"start"`
			} `json:"dates"`
			Embedded struct {
				Venues []struct {
					Name string `json:"name"`
					City struct {
						Name string `json:"name"`
					} `json:"city"`
				} `json:"venues"`
			} `json:"_embedded"`
		} `json:"events"`
	} `json:"_embedded"`
}

// Nearby lists music events around a coordinate.
func (d *Discovery) Nearby(ctx context.Context, p concert.NearbyParams) ([]concert.Summary, error) {
	var out nearbyResponse

	_, err := call(ctx, d.obs, discoveryAPI, "nearby", func(ctx context.Context) (*resty.Response, error) {
		return d.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"countryCode":        "US",
				"classificationName": "Music",
				"sort":               "date,asc",
				"keyword":            p.Keyword,
				"latlong":            fmt.Sprintf("%s,%s", formatCoord(p.Lat), formatCoord(p.Long)),
				"radius":             strconv.Itoa(p.Radius),
				"unit":               "miles",
				"apikey":             d.apiKey,
			}).
			SetResult(&out).
			Get("/events.json")
	})

	if err != nil {
		return nil, err
	}

	summaries := make([]concert.Summary, 0, len(out.Embedded.Events))

	for _, e := range out.Embedded.Events {
		s := concert.Summary{
			ID:        e.ID,
			Name:      e.Name,
			URL:       e.URL,
			StartDate: e.Dates.Start.DateTime,
		}

		if s.StartDate == "" {
			s.StartDate = e.Dates.Start.LocalDate
		}

		if len(e.Embedded.Venues) > 0 {
			s.Venue = e.Embedded.Venues[0].Name
			s.City = e.Embedded.Venues[0].City.Name
		}

		summaries = append(summaries, s)
	}

	return summaries, nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
