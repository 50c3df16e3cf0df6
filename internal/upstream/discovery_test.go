package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/geocoder89/showfinder/internal/domain/concert"
	"github.com/geocoder89/showfinder/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscovery(t *testing.T, h http.HandlerFunc) *upstream.Discovery {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return upstream.NewDiscovery(upstream.Config{BaseURL: srv.URL, APIKey: "tm-key", Timeout: 2 * time.Second}, nil)
}

func TestDiscovery_SearchEventsForwardsParams(t *testing.T) {
	var got url.Values
	var path string

	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_embedded":{"events":[{"id":"E1"}]},"page":{"size":20}}`))
	})

	body, err := d.SearchEvents(context.Background(), concert.SearchParams{Keyword: "jazz", City: ""})
	require.NoError(t, err)

	assert.JSONEq(t, `{"_embedded":{"events":[{"id":"E1"}]},"page":{"size":20}}`, string(body))
	assert.Equal(t, "/events.json", path)
	assert.Equal(t, "US", got.Get("countryCode"))
	assert.Equal(t, "Music", got.Get("classificationName"))
	assert.Equal(t, "date,asc", got.Get("sort"))
	assert.Equal(t, "jazz", got.Get("keyword"))
	assert.Equal(t, "tm-key", got.Get("apikey"))

	// empty values are passed through as empty strings
	assert.Contains(t, got, "city")
	assert.Equal(t, "", got.Get("city"))
}

func TestDiscovery_GetEvent(t *testing.T) {
	var path string

	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if r.URL.Query().Get("apikey") != "tm-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"G5v"}`))
	})

	body, err := d.GetEvent(context.Background(), "G5v")
	require.NoError(t, err)
	assert.Equal(t, "/events/G5v.json", path)
	assert.JSONEq(t, `{"id":"G5v"}`, string(body))
}

func TestDiscovery_GetEventNotFound(t *testing.T) {
	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":"DIS1004"}]}`))
	})

	_, err := d.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, upstream.ErrNotFound)

	var upErr *upstream.Error
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusNotFound, upErr.Status)
	assert.Equal(t, "ticketmaster", upErr.API)
}

func TestDiscovery_ServerErrorIsMapped(t *testing.T) {
	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := d.SearchEvents(context.Background(), concert.SearchParams{})

	var upErr *upstream.Error
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadGateway, upErr.Status)
	assert.False(t, errors.Is(err, upstream.ErrNotFound))
}

func TestDiscovery_LongErrorBodyKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("a", 511) + strings.Repeat("é", 100)

	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(body))
	})

	_, err := d.SearchEvents(context.Background(), concert.SearchParams{})

	var upErr *upstream.Error
	require.ErrorAs(t, err, &upErr)
	assert.True(t, utf8.ValidString(upErr.Body))
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Equal(t, strings.Repeat("a", 511), upErr.Body)
}

func TestDiscovery_TimeoutIsMapped(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	d := upstream.NewDiscovery(upstream.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	_, err := d.SearchEvents(context.Background(), concert.SearchParams{})
	require.ErrorIs(t, err, upstream.ErrTimeout)
}

func TestDiscovery_Nearby(t *testing.T) {
	var got url.Values

	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"_embedded": {"events": [
				{
					"id": "E1",
					"name": "Show One",
					"url": "https://tm.test/e1",
					"dates": {"start": {"localDate": "2026-11-01", "dateTime": "2026-11-02T02:00:00Z"}},
					"_embedded": {"venues": [{"name": "Stubb's", "city": {"name": "Austin"}}]}
				},
				{
					"id": "E2",
					"name": "Show Two",
					"dates": {"start": {"localDate": "2026-11-05"}}
				}
			]}
		}`))
	})

	out, err := d.Nearby(context.Background(), concert.NearbyParams{Lat: 30.2672, Long: -97.7431, Radius: 10, Keyword: "concert"})
	require.NoError(t, err)

	assert.Equal(t, "30.2672,-97.7431", got.Get("latlong"))
	assert.Equal(t, "10", got.Get("radius"))
	assert.Equal(t, "miles", got.Get("unit"))
	assert.Equal(t, "concert", got.Get("keyword"))

	require.Len(t, out, 2)
	assert.Equal(t, concert.Summary{
		ID:        "E1",
		Name:      "Show One",
		URL:       "https://tm.test/e1",
		StartDate: "2026-11-02T02:00:00Z",
		Venue:     "Stubb's",
		City:      "Austin",
	}, out[0])
	assert.Equal(t, "2026-11-05", out[1].StartDate)
}

func TestDiscovery_NearbyNoEvents(t *testing.T) {
	d := newDiscovery(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":{"totalElements":0}}`))
	})

	out, err := d.Nearby(context.Background(), concert.NearbyParams{Lat: 1, Long: 2, Radius: 25})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
