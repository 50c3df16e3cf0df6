package geosession_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/showfinder/internal/domain/location"
	"github.com/geocoder89/showfinder/internal/geosession"
	"github.com/geocoder89/showfinder/internal/redisclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "user:7", geosession.Key(7, "abc"))
	assert.Equal(t, "sid:abc", geosession.Key(0, " abc "))
	assert.Equal(t, "", geosession.Key(0, ""))
	assert.Equal(t, "", geosession.Key(0, strings.Repeat("x", 129)))
}

func exerciseStore(t *testing.T, s geosession.Store) {
	t.Helper()
	ctx := context.Background()

	a := "sid:" + uuid.NewString()
	b := "sid:" + uuid.NewString()

	_, ok, err := s.Load(ctx, a)
	require.NoError(t, err)
	assert.False(t, ok)

	austin := location.Location{FormattedQuery: "Austin", Latitude: 30.27, Longitude: -97.74}
	boston := location.Location{FormattedQuery: "Boston", Latitude: 42.36, Longitude: -71.06}

	require.NoError(t, s.Save(ctx, a, austin))
	require.NoError(t, s.Save(ctx, b, boston))

	// sessions never observe each other's coordinates
	got, ok, err := s.Load(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, austin, got)

	got, ok, err = s.Load(ctx, b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, boston, got)
}

func TestMemoryStore(t *testing.T) {
	s := geosession.NewMemoryStore(time.Minute)
	t.Cleanup(s.Close)

	exerciseStore(t, s)
}

func TestMemoryStore_EvictsUnreadSessions(t *testing.T) {
	s := geosession.NewMemoryStore(5 * time.Millisecond)
	t.Cleanup(s.Close)

	ctx := context.Background()
	loc := location.Location{FormattedQuery: "Austin", Latitude: 30.27, Longitude: -97.74}

	// distinct client chosen ids that are never loaded again
	for i := 0; i < 2000; i++ {
		require.NoError(t, s.Save(ctx, "sid:"+uuid.NewString(), loc))
	}
	require.Equal(t, 2000, s.Len())

	require.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	c, err := redisclient.Connect(context.Background(), redisclient.Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	exerciseStore(t, geosession.NewRedisStore(c, time.Minute))
}
