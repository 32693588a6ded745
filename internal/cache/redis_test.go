package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(config.RedisConfig{Addr: mr.Addr()}, time.Minute, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_FlightsRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	miss, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, miss)

	flights := []domain.Flight{{ID: 1, FlightNumber: "SU10", FromAirport: "SVO", ToAirport: "LED", AircraftModel: "A320"}}
	require.NoError(t, c.SetFlights(ctx, flights))

	got, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Equal(t, flights, got)

	mr.FastForward(2 * time.Minute)
	expired, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestRedisCache_SeatMap(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	m := domain.SeatMap{Rows: 3, Letters: []string{"A", "B"}, AisleAfter: []string{"A"}, RowPrices: map[string]int64{"1": 100}}

	require.NoError(t, c.SetSeatMap(ctx, 7, m))
	assert.True(t, mr.Exists("cache:flight:7:seat_map"))

	got, err := c.GetSeatMap(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m, *got)

	other, err := c.GetSeatMap(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("cache:flights", "{not json"))

	_, err := c.GetFlights(context.Background())
	assert.Error(t, err)
}
