// Package cache keeps read-mostly flight data in Redis. Only immutable or
// slowly changing data lives here; seat holds and bookings never do.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	seatMapTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, seatMapTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		seatMapTTL: seatMapTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns nil, nil on a miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	found, err := c.get(ctx, flightsKey(), &flights)
	if err != nil || !found {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.set(ctx, flightsKey(), flights, c.flightsTTL)
}

// GetSeatMap returns nil, nil on a miss.
func (c *RedisCache) GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	var m domain.SeatMap
	found, err := c.get(ctx, seatMapKey(flightID), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (c *RedisCache) SetSeatMap(ctx context.Context, flightID int64, m domain.SeatMap) error {
	return c.set(ctx, seatMapKey(flightID), m, c.seatMapTTL)
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func seatMapKey(flightID int64) string {
	return fmt.Sprintf("cache:flight:%d:seat_map", flightID)
}
