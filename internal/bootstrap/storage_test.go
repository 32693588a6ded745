package bootstrap

import (
	"context"
	"testing"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}

	st, err := OpenStorage(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer st.Close()

	flights, err := st.Flights.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, flights)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}
	_, err := OpenStorage(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "unknown storage driver")
}
