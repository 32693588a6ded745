package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	GRPC        GRPCConfig        `yaml:"grpc"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Reservation ReservationConfig `yaml:"reservation"`
	CheckIn     CheckInConfig     `yaml:"check_in"`
	Worker      WorkerConfig      `yaml:"worker"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type ReservationConfig struct {
	HoldTTLMinutes         int   `yaml:"hold_ttl_minutes"`
	MaxSeatsPerHold        int   `yaml:"max_seats_per_hold"`
	MaxGroupSize           int   `yaml:"max_group_size"`
	NeighborSurcharge      int64 `yaml:"neighbor_surcharge"`
	FlightsCacheTTLSeconds int   `yaml:"flights_cache_ttl_seconds"`
	SeatMapCacheTTLSeconds int   `yaml:"seat_map_cache_ttl_seconds"`
}

func (r ReservationConfig) HoldTTL() time.Duration {
	return time.Duration(r.HoldTTLMinutes) * time.Minute
}

func (r ReservationConfig) FlightsCacheTTL() time.Duration {
	return time.Duration(r.FlightsCacheTTLSeconds) * time.Second
}

func (r ReservationConfig) SeatMapCacheTTL() time.Duration {
	return time.Duration(r.SeatMapCacheTTLSeconds) * time.Second
}

// CheckInConfig bounds the window in which check-in bookings are accepted,
// relative to the flight's departure.
type CheckInConfig struct {
	OpensBeforeHours    int `yaml:"opens_before_hours"`
	ClosesBeforeMinutes int `yaml:"closes_before_minutes"`
}

func (c CheckInConfig) OpensBefore() time.Duration {
	return time.Duration(c.OpensBeforeHours) * time.Hour
}

func (c CheckInConfig) ClosesBefore() time.Duration {
	return time.Duration(c.ClosesBeforeMinutes) * time.Minute
}

type WorkerConfig struct {
	HoldSweepSeconds int `yaml:"hold_sweep_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills every zero-valued setting the service cannot run without.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Reservation.HoldTTLMinutes == 0 {
		c.Reservation.HoldTTLMinutes = 10
	}
	if c.Reservation.MaxSeatsPerHold == 0 {
		c.Reservation.MaxSeatsPerHold = 9
	}
	if c.Reservation.MaxGroupSize == 0 {
		c.Reservation.MaxGroupSize = 9
	}
	if c.Reservation.NeighborSurcharge == 0 {
		c.Reservation.NeighborSurcharge = 500
	}
	if c.Reservation.FlightsCacheTTLSeconds == 0 {
		c.Reservation.FlightsCacheTTLSeconds = 60
	}
	if c.Reservation.SeatMapCacheTTLSeconds == 0 {
		c.Reservation.SeatMapCacheTTLSeconds = 3600
	}
	if c.CheckIn.OpensBeforeHours == 0 {
		c.CheckIn.OpensBeforeHours = 24
	}
	if c.CheckIn.ClosesBeforeMinutes == 0 {
		c.CheckIn.ClosesBeforeMinutes = 40
	}
	if c.Worker.HoldSweepSeconds == 0 {
		c.Worker.HoldSweepSeconds = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Reservation.HoldTTLMinutes < 0 {
		return errors.New("reservation.hold_ttl_minutes must be positive")
	}
	if c.Reservation.MaxSeatsPerHold < 0 {
		return errors.New("reservation.max_seats_per_hold must be positive")
	}
	if c.Reservation.MaxGroupSize < 0 {
		return errors.New("reservation.max_group_size must be positive")
	}
	if c.Reservation.NeighborSurcharge < 0 {
		return errors.New("reservation.neighbor_surcharge must not be negative")
	}
	if c.Reservation.FlightsCacheTTLSeconds < 0 || c.Reservation.SeatMapCacheTTLSeconds < 0 {
		return errors.New("reservation cache ttls must be positive")
	}
	if c.Worker.HoldSweepSeconds < 0 {
		return errors.New("worker.hold_sweep_seconds must be positive")
	}
	if c.CheckIn.OpensBeforeHours*60 <= c.CheckIn.ClosesBeforeMinutes {
		return errors.New("check_in window closes before it opens")
	}
	return nil
}
