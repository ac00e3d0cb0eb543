package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/ridesim/internal/demand"
	"github.com/example/ridesim/internal/geo"
)

// SimConfig captures all tunable parameters for the simulator process.
// Values are primarily loaded from environment variables with sane defaults
// so the binary can run locally without excessive setup.
type SimConfig struct {
	DriverCount    int
	PassengerCount int

	CityCenter   geo.Coord
	CityRadiusKm float64

	BaseSpeedKmh float64
	BaseFare     float64
	PerKmRate    float64

	DriverAvailableProb float64
	RushHours           []demand.HourRange

	Duration          time.Duration
	TickInterval      time.Duration
	MatchPollInterval time.Duration
	TravelScale       float64

	Seed int64

	HTTPAddr string

	KafkaBrokers      []string
	KafkaRequestTopic string
	KafkaUpdateTopic  string

	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string

	PGDSN string

	OutputDir string

	LogLevel      string
	RunMigrations bool
}

func defaultSimConfig() SimConfig {
	return SimConfig{
		DriverCount:         350,
		PassengerCount:      650,
		CityCenter:          geo.Coord{Lat: 40.0, Lon: -74.0},
		CityRadiusKm:        15,
		BaseSpeedKmh:        30,
		BaseFare:            2.5,
		PerKmRate:           1.5,
		DriverAvailableProb: 0.7,
		RushHours:           []demand.HourRange{{Start: 7, End: 9}, {Start: 17, End: 19}},
		Duration:            5 * time.Minute,
		TickInterval:        2 * time.Second,
		MatchPollInterval:   time.Second,
		TravelScale:         0.01,
		HTTPAddr:            ":8080",
		KafkaRequestTopic:   "passenger-requests",
		KafkaUpdateTopic:    "driver-updates",
		RedisGeoKey:         "drivers_geo",
		LogLevel:            "info",
	}
}

func LoadSimConfig() (SimConfig, error) {
	cfg := defaultSimConfig()
	var errs []error

	setIntFromEnv(&cfg.DriverCount, "SIM_DRIVERS", &errs)
	setIntFromEnv(&cfg.PassengerCount, "SIM_PASSENGERS", &errs)
	setFloatFromEnv(&cfg.CityCenter.Lat, "SIM_CITY_LAT", &errs)
	setFloatFromEnv(&cfg.CityCenter.Lon, "SIM_CITY_LON", &errs)
	setFloatFromEnv(&cfg.CityRadiusKm, "SIM_CITY_RADIUS_KM", &errs)
	setFloatFromEnv(&cfg.BaseSpeedKmh, "SIM_BASE_SPEED_KMH", &errs)
	setFloatFromEnv(&cfg.BaseFare, "SIM_BASE_FARE", &errs)
	setFloatFromEnv(&cfg.PerKmRate, "SIM_PER_KM_RATE", &errs)
	setFloatFromEnv(&cfg.DriverAvailableProb, "SIM_DRIVER_AVAILABLE_PROB", &errs)
	setDurationFromEnv(&cfg.Duration, "SIM_DURATION", &errs)
	setDurationFromEnv(&cfg.TickInterval, "SIM_TICK_INTERVAL", &errs)
	setDurationFromEnv(&cfg.MatchPollInterval, "SIM_MATCH_POLL_INTERVAL", &errs)
	setFloatFromEnv(&cfg.TravelScale, "SIM_TRAVEL_SCALE", &errs)
	setInt64FromEnv(&cfg.Seed, "SIM_SEED", &errs)

	if v := os.Getenv("SIM_RUSH_HOURS"); v != "" {
		rh, err := parseRushHours(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid SIM_RUSH_HOURS: %w", err))
		} else {
			cfg.RushHours = rh
		}
	}

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaRequestTopic, "KAFKA_REQUEST_TOPIC")
	setStringFromEnv(&cfg.KafkaUpdateTopic, "KAFKA_UPDATE_TOPIC")

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setStringFromEnv(&cfg.RedisGeoKey, "REDIS_GEO_KEY")

	cfg.PGDSN = os.Getenv("PG_DSN")
	cfg.OutputDir = strings.TrimSpace(os.Getenv("SIM_OUTPUT_DIR"))

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// Validate fails fast on any parameter set that would start the simulation
// in an inconsistent state.
func (c SimConfig) Validate() error {
	var errs []error
	if c.DriverCount <= 0 {
		errs = append(errs, fmt.Errorf("driver count must be > 0, got %d", c.DriverCount))
	}
	if c.PassengerCount <= 0 {
		errs = append(errs, fmt.Errorf("passenger count must be > 0, got %d", c.PassengerCount))
	}
	if c.CityRadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("city radius must be > 0, got %f", c.CityRadiusKm))
	}
	if c.BaseSpeedKmh <= 0 {
		errs = append(errs, fmt.Errorf("base speed must be > 0, got %f", c.BaseSpeedKmh))
	}
	if c.BaseFare < 0 || c.PerKmRate < 0 {
		errs = append(errs, fmt.Errorf("fare rates must be >= 0, got base=%f per_km=%f", c.BaseFare, c.PerKmRate))
	}
	if c.DriverAvailableProb < 0 || c.DriverAvailableProb > 1 {
		errs = append(errs, fmt.Errorf("driver available probability must be in [0,1], got %f", c.DriverAvailableProb))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be > 0"))
	}
	if c.MatchPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("match poll interval must be > 0"))
	}
	if c.TravelScale < 0 {
		errs = append(errs, fmt.Errorf("travel scale must be >= 0, got %f", c.TravelScale))
	}
	for _, rh := range c.RushHours {
		if rh.Start < 0 || rh.End > 24 || rh.Start >= rh.End {
			errs = append(errs, fmt.Errorf("invalid rush hour window %d-%d", rh.Start, rh.End))
		}
	}
	return errors.Join(errs...)
}

// parseRushHours reads windows like "7-9,17-19".
func parseRushHours(v string) ([]demand.HourRange, error) {
	var out []demand.HourRange
	for _, part := range splitAndTrim(v) {
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("window %q is not start-end", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, err
		}
		end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, err
		}
		out = append(out, demand.HourRange{Start: start, End: end})
	}
	return out, nil
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setFloatFromEnv(target *float64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = f
	}
}

func setIntFromEnv(target *int, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func setInt64FromEnv(target *int64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
