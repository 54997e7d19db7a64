package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings for the collection route service.
type Config struct {
	Env           string         // local, development, production
	Port          string         // HTTP listen port
	DBDriver      string         // sqlite or pgx
	DatabaseURL   string         // DSN or SQLite file path
	DepotSeedPath string         // JSON file with depot reference data
	LogLevel      string         // logrus level name
	LogFile       string         // optional rotating log file
	CORSOrigins   []string       // allowed browser origins
	Router        RouterConfig   // external road routing
	Cache         CacheConfig    // routed segment cache
	Estimate      EstimateConfig // distance and ETA constants
}

// RouterConfig configures the road-routing collaborator and how it is called.
type RouterConfig struct {
	Provider  string        // osrm, ors or straight
	BaseURL   string        // provider endpoint override
	Profile   string        // routing profile, e.g. driving or driving-car
	APIKey    string        // required for ors
	CallDelay time.Duration // pause between consecutive calls
	Timeout   time.Duration // per-edge deadline before falling back
	Budget    time.Duration // total routing time per plan; stays under the HTTP write timeout
}

// CacheConfig selects the routed segment cache backend.
type CacheConfig struct {
	Backend   string // none, sql or redis
	RedisAddr string
	TTL       time.Duration
}

// EstimateConfig holds the city-scale constants used for distance and ETA.
type EstimateConfig struct {
	SpeedKmh            float64
	DwellMinutesPerStop int
	KmPerDegree         float64
	DistanceMetric      string // euclidean or haversine
}

// MustLoad reads .env (if present) and the environment.
// It panics on malformed values since the service cannot start with them.
func MustLoad() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:           Get("APP_ENV", "production"),
		Port:          Get("PORT", "8080"),
		DBDriver:      Get("DB_DRIVER", "sqlite"),
		DatabaseURL:   Get("DATABASE_URL", "data/routes.db"),
		DepotSeedPath: Get("DEPOT_SEED_PATH", "data/seeds/depots.json"),
		LogLevel:      Get("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		CORSOrigins:   splitList(Get("CORS_ORIGINS", "http://localhost:5173")),
		Router: RouterConfig{
			Provider:  Get("ROUTER_PROVIDER", "osrm"),
			BaseURL:   os.Getenv("ROUTER_BASE_URL"),
			Profile:   os.Getenv("ROUTER_PROFILE"),
			APIKey:    os.Getenv("ORS_API_KEY"),
			CallDelay: mustDuration("ROUTER_CALL_DELAY", "200ms"),
			Timeout:   mustDuration("ROUTER_CALL_TIMEOUT", "5s"),
			Budget:    mustDuration("ROUTER_PLAN_BUDGET", "90s"),
		},
		Cache: CacheConfig{
			Backend:   Get("SEGMENT_CACHE", "sql"),
			RedisAddr: Get("REDIS_ADDR", "localhost:6379"),
			TTL:       mustDuration("SEGMENT_CACHE_TTL", "168h"),
		},
		Estimate: EstimateConfig{
			SpeedKmh:            mustFloat("ETA_SPEED_KMH", "22"),
			DwellMinutesPerStop: mustInt("ETA_DWELL_MINUTES", "3"),
			KmPerDegree:         mustFloat("KM_PER_DEGREE", "111.32"),
			DistanceMetric:      Get("ROUTE_DISTANCE_METRIC", "euclidean"),
		},
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func mustDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(Get(key, fallback))
	if err != nil || d < 0 {
		panic("failed to parse " + key + " from configuration, must be a duration")
	}
	return d
}

func mustFloat(key, fallback string) float64 {
	f, err := strconv.ParseFloat(Get(key, fallback), 64)
	if err != nil || f <= 0 {
		panic("failed to parse " + key + " from configuration, must be a positive number")
	}
	return f
}

func mustInt(key, fallback string) int {
	n, err := strconv.Atoi(Get(key, fallback))
	if err != nil || n < 0 {
		panic("failed to parse " + key + " from configuration, must be a non-negative integer")
	}
	return n
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
