package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; everything except the database and broker
// settings has a default so the service runs out of the box.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	StorePath   string // seat map document
	CatalogPath string // YAML show catalog; empty uses the built-in shows
	Venue       string // printed on every ticket
	TicketFont  string // optional UTF-8 TrueType font for ticket text
	SeatRows    int
	SeatCols    int
	VIPRows     []string
	NormalPrice int
	VIPPrice    int
	Prebooked   []string // seats booked when a show's map is first seeded

	JWTSecret    string // operator endpoints are disabled when empty
	AccessTTLMin int

	LogLevel  string
	LogFormat string

	DBUser string // database settings; the MySQL booking log is used only when DBHost is set
	DBPass string
	DBHost string
	DBPort string
	DBName string

	AMQPURL string // RabbitMQ; booking events are published only when set
}

// LoadDotEnv reads .env into the process environment if the file exists.
// Variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Malformed numbers are reported instead of silently defaulted.
func Load() (Config, error) {
	var errs []error
	num := func(key string, def int) int {
		n, err := intVar(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "5000"),
		StorePath:    envStr("SEAT_STORE_PATH", "data/seats.json"),
		CatalogPath:  os.Getenv("CATALOG_PATH"),
		Venue:        envStr("VENUE_NAME", "Rangbhumi RSCOE"),
		TicketFont:   os.Getenv("TICKET_FONT_PATH"),
		SeatRows:     num("SEAT_ROWS", 5),
		SeatCols:     num("SEAT_COLS", 10),
		VIPRows:      splitList(envStr("VIP_ROWS", "A")),
		NormalPrice:  num("NORMAL_PRICE", 30),
		VIPPrice:     num("VIP_PRICE", 50),
		Prebooked:    splitList(lookupStr("PREBOOKED_SEATS", "A3,A5,B7,C1,D10")),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: num("ACCESS_TOKEN_TTL_MIN", 60),
		LogLevel:     envStr("LOG_LEVEL", "INFO"),
		LogFormat:    envStr("LOG_FORMAT", "json"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       os.Getenv("DB_NAME"),
		AMQPURL:      amqpURL(),
	}
	if cfg.SeatRows < 1 || cfg.SeatRows > 26 {
		errs = append(errs, fmt.Errorf("SEAT_ROWS must be between 1 and 26, got %d", cfg.SeatRows))
	}
	if cfg.SeatCols < 1 {
		errs = append(errs, fmt.Errorf("SEAT_COLS must be positive, got %d", cfg.SeatCols))
	}
	if cfg.NormalPrice < 0 || cfg.VIPPrice < 0 {
		errs = append(errs, errors.New("seat prices must not be negative"))
	}
	if cfg.DBHost != "" && (cfg.DBUser == "" || cfg.DBName == "") {
		errs = append(errs, errors.New("DB_USER and DB_NAME are required when DB_HOST is set"))
	}
	return cfg, errors.Join(errs...)
}

// amqpURL keeps the broker variables the queue package has always read.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// lookupStr is envStr for variables where an explicit empty value means
// "none" rather than "default".
func lookupStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func intVar(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
