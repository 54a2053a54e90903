package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string  `env:"ENV" envDefault:"prod"`
	HTTP    HTTP    `envPrefix:"HTTP_"`
	Log     Logger  `envPrefix:"LOG_"`
	Sources Sources `envPrefix:"SOURCE_"`
	Sink    Sink    `envPrefix:"SINK_"`
}

type HTTP struct {
	Port              uint16        `env:"PORT" envDefault:"8080"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
}

// Sources locates the two extracts. Each may be a local path or an http(s) URL.
type Sources struct {
	Campaigns     string        `env:"CAMPAIGNS" envDefault:"attached_assets/adsabril.csv"`
	Orders        string        `env:"ORDERS" envDefault:"attached_assets/pedidosabril.csv"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	Watch         bool          `env:"WATCH" envDefault:"false"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"500ms"`
}

// Sink is the optional export target; both fields are required to export.
type Sink struct {
	URL    string `env:"URL"`
	Secret string `env:"SECRET"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
