package depot

import (
	"io"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds process-wide defaults applied to every new World.
var Config config = config{
	logger:          zerolog.Nop(),
	initialCapacity: 256,
	workers:         runtime.GOMAXPROCS(0),
}

type config struct {
	logger          zerolog.Logger
	initialCapacity int
	workers         int
}

// SetLogger sets the default world logger.
func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// SetInitialCapacity sets how many rows a new archetype preallocates per column.
func (c *config) SetInitialCapacity(n int) {
	c.initialCapacity = n
}

// SetWorkers sets the worker count of the default pool.
func (c *config) SetWorkers(n int) {
	c.workers = n
}

// Option configures a World at construction.
type Option func(*World)

func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithWorkerPool replaces the default SemaphorePool.
func WithWorkerPool(pool WorkerPool) Option {
	return func(w *World) {
		w.pool = pool
	}
}

func WithInitialCapacity(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.capacity = n
		}
	}
}

// WorldConfig is the file form of a world's settings.
type WorldConfig struct {
	InitialCapacity int           `toml:"initial_capacity"`
	Workers         int           `toml:"workers"`
	Logging         LoggingConfig `toml:"logging"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func defaultWorldConfig() WorldConfig {
	return WorldConfig{
		InitialCapacity: Config.initialCapacity,
		Workers:         Config.workers,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWorldConfig reads a TOML file. Keys missing from the file keep their defaults.
func LoadWorldConfig(path string) (WorldConfig, error) {
	cfg := defaultWorldConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return WorldConfig{}, eris.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// ParseWorldConfig decodes TOML text. Keys missing from data keep their defaults.
func ParseWorldConfig(data string) (WorldConfig, error) {
	cfg := defaultWorldConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return WorldConfig{}, eris.Wrap(err, "parse config")
	}
	return cfg, nil
}

// Logger builds the logger described by the logging section, writing to out.
func (c WorldConfig) Logger(out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console":
		out = zerolog.ConsoleWriter{Out: out}
	case "json", "":
	default:
		return zerolog.Nop(), eris.Errorf("invalid log format %q", c.Logging.Format)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// Options converts the config into world options, with logs written to out.
func (c WorldConfig) Options(out io.Writer) ([]Option, error) {
	logger, err := c.Logger(out)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithLogger(logger),
		WithInitialCapacity(c.InitialCapacity),
		WithWorkerPool(NewSemaphorePool(c.Workers)),
	}, nil
}
