// Package config loads BOREAL configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full runtime configuration, parsed from environment
// variables.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`

	HTTP struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}

	Solver struct {
		// LibraryPath locates the external solver shared library.
		LibraryPath string `env:"BOREAL_SOLVER_LIBRARY" envDefault:"/usr/local/lib/libworhp.so"`
		// ParamFile is the solver parameter file read once per call;
		// the environment variable overrides the conventional name.
		ParamFile string `env:"BOREAL_PARAM_FILE" envDefault:"param.xml"`
		// ScreenOutput enables the solver's native output instead of
		// host-managed verbosity logging.
		ScreenOutput bool `env:"BOREAL_SCREEN_OUTPUT" envDefault:"false"`
		// Verbosity records progress every N objective evaluations;
		// zero disables recording. Mutually exclusive with
		// ScreenOutput.
		Verbosity uint `env:"BOREAL_VERBOSITY" envDefault:"0"`
		// Native runs the built-in stand-in capability instead of
		// loading the shared library.
		Native bool `env:"BOREAL_NATIVE" envDefault:"false"`
	}
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
