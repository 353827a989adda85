package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

const HelpMessage = `
Fair Fares server

Usage:
  fareserver --mode=<mode> [--config-path=config.yaml]

Modes:
  fare-service   serve the fare HTTP API, the dashboard websocket and /metrics
  migrate        create the database schema and seed the development account

Every setting can be given in the YAML file or as an environment variable,
e.g. database.host in the file is DATABASE_HOST in the environment.
The environment wins.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig writes the effective configuration to stdout with secrets masked.
func PrintConfig(cfg *Config) {
	WriteConfig(os.Stdout, cfg)
}

func WriteConfig(w io.Writer, cfg *Config) {
	if cfg == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", cfg.Mode)
	fmt.Fprintf(&b, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(&b, "database: %s@%s:%s/%s (password %s)\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, mask(cfg.Database.Password))
	fmt.Fprintf(&b, "rabbitmq: %s@%s:%s (password %s)\n",
		cfg.RabbitMQ.User, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, mask(cfg.RabbitMQ.Password))
	fmt.Fprintf(&b, "services.fare_service: %s\n", cfg.Services.FareService)
	fmt.Fprintf(&b, "auth: ttl=%s secret=%s\n", cfg.Auth.AccessTokenTTL, mask(cfg.Auth.JWTSecret))
	guide := cfg.FareGuide.Path
	if guide == "" {
		guide = "(embedded)"
	}
	fmt.Fprintf(&b, "fareguide.path: %s\n", guide)
	fmt.Fprintf(&b, "ratelimit.login: %d/s burst %d\n", cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst)

	_, _ = io.WriteString(w, b.String())
}

func mask(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "***"
}
