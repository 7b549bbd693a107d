package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Configuration is loaded from the environment; defaults suit local
// development against a UI dev server.
type Configuration struct {
	Server struct {
		Addr         string `envconfig:"SERVER_ADDR" default:":3000"`
		AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:5173"`
	}
	Game struct {
		ClockSeconds int `envconfig:"GAME_CLOCK_SECONDS" default:"600"`
	}
}

func Load() (*Configuration, error) {
	cfg := &Configuration{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
