package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RelayURL string `envconfig:"RELAY_URL" default:"ws://localhost:8080"`
	Token    string `envconfig:"RELAY_TOKEN" required:"true"`
	RoomID   string `envconfig:"ROOM_ID" required:"true"`
	// CLIENT_COLOURS enables colorized output
	Colours bool `envconfig:"CLIENT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
