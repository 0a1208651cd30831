package board

import (
	"encoding/json"
	"errors"
	"fmt"

	"kinetis/core"
)

var ErrInvalidConfig = errors.New("invalid board config")

// Config describes the oscillators and timing of a board
type Config struct {
	Name           string `json:"name"`
	ExternalHz     uint32 `json:"external_hz"`      // Crystal or external oscillator
	SlowInternalHz uint32 `json:"slow_internal_hz"` // Slow IRC
	FastInternalHz uint32 `json:"fast_internal_hz"` // Fast IRC
	TickHz         uint32 `json:"tick_hz"`          // Tick interrupt rate
	UARTBaud       uint32 `json:"uart_baud"`        // Report UART baud rate
	Strict         bool   `json:"strict"`           // Reject reserved clock selectors
}

// LoadConfig parses a JSON configuration and applies defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, fmt.Errorf("parse board config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing values with the FRDM-KL25Z settings
func applyDefaults(config *Config) {
	if config.Name == "" {
		config.Name = "frdm-kl25z"
	}
	if config.ExternalHz == 0 {
		config.ExternalHz = core.DefaultExternalHz
	}
	if config.SlowInternalHz == 0 {
		config.SlowInternalHz = core.DefaultSlowInternalHz
	}
	if config.FastInternalHz == 0 {
		config.FastInternalHz = core.DefaultFastInternalHz
	}
	if config.TickHz == 0 {
		config.TickHz = core.TickHz
	}
	if config.UARTBaud == 0 {
		config.UARTBaud = 9600
	}
}

// DefaultConfig returns the FRDM-KL25Z configuration
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Validate checks that the tick rate can be derived from the oscillators
func (c *Config) Validate() error {
	if c.TickHz > c.SlowInternalHz {
		return fmt.Errorf("%w: tick_hz %d exceeds slow_internal_hz %d", ErrInvalidConfig, c.TickHz, c.SlowInternalHz)
	}
	if c.FastInternalHz < c.SlowInternalHz {
		return fmt.Errorf("%w: fast_internal_hz %d below slow_internal_hz %d", ErrInvalidConfig, c.FastInternalHz, c.SlowInternalHz)
	}
	return nil
}

// Board returns the oscillator constants used by the clock resolver
func (c *Config) Board() core.Board {
	return core.Board{
		ExternalHz:     c.ExternalHz,
		SlowInternalHz: c.SlowInternalHz,
		FastInternalHz: c.FastInternalHz,
	}
}

// Resolver returns a clock resolver for this board
func (c *Config) Resolver() *core.Resolver {
	return &core.Resolver{Board: c.Board(), Strict: c.Strict}
}
