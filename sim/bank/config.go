package bank

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/branchsim/branchsim/sim/dist"
	"github.com/branchsim/branchsim/sim/trace"
)

// Config describes one branch run. Times are in simulated minutes except
// Throttle, which is wall-clock delay per dispatched event.
type Config struct {
	TransactionStations      int           `yaml:"transaction_stations" json:"transaction_stations"`
	AccountStations          int           `yaml:"account_stations" json:"account_stations"`
	ArrivalInterval          float64       `yaml:"arrival_interval" json:"arrival_interval"`
	DispenserServiceMean     float64       `yaml:"dispenser_service_mean" json:"dispenser_service_mean"`
	DispenserServiceVariance float64       `yaml:"dispenser_service_variance" json:"dispenser_service_variance"`
	TransactionServiceMean   float64       `yaml:"transaction_service_mean" json:"transaction_service_mean"`
	AccountServiceMean       float64       `yaml:"account_service_mean" json:"account_service_mean"`
	ClientMix                float64       `yaml:"client_mix" json:"client_mix"` // percent of transaction customers
	Horizon                  float64       `yaml:"horizon" json:"horizon"`
	Throttle                 time.Duration `yaml:"throttle" json:"throttle"`
	Seed                     int64         `yaml:"seed" json:"seed"`
	RNG                      string        `yaml:"rng" json:"rng"`
	TraceLevel               string        `yaml:"trace_level" json:"trace_level"`
}

// DefaultConfig returns the stock branch: three tellers, one account desk.
func DefaultConfig() Config {
	return Config{
		TransactionStations:      3,
		AccountStations:          1,
		ArrivalInterval:          5,
		DispenserServiceMean:     1,
		DispenserServiceVariance: 1,
		TransactionServiceMean:   10,
		AccountServiceMean:       15,
		ClientMix:                80,
		Horizon:                  1000,
		Throttle:                 0,
		Seed:                     42,
		RNG:                      string(dist.SourcePCG),
		TraceLevel:               string(trace.TraceLevelNone),
	}
}

// LoadConfig reads a YAML run config on top of base, usually
// DefaultConfig. Unknown keys are rejected so typos fail loudly, and the
// result must validate.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := DecodeConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig strictly decodes YAML into cfg, keeping fields the
// document does not mention. An empty document is not an error.
func DecodeConfig(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.TransactionStations < 1 {
		errs = append(errs, fmt.Errorf("transaction_stations must be >= 1, got %d", c.TransactionStations))
	}
	if c.AccountStations < 1 {
		errs = append(errs, fmt.Errorf("account_stations must be >= 1, got %d", c.AccountStations))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"arrival_interval", c.ArrivalInterval},
		{"dispenser_service_mean", c.DispenserServiceMean},
		{"transaction_service_mean", c.TransactionServiceMean},
		{"account_service_mean", c.AccountServiceMean},
		{"horizon", c.Horizon},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive and finite, got %v", f.name, f.v))
		}
	}
	if c.DispenserServiceVariance < 0 || math.IsNaN(c.DispenserServiceVariance) || math.IsInf(c.DispenserServiceVariance, 0) {
		errs = append(errs, fmt.Errorf("dispenser_service_variance must be non-negative, got %v", c.DispenserServiceVariance))
	}
	if !(c.ClientMix >= 0 && c.ClientMix <= 100) {
		errs = append(errs, fmt.Errorf("client_mix must be within [0, 100], got %v", c.ClientMix))
	}
	if c.Throttle < 0 {
		errs = append(errs, fmt.Errorf("throttle must be >= 0, got %v", c.Throttle))
	}
	if !dist.IsValidSourceKind(c.RNG) {
		errs = append(errs, fmt.Errorf("unknown rng %q (want %q or %q)", c.RNG, dist.SourcePCG, dist.SourceMRG32k3a))
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		errs = append(errs, fmt.Errorf("unknown trace_level %q", c.TraceLevel))
	}
	return errors.Join(errs...)
}

// TransactionServiceVariance is half the mean, as the branch has always
// been modelled.
func (c Config) TransactionServiceVariance() float64 { return c.TransactionServiceMean / 2 }

// AccountServiceVariance is half the mean.
func (c Config) AccountServiceVariance() float64 { return c.AccountServiceMean / 2 }

// ThrottleForSpeed converts a 0-100 speed slider into a per-event delay:
// faster settings sleep less, but never below one millisecond.
func ThrottleForSpeed(slider int) time.Duration {
	ms := 100 - slider
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
