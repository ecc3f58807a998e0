package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/branchsim/branchsim/sim/bank"
)

const envPrefix = "BRANCHSIM_"

// loadEnvFile exports the variables of a .env file. A missing file is
// fine; variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	logrus.Debugf("loaded environment from %s", path)
	return nil
}

type envSetter func(value string, cfg *bank.Config) error

var envOverrides = map[string]envSetter{
	"TELLERS": func(v string, cfg *bank.Config) (err error) {
		cfg.TransactionStations, err = strconv.Atoi(v)
		return err
	},
	"ACCOUNTS": func(v string, cfg *bank.Config) (err error) {
		cfg.AccountStations, err = strconv.Atoi(v)
		return err
	},
	"ARRIVAL_INTERVAL": func(v string, cfg *bank.Config) (err error) {
		cfg.ArrivalInterval, err = strconv.ParseFloat(v, 64)
		return err
	},
	"TRANSACTION_TIME": func(v string, cfg *bank.Config) (err error) {
		cfg.TransactionServiceMean, err = strconv.ParseFloat(v, 64)
		return err
	},
	"ACCOUNT_TIME": func(v string, cfg *bank.Config) (err error) {
		cfg.AccountServiceMean, err = strconv.ParseFloat(v, 64)
		return err
	},
	"CLIENT_MIX": func(v string, cfg *bank.Config) (err error) {
		cfg.ClientMix, err = strconv.ParseFloat(v, 64)
		return err
	},
	"HORIZON": func(v string, cfg *bank.Config) (err error) {
		cfg.Horizon, err = strconv.ParseFloat(v, 64)
		return err
	},
	"THROTTLE": func(v string, cfg *bank.Config) (err error) {
		cfg.Throttle, err = time.ParseDuration(v)
		return err
	},
	"SEED": func(v string, cfg *bank.Config) (err error) {
		cfg.Seed, err = strconv.ParseInt(v, 10, 64)
		return err
	},
	"RNG": func(v string, cfg *bank.Config) error {
		cfg.RNG = v
		return nil
	},
	"TRACE_LEVEL": func(v string, cfg *bank.Config) error {
		cfg.TraceLevel = v
		return nil
	},
}

// applyEnv overlays BRANCHSIM_* variables on cfg.
func applyEnv(cfg *bank.Config) error {
	var errs []error
	for name, set := range envOverrides {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		if err := set(v, cfg); err != nil {
			errs = append(errs, fmt.Errorf("%s%s=%q: %w", envPrefix, name, v, err))
		}
	}
	return errors.Join(errs...)
}
