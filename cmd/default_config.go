package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/branchsim/branchsim/sim/bank"
)

// Defaults represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Defaults struct {
	Version string               `yaml:"version"`
	Presets map[string]yaml.Node `yaml:"presets"`
}

// loadDefaults parses defaults.yaml with strict field checking.
func loadDefaults(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read defaults file: %w", err)
	}
	var d Defaults
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return Defaults{}, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return d, nil
}

// Apply overlays the named preset on cfg. Preset keys are checked as
// strictly as a config file.
func (d Defaults) Apply(name string, cfg *bank.Config) error {
	node, ok := d.Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q (available: %v)", name, d.Names())
	}
	data, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	if err := bank.DecodeConfig(data, cfg); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	logrus.Debugf("applied preset %q", name)
	return nil
}

// Names returns the preset names in sorted order.
func (d Defaults) Names() []string {
	names := make([]string, 0, len(d.Presets))
	for name := range d.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presetsCmd lists the presets in the defaults file with their resolved
// configuration.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List run presets from the defaults file",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDefaults(defaultsPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range d.Names() {
			cfg := bank.DefaultConfig()
			if err := d.Apply(name, &cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "%-16s tellers=%d accounts=%d interval=%.2f mix=%.0f%% horizon=%.0f\n",
				name, cfg.TransactionStations, cfg.AccountStations, cfg.ArrivalInterval, cfg.ClientMix, cfg.Horizon)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVar(&defaultsPath, "defaults", "defaults.yaml", "Path to the defaults file holding presets")
}
