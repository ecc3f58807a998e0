package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"github.com/branchsim/branchsim/sim"
)

// StationReport holds the end-of-run statistics of one station.
type StationReport struct {
	Name               string  `yaml:"name" json:"name"`
	Served             int     `yaml:"served" json:"served"`
	AverageServiceTime float64 `yaml:"average_service_time" json:"average_service_time"`
	AverageWaitTime    float64 `yaml:"average_wait_time" json:"average_wait_time"`
}

func newStationReport(s *sim.Station) StationReport {
	return StationReport{
		Name:               s.Name(),
		Served:             s.Served(),
		AverageServiceTime: s.AverageServiceTime(),
		AverageWaitTime:    s.AverageWaitTime(),
	}
}

// Report is handed to the listener when a run reaches its horizon.
type Report struct {
	RunID             string          `yaml:"run_id" json:"run_id"`
	EndTime           float64         `yaml:"end_time" json:"end_time"`
	TotalServed       int             `yaml:"total_served" json:"total_served"`
	TransactionServed int             `yaml:"transaction_served" json:"transaction_served"`
	AccountServed     int             `yaml:"account_served" json:"account_served"`
	MeanTimeInSystem  float64         `yaml:"mean_time_in_system" json:"mean_time_in_system"`
	Dispenser         StationReport   `yaml:"dispenser" json:"dispenser"`
	Tellers           []StationReport `yaml:"tellers" json:"tellers"`
	Accounts          []StationReport `yaml:"accounts" json:"accounts"`
	Config            Config          `yaml:"config" json:"config"`
}

// Print writes the report in the branch's plain-text layout.
func (r *Report) Print(w io.Writer) error {
	var b strings.Builder
	c := r.Config

	b.WriteString("=== Simulation Settings ===\n")
	fmt.Fprintf(&b, "Number of Transaction Tellers: %d\n", c.TransactionStations)
	fmt.Fprintf(&b, "Number of Account Tellers: %d\n", c.AccountStations)
	fmt.Fprintf(&b, "Client Arrival Interval: %.2f minutes\n", c.ArrivalInterval)
	fmt.Fprintf(&b, "Transaction Service Time: %.2f minutes\n", c.TransactionServiceMean)
	fmt.Fprintf(&b, "Account Service Time: %.2f minutes\n", c.AccountServiceMean)
	fmt.Fprintf(&b, "Client Distribution (Transaction/Account): %.1f%% / %.1f%%\n", c.ClientMix, 100-c.ClientMix)

	b.WriteString("\n=== Simulation Results ===\n")
	fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(&b, "Simulation ended at: %.2f minutes\n", r.EndTime)
	fmt.Fprintf(&b, "Total Customers Served: %d\n", r.TotalServed)
	fmt.Fprintf(&b, "Mean Time in System: %.2f minutes\n", r.MeanTimeInSystem)

	b.WriteString("\nQueue Automat Statistics:\n")
	writeStationStats(&b, "Queue Automat", r.Dispenser)

	b.WriteString("\nTransaction Tellers Statistics:\n")
	for i, s := range r.Tellers {
		writeStationStats(&b, fmt.Sprintf("Teller %d", i+1), s)
	}
	fmt.Fprintf(&b, "Total Transaction Customers: %d\n", r.TransactionServed)

	b.WriteString("\nAccount Operations Teller Statistics:\n")
	for i, s := range r.Accounts {
		writeStationStats(&b, fmt.Sprintf("Account Teller %d", i+1), s)
	}
	fmt.Fprintf(&b, "Total Account Customers: %d\n", r.AccountServed)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStationStats(b *strings.Builder, label string, s StationReport) {
	fmt.Fprintf(b, "%s:\n", label)
	fmt.Fprintf(b, "  Customers Served: %d\n", s.Served)
	fmt.Fprintf(b, "  Average Service Time: %.2f minutes\n", s.AverageServiceTime)
	fmt.Fprintf(b, "  Average Queue Time: %.2f minutes\n", s.AverageWaitTime)
}

// WriteYAML encodes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func newRunID() string {
	return xid.New().String()
}
