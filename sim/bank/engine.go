package bank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/branchsim/branchsim/sim"
	"github.com/branchsim/branchsim/sim/dist"
	"github.com/branchsim/branchsim/sim/trace"
)

// Event types scheduled by the branch.
const (
	EventArrival            sim.EventType = "ARR_DISPENSER"
	EventDispenserDeparture sim.EventType = "DEP_DISPENSER"
	EventTellerDeparture    sim.EventType = "DEP_TELLER"
	EventAccountDeparture   sim.EventType = "DEP_ACCOUNT"
)

const (
	tellerSubsystemClass  = "teller"
	accountSubsystemClass = "account"
)

// ErrAlreadyRun is returned by a second call to BankEngine.Run.
var ErrAlreadyRun = errors.New("bank engine already run")

// Samplers overrides the distributions built from Config. Nil fields keep
// the configured distribution. Tests use it to pin arrival and service
// times.
type Samplers struct {
	Arrival   dist.ContinuousSampler
	Dispenser dist.ContinuousSampler
	Teller    func(i int) dist.ContinuousSampler
	Account   func(i int) dist.ContinuousSampler
	Class     dist.DiscreteSampler
}

// Option configures a BankEngine.
type Option func(*BankEngine)

// WithListener sets the receiver of snapshots, served counts and the
// final report.
func WithListener(l Listener) Option {
	return func(b *BankEngine) { b.listener = l }
}

// WithControl shares a RunControl, so a caller can pause or throttle the
// run from another goroutine.
func WithControl(c *sim.RunControl) Option {
	return func(b *BankEngine) { b.control = c }
}

// WithSamplers overrides the configured distributions.
func WithSamplers(s Samplers) Option {
	return func(b *BankEngine) { b.overrides = s }
}

// WithTrace records routing decisions into st instead of a trace built
// from Config.TraceLevel.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(b *BankEngine) { b.trace = st }
}

// BankEngine is the branch model: a ticket dispenser feeding transaction
// tellers and account desks. It implements sim.Model and is run once.
//
// All fields except status are owned by the run goroutine.
type BankEngine struct {
	cfg       Config
	engine    *sim.Engine
	control   *sim.RunControl
	rng       *sim.PartitionedRNG
	overrides Samplers
	listener  Listener
	trace     *trace.SimulationTrace

	customers  *sim.CustomerFactory
	arrivals   *sim.ArrivalProcess
	classDraw  dist.DiscreteSampler
	dispenser  *sim.Station
	tellers    []*sim.Station
	accounts   []*sim.Station
	arrivalKnd sim.EventKind

	served          int
	timeInSystemSum float64
	report          *Report

	publisher *statusPublisher
	ran       bool

	statusMu sync.RWMutex
	status   QueueStatus
}

// New validates cfg and builds the stations of the branch.
func New(cfg Config, opts ...Option) (*BankEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	b := &BankEngine{
		cfg:        cfg,
		listener:   ListenerFuncs{},
		customers:  sim.NewCustomerFactory(),
		arrivalKnd: sim.Kind(EventArrival),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.control == nil {
		b.control = sim.NewRunControl()
	}
	b.control.SetThrottle(cfg.Throttle)
	if b.trace == nil {
		b.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.TraceLevel)})
	}
	b.rng = sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed), dist.SourceKind(cfg.RNG))
	b.engine = sim.NewEngine(cfg.Horizon, b.control)

	if err := b.buildStations(); err != nil {
		return nil, err
	}
	classDraw, err := b.buildClassSampler()
	if err != nil {
		return nil, err
	}
	b.classDraw = classDraw
	return b, nil
}

func (b *BankEngine) buildStations() error {
	clock, events := b.engine.Clock(), b.engine.Events()

	sampler, err := b.serviceSampler(b.overrides.Dispenser, sim.SubsystemDispenser, b.cfg.DispenserServiceMean, b.cfg.DispenserServiceVariance)
	if err != nil {
		return fmt.Errorf("dispenser: %w", err)
	}
	b.dispenser = sim.NewStation(DispenserName, sampler, clock, events, sim.Kind(EventDispenserDeparture))

	b.tellers = make([]*sim.Station, b.cfg.TransactionStations)
	for i := range b.tellers {
		var override dist.ContinuousSampler
		if b.overrides.Teller != nil {
			override = b.overrides.Teller(i)
		}
		s, err := b.serviceSampler(override, sim.SubsystemStation(tellerSubsystemClass, i),
			b.cfg.TransactionServiceMean, b.cfg.TransactionServiceVariance())
		if err != nil {
			return fmt.Errorf("%s: %w", TellerName(i), err)
		}
		b.tellers[i] = sim.NewStation(TellerName(i), s, clock, events, sim.StationKind(EventTellerDeparture, i))
	}

	b.accounts = make([]*sim.Station, b.cfg.AccountStations)
	for i := range b.accounts {
		var override dist.ContinuousSampler
		if b.overrides.Account != nil {
			override = b.overrides.Account(i)
		}
		s, err := b.serviceSampler(override, sim.SubsystemStation(accountSubsystemClass, i),
			b.cfg.AccountServiceMean, b.cfg.AccountServiceVariance())
		if err != nil {
			return fmt.Errorf("%s: %w", AccountName(i), err)
		}
		b.accounts[i] = sim.NewStation(AccountName(i), s, clock, events, sim.StationKind(EventAccountDeparture, i))
	}
	return nil
}

func (b *BankEngine) serviceSampler(override dist.ContinuousSampler, subsystem string, mean, variance float64) (dist.ContinuousSampler, error) {
	if override != nil {
		return override, nil
	}
	src, err := b.rng.ForSubsystem(subsystem)
	if err != nil {
		return nil, err
	}
	return dist.NewNormal(mean, variance, src)
}

func (b *BankEngine) buildClassSampler() (dist.DiscreteSampler, error) {
	if b.overrides.Class != nil {
		return b.overrides.Class, nil
	}
	src, err := b.rng.ForSubsystem(sim.SubsystemClientMix)
	if err != nil {
		return nil, err
	}
	return newClassSampler(b.cfg.ClientMix, src)
}

func (b *BankEngine) arrivalSampler(mean float64) (dist.ContinuousSampler, error) {
	src, err := b.rng.ForSubsystem(sim.SubsystemArrivals)
	if err != nil {
		return nil, err
	}
	return dist.NewNegexp(mean, src)
}

// Run executes the branch until the horizon or until ctx is cancelled. A
// BankEngine runs once; build a new one for the next run.
func (b *BankEngine) Run(ctx context.Context) (sim.RunStatus, error) {
	if b.ran {
		return sim.StatusFailed, ErrAlreadyRun
	}
	b.ran = true

	b.publisher = newStatusPublisher(b.listener.OnQueueUpdate)
	defer b.publisher.Close()

	return b.engine.Run(ctx, b)
}

// SetArrivalInterval changes the mean interarrival time. The change is
// applied by the run goroutine at the next phase boundary: the pending
// arrival is dropped and a new one is drawn with the new mean.
func (b *BankEngine) SetArrivalInterval(mean float64) error {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return fmt.Errorf("arrival interval must be positive and finite, got %v", mean)
	}
	b.control.Submit(func() error { return b.applyArrivalInterval(mean) })
	return nil
}

func (b *BankEngine) applyArrivalInterval(mean float64) error {
	sampler, err := b.arrivalSampler(mean)
	if err != nil {
		return fmt.Errorf("arrival interval: %w", err)
	}
	b.cfg.ArrivalInterval = mean
	removed := b.engine.Events().RemoveKind(b.arrivalKnd)
	b.arrivals = sim.NewArrivalProcess(sampler, b.engine.Clock(), b.engine.Events(), b.arrivalKnd)
	next, err := b.arrivals.GenerateNext()
	if err != nil {
		return err
	}
	logrus.Infof("[t=%10.4f] arrival interval set to %.4f (dropped %d pending, next arrival at %.4f)",
		b.engine.Clock().Now(), mean, removed, next)
	return nil
}

// Initialize implements sim.Model.
func (b *BankEngine) Initialize() error {
	b.customers.Reset()
	b.trace.Reset()
	b.served = 0
	b.timeInSystemSum = 0
	b.report = nil

	sampler := b.overrides.Arrival
	if sampler == nil {
		var err error
		if sampler, err = b.arrivalSampler(b.cfg.ArrivalInterval); err != nil {
			return fmt.Errorf("arrivals: %w", err)
		}
	}
	b.arrivals = sim.NewArrivalProcess(sampler, b.engine.Clock(), b.engine.Events(), b.arrivalKnd)
	if _, err := b.arrivals.GenerateNext(); err != nil {
		return err
	}
	b.publishStatus()
	return nil
}

// HandleEvent implements sim.Model.
func (b *BankEngine) HandleEvent(ev sim.Event) error {
	kind := ev.Kind()
	switch kind.Type {
	case EventArrival:
		return b.handleArrival()
	case EventDispenserDeparture:
		return b.handleDispenserDeparture()
	case EventTellerDeparture:
		return b.handleServiceDeparture(b.tellers, kind.Index)
	case EventAccountDeparture:
		return b.handleServiceDeparture(b.accounts, kind.Index)
	default:
		return fmt.Errorf("unknown event kind %s", kind)
	}
}

func (b *BankEngine) handleArrival() error {
	now := b.engine.Clock().Now()
	draw, err := sim.DrawCount(b.classDraw, "client mix")
	if err != nil {
		return err
	}
	c := b.customers.New(classForDraw(draw), now)
	b.dispenser.Enqueue(c)
	logrus.Debugf("[t=%10.4f] %s arrives at %s", now, c, DispenserName)

	if _, err := b.arrivals.GenerateNext(); err != nil {
		return err
	}
	b.publishStatus()
	return nil
}

func (b *BankEngine) handleDispenserDeparture() error {
	c, err := b.dispenser.CompleteService()
	if err != nil {
		return err
	}
	if c != nil {
		b.route(c)
	}
	b.publishStatus()
	return nil
}

func (b *BankEngine) route(c *sim.Customer) {
	stations := b.tellers
	if c.Type == sim.AccountCustomer {
		stations = b.accounts
	}
	decision := ShortestQueue(stations)
	now := b.engine.Clock().Now()
	if b.trace.Config.Enabled() {
		b.trace.RecordRouting(routingRecord(c, now, stations, decision))
	}
	stations[decision.Index].Enqueue(c)
	logrus.Debugf("[t=%10.4f] %s routed to %s, %s", now, c, decision.Target, decision.Reason)
}

func (b *BankEngine) handleServiceDeparture(stations []*sim.Station, i int) error {
	if i < 0 || i >= len(stations) {
		return fmt.Errorf("departure from station index %d out of range [0, %d)", i, len(stations))
	}
	c, err := stations[i].CompleteService()
	if err != nil {
		return err
	}
	if c != nil {
		now := b.engine.Clock().Now()
		c.RemovalTime = now
		b.timeInSystemSum += c.TimeInSystem()
		b.served++
		logrus.Debugf("[t=%10.4f] %s leaves %s after %.4f in system", now, c, stations[i].Name(), c.TimeInSystem())
		b.listener.OnCustomerServed(b.served)
	}
	b.publishStatus()
	return nil
}

// TryStartIdleServices implements sim.Model.
func (b *BankEngine) TryStartIdleServices() error {
	for _, s := range b.Stations() {
		if s.IsBusy() || !s.HasWaiting() {
			continue
		}
		if err := s.BeginService(); err != nil {
			return err
		}
	}
	return nil
}

// Finalize implements sim.Model.
func (b *BankEngine) Finalize() error {
	r := &Report{
		RunID:       newRunID(),
		EndTime:     b.engine.Clock().Now(),
		TotalServed: b.served,
		Dispenser:   newStationReport(b.dispenser),
		Tellers:     make([]StationReport, len(b.tellers)),
		Accounts:    make([]StationReport, len(b.accounts)),
		Config:      b.cfg,
	}
	for i, s := range b.tellers {
		r.Tellers[i] = newStationReport(s)
		r.TransactionServed += s.Served()
	}
	for i, s := range b.accounts {
		r.Accounts[i] = newStationReport(s)
		r.AccountServed += s.Served()
	}
	if b.served > 0 {
		r.MeanTimeInSystem = b.timeInSystemSum / float64(b.served)
	}
	b.report = r
	logrus.Infof("[t=%10.4f] report %s: %d customers served", r.EndTime, r.RunID, r.TotalServed)
	b.listener.OnComplete(r)
	return nil
}

func (b *BankEngine) publishStatus() {
	qs := make(QueueStatus, 1+len(b.tellers)+len(b.accounts))
	for _, s := range b.Stations() {
		qs[s.Name()] = snapshotStation(s)
	}

	b.statusMu.Lock()
	b.status = qs
	b.statusMu.Unlock()

	if b.publisher != nil {
		b.publisher.Publish(qs)
	}
}

// QueueStatus returns the most recent snapshot. Safe for concurrent use.
func (b *BankEngine) QueueStatus() QueueStatus {
	b.statusMu.RLock()
	defer b.statusMu.RUnlock()
	return b.status
}

// SnapshotsDone is closed once the listener has received the last
// snapshot of a finished run.
func (b *BankEngine) SnapshotsDone() <-chan struct{} {
	if b.publisher == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return b.publisher.Done()
}

// Stations returns the dispenser followed by the tellers and the account
// desks.
func (b *BankEngine) Stations() []*sim.Station {
	all := make([]*sim.Station, 0, 1+len(b.tellers)+len(b.accounts))
	all = append(all, b.dispenser)
	all = append(all, b.tellers...)
	return append(all, b.accounts...)
}

func (b *BankEngine) Dispenser() *sim.Station { return b.dispenser }

func (b *BankEngine) Tellers() []*sim.Station { return b.tellers }

func (b *BankEngine) Accounts() []*sim.Station { return b.accounts }

// Engine exposes the underlying loop, e.g. to attach hooks.
func (b *BankEngine) Engine() *sim.Engine { return b.engine }

func (b *BankEngine) Control() *sim.RunControl { return b.control }

func (b *BankEngine) Trace() *trace.SimulationTrace { return b.trace }

// Served returns the number of customers that completed service at a
// teller or account desk.
func (b *BankEngine) Served() int { return b.served }

// Arrived returns the number of customers that drew a ticket.
func (b *BankEngine) Arrived() int { return b.customers.Issued() }

// Report returns the final report, or nil before the run completes.
func (b *BankEngine) Report() *Report { return b.report }

// Config returns the configuration, including applied live updates.
// Read it from the run goroutine or after Run returns.
func (b *BankEngine) Config() Config { return b.cfg }
