// Defines the Customer that flows through the branch: drawn a ticket at the
// dispenser, routed to a teller class, and removed once served.

package sim

import "fmt"

// CustomerType is the service class a customer needs.
type CustomerType int

const (
	// TransactionCustomer needs a deposit or withdrawal at a teller.
	TransactionCustomer CustomerType = iota + 1
	// AccountCustomer needs an account operation.
	AccountCustomer
)

func (t CustomerType) String() string {
	switch t {
	case TransactionCustomer:
		return "transaction"
	case AccountCustomer:
		return "account"
	default:
		return fmt.Sprintf("CustomerType(%d)", int(t))
	}
}

// MarshalText lets reports and snapshots render the class by name.
func (t CustomerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Customer is one visitor of the branch.
// The station currently holding a customer stamps QueueEnteredAt on enqueue
// and RemovalTime when the final service completes.
type Customer struct {
	ID             int          // unique within a run, assigned in arrival order from 1
	Type           CustomerType // service class
	ArrivalTime    float64      // simulated time of arrival at the dispenser
	QueueEnteredAt float64      // simulated time the customer joined its current queue
	RemovalTime    float64      // simulated time the last service completed
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer{id=%d, type=%s}", c.ID, c.Type)
}

// TimeInSystem returns RemovalTime - ArrivalTime.
func (c *Customer) TimeInSystem() float64 {
	return c.RemovalTime - c.ArrivalTime
}

// CustomerFactory assigns customer IDs. One factory belongs to one engine
// and is reset at the start of every run.
type CustomerFactory struct {
	lastID int
}

// NewCustomerFactory returns a factory whose first customer gets ID 1.
func NewCustomerFactory() *CustomerFactory {
	return &CustomerFactory{}
}

// New creates a customer of type t arriving at simulated time now.
func (f *CustomerFactory) New(t CustomerType, now float64) *Customer {
	f.lastID++
	return &Customer{ID: f.lastID, Type: t, ArrivalTime: now}
}

// Issued returns the number of customers created since the last reset.
func (f *CustomerFactory) Issued() int {
	return f.lastID
}

// Reset restarts ID assignment at 1.
func (f *CustomerFactory) Reset() {
	f.lastID = 0
}
