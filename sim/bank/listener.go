package bank

// Listener receives a run's outputs. OnQueueUpdate is called from a
// separate goroutine once after initialization and once per mutating
// event, in event order; a slow listener delays delivery but never the
// run. OnCustomerServed and OnComplete are called on the run goroutine and
// should return quickly.
type Listener interface {
	OnQueueUpdate(status QueueStatus)
	OnCustomerServed(total int)
	// OnComplete is called once when the run reaches its horizon. It is
	// never called for a cancelled or failed run.
	OnComplete(report *Report)
}

// ListenerFuncs adapts optional callbacks to Listener. Nil fields are
// skipped.
type ListenerFuncs struct {
	QueueUpdate    func(QueueStatus)
	CustomerServed func(int)
	Complete       func(*Report)
}

func (f ListenerFuncs) OnQueueUpdate(status QueueStatus) {
	if f.QueueUpdate != nil {
		f.QueueUpdate(status)
	}
}

func (f ListenerFuncs) OnCustomerServed(total int) {
	if f.CustomerServed != nil {
		f.CustomerServed(total)
	}
}

func (f ListenerFuncs) OnComplete(report *Report) {
	if f.Complete != nil {
		f.Complete(report)
	}
}
