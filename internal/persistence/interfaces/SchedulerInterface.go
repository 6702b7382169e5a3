package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// StateKeeper is the owner of the live state the scheduler restores at
// startup and flushes on shutdown.
type StateKeeper interface {
	Restore() error
	Flush() error
}
