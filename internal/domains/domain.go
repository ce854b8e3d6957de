package domains

type Domain interface {
	ConnectDependencies() error
	Start() error
}

// Stoppable is implemented by domains that hold resources until shutdown.
type Stoppable interface {
	Stop() error
}
