package domain

// ServiceState is the lifecycle state of the search service.
type ServiceState int

// Service states. Degraded is reached from Loading when the cache could not
// be restored or built; the service still answers queries against whatever
// index exists.
const (
	StateUninitialized ServiceState = iota
	StateLoading
	StateReady
	StateDegraded
)

// String returns the string representation.
func (s ServiceState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Settled returns true once the service has left Loading for good.
func (s ServiceState) Settled() bool {
	return s == StateReady || s == StateDegraded
}
