package picker

// Status is the state of a Store.
type Status int

const (
	StatusUnloaded  Status = iota // No fetch has completed yet
	StatusLoaded                  // Options available, idle
	StatusFiltering               // A fetch is pending
	StatusSubmitted               // Terminal; the answer is final
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoaded:
		return "loaded"
	case StatusFiltering:
		return "filtering"
	case StatusSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// HostStatus is the coarse status used for the prompt prefix.
type HostStatus int

const (
	HostLoading HostStatus = iota
	HostIdle
	HostDone
)

// Host projects the store status onto the prefix status.
func (s Status) Host() HostStatus {
	switch s {
	case StatusLoaded:
		return HostIdle
	case StatusSubmitted:
		return HostDone
	default:
		return HostLoading
	}
}
