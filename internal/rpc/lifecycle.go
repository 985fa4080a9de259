package rpc

import "sync"

// State is the connection's lifecycle state, advanced only by the
// initialize/initialized/shutdown/exit quartet. Every other method is
// gated by CheckRequest/CheckNotification against this state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateShuttingDown
	StateExited
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Lifecycle tracks one connection's position in the
// uninitialized -> running -> shutting-down -> exited state machine and
// guards the legal method transitions between states.
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

// NewLifecycle returns a Lifecycle starting in StateUninitialized.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateUninitialized}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Initialize transitions uninitialized -> running. Called once the
// initialize request has been handled (the initialized notification that
// follows does not itself change state; it only unblocks work that was
// waiting on client capabilities).
func (l *Lifecycle) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateUninitialized {
		return &stateError{from: l.state, method: "initialize"}
	}
	l.state = StateRunning
	return nil
}

// Shutdown transitions running -> shutting-down.
func (l *Lifecycle) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning {
		return &stateError{from: l.state, method: "shutdown"}
	}
	l.state = StateShuttingDown
	return nil
}

// Exit transitions to exited from any state and reports whether shutdown
// had already been requested — the exit notification's handler uses this
// to pick the process exit code (0 if shutdown preceded it, 1 otherwise).
func (l *Lifecycle) Exit() (cleanShutdown bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cleanShutdown = l.state == StateShuttingDown
	l.state = StateExited
	return cleanShutdown
}

// CheckRequest reports whether a general request (anything other than
// initialize/shutdown) is legal in the current state: requests other than
// initialize require StateRunning; any request after shutdown is rejected
// with InvalidRequest per the LSP spec.
func (l *Lifecycle) CheckRequest(method string) error {
	l.mu.Lock()
	state := l.state
	l.mu.Unlock()

	switch method {
	case "initialize":
		if state != StateUninitialized {
			return &stateError{from: state, method: method}
		}
		return nil
	case "shutdown":
		if state != StateRunning {
			return &stateError{from: state, method: method}
		}
		return nil
	default:
		if state == StateUninitialized {
			return &notInitializedError{method: method}
		}
		if state != StateRunning {
			return &stateError{from: state, method: method}
		}
		return nil
	}
}

type stateError struct {
	from   State
	method string
}

func (e *stateError) Error() string {
	return "method " + e.method + " is not valid while connection is " + e.from.String()
}

type notInitializedError struct {
	method string
}

func (e *notInitializedError) Error() string {
	return "method " + e.method + " called before initialize"
}
