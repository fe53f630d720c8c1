package toast

import "sync"

// Kind distinguishes success from error toasts.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// State is a snapshot of the toast presentation.
type State struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
	Visible bool   `json:"visible"`
}

// Machine is the Hidden <-> Visible finite-state machine driven by controller
// outcomes. Hide keeps the last message and kind so exit animations can still
// read them. Message, kind and visibility only move together, through the
// closed event set below.
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts hidden with a success kind, matching a freshly opened form.
func NewMachine() *Machine {
	return &Machine{state: State{Kind: KindSuccess}}
}

// ShowSuccess transitions to Visible with a success kind.
func (m *Machine) ShowSuccess(message string) {
	if message == "" {
		message = "Success!"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{Message: message, Kind: KindSuccess, Visible: true}
}

// ShowError transitions to Visible with an error kind.
func (m *Machine) ShowError(message string) {
	if message == "" {
		message = "Error!"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{Message: message, Kind: KindError, Visible: true}
}

// Hide transitions to Hidden, preserving the last message and kind.
func (m *Machine) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Visible = false
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
