// Package session holds the dashboard's control flags and the transitions
// that move between them.
package session

import (
	"errors"
	"sync"

	"github.com/tinytelemetry/ftscope/internal/model"
)

// ErrDisconnected is returned by Start while no device is connected.
var ErrDisconnected = errors.New("session: not connected")

// Snapshot is a point-in-time copy of the session flags.
type Snapshot struct {
	Running   bool
	Recording bool
	Connected bool
	InFlight  bool
	Filename  string
}

// State is the single owner of running/recording/connected. The polling
// driver and the UI share one instance.
type State struct {
	mu        sync.Mutex
	running   bool
	recording bool
	connected bool
	inFlight  bool
	filename  string
}

// New returns a stopped, disconnected, non-recording state.
func New() *State {
	return &State{}
}

// Start enables polling. It refuses while disconnected and leaves running
// untouched.
func (s *State) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ErrDisconnected
	}
	s.running = true
	return nil
}

// Stop disables polling.
func (s *State) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// ApplyConnect records the backend's connect reply. Only the exact success
// message marks the session connected.
func (s *State) ApplyConnect(reply model.ConnectReply) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = reply.Filename
	if reply.Succeeded() {
		s.connected = true
	}
	return s.connected
}

// BeginDisconnect stops polling and marks the session disconnected. Callers
// apply it before issuing the disconnect request.
func (s *State) BeginDisconnect() {
	s.mu.Lock()
	s.running = false
	s.connected = false
	s.mu.Unlock()
}

// SetRecording sets whether fetched samples are persisted by the backend.
func (s *State) SetRecording(on bool) {
	s.mu.Lock()
	s.recording = on
	s.mu.Unlock()
}

// ToggleRecording flips the recording flag and returns the new value.
func (s *State) ToggleRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = !s.recording
	return s.recording
}

// Running reports whether polling is enabled.
func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Recording reports whether the backend should persist samples.
func (s *State) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Connected reports whether a device connection is established.
func (s *State) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// TryBeginFetch claims the single fetch slot. It fails when polling is
// disabled or a fetch is already outstanding. The returned bool is the
// recording flag to send with the request.
func (s *State) TryBeginFetch() (write bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.inFlight {
		return false, false
	}
	s.inFlight = true
	return s.recording, true
}

// EndFetch releases the fetch slot.
func (s *State) EndFetch() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Snapshot returns a copy of all flags.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Running:   s.running,
		Recording: s.recording,
		Connected: s.connected,
		InFlight:  s.inFlight,
		Filename:  s.filename,
	}
}
