package window

import (
	"encoding/json"
	"sync"
	"time"

	"acrn-configurator/history"
)

// Event is pushed to connected frontends when shared state changes. Kind
// is sent as its numeric tag and only set for history events.
type Event struct {
	Type string       `json:"type"`
	Kind history.Kind `json:"kind,omitempty"`
}

// Window is one open frontend window. It carries the working folder chosen
// in that window so board writes never see another window's selection.
type Window struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	connected     bool
	lastActive    time.Time
	workingFolder string
	outChan       chan Event
	kickChan      chan struct{}
	done          chan struct{}
}

type windowJSON struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active"`
	Connected     bool      `json:"connected"`
	WorkingFolder string    `json:"working_folder"`
}

func (w *Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.snapshot())
}

func (w *Window) snapshot() windowJSON {
	w.mu.Lock()
	defer w.mu.Unlock()
	return windowJSON{
		ID:            w.ID,
		CreatedAt:     w.CreatedAt,
		LastActive:    w.lastActive,
		Connected:     w.connected,
		WorkingFolder: w.workingFolder,
	}
}

func (w *Window) SetWorkingFolder(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workingFolder = path
	w.lastActive = time.Now()
}

// idleBefore reports whether w has no client and has seen no activity
// since cutoff.
func (w *Window) idleBefore(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.connected && w.lastActive.Before(cutoff)
}

func (w *Window) WorkingFolder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.workingFolder
}

// SetClient registers a channel to receive events. If a previous client is
// connected it is kicked: its kick channel is closed so the websocket
// handler can close that connection. The returned channel is closed if this
// client is itself later displaced.
func (w *Window) SetClient(ch chan Event) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.kickChan != nil {
		close(w.kickChan)
	}
	kick := make(chan struct{})
	w.kickChan = kick
	w.outChan = ch
	w.connected = true
	w.lastActive = time.Now()
	return kick
}

// ClearClient is called when a connection ends. It only updates window
// state if ch is still the current owner. It always closes ch so the pump
// goroutine exits.
func (w *Window) ClearClient(ch chan Event) {
	w.mu.Lock()
	if w.outChan == ch {
		w.outChan = nil
		w.connected = false
		w.kickChan = nil
		w.lastActive = time.Now()
	}
	w.mu.Unlock()
	close(ch)
}

// notify delivers ev without blocking; a slow client misses events.
func (w *Window) notify(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outChan == nil {
		return
	}
	select {
	case w.outChan <- ev:
	default:
	}
}

// Done returns a channel that is closed when the window is closed.
func (w *Window) Done() <-chan struct{} {
	return w.done
}
