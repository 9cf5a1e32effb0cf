package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"acrn-configurator/window"
)

var upgrader = websocket.Upgrader{
	// The frontend is served by this process or loaded by the desktop shell
	// from a custom scheme, so the origin is not checked.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is what the client sends over the socket.
type wsMessage struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	win, ok := h.lookupWindow(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "window", win.ID, "err", err)
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeEvent := func(ev window.Event) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(ev)
	}

	outChan := make(chan window.Event, 16)
	kick := win.SetClient(outChan)
	defer win.ClearClient(outChan)

	// Exits when ClearClient closes outChan.
	go func() {
		for ev := range outChan {
			if err := writeEvent(ev); err != nil {
				return
			}
		}
	}()

	// Close the connection on window close or displacement so ReadJSON
	// below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-win.Done():
			writeEvent(window.Event{Type: "closed"}) //nolint:errcheck
			conn.Close()
		case <-kick:
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "set_working_folder":
			win.SetWorkingFolder(msg.Data)
		case "ping":
			if err := writeEvent(window.Event{Type: "pong"}); err != nil {
				return
			}
		}
	}
}
