package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"dialoguecast/internal/queue"
)

const liveSnapshotInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is consumed by a local player frontend.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleLive streams queue snapshots to a websocket client so a player UI
// can follow insertions and cursor movement without polling.
func (a *API) handleLive(w http.ResponseWriter, r *http.Request) {
	overviewID := r.PathValue("overviewId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(liveSnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			var snap queue.Snapshot
			_ = a.queues.With(overviewID, func(q *queue.Queue) error {
				snap = q.Snapshot()
				return nil
			})
			if err := conn.WriteJSON(snap); err != nil {
				logrus.WithError(err).Debug("live snapshot client gone")
				return
			}
		}
	}
}
