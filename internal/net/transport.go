package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"StudyBoard/internal/logger"
	"StudyBoard/internal/state"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 4096
)

// peer is one connected viewer. send is never closed; done signals the
// write pump to stop.
type peer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// offer queues msg, replacing anything the peer has not written yet.
// Every frame is a full board, so only the newest one matters.
func (p *peer) offer(msg []byte) {
	for {
		select {
		case p.send <- msg:
			return
		default:
		}
		select {
		case <-p.send:
		default:
		}
	}
}

// Hub is run by the HOST. It accepts viewer websockets and fans board
// frames out to all of them. Late joiners get the newest frame at once.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader
	seq      state.Clock

	mu     sync.RWMutex
	peers  map[*peer]string
	latest []byte

	// OnPeersChanged is called with the viewer count after a join or leave.
	OnPeersChanged func(n int)
}

// NewHub creates an empty hub.
func NewHub(l logger.Logger) *Hub {
	return &Hub{
		log:   l,
		peers: make(map[*peer]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// viewers on the LAN connect from desktop clients, not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Peers returns the number of connected viewers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Publish stamps m with the next sequence number and sends it to every
// viewer.
func (h *Hub) Publish(m Message) error {
	// latest must only ever move to a newer seq
	h.mu.Lock()
	m.Seq = h.seq.Tick()
	data, err := json.Marshal(m)
	if err != nil {
		h.mu.Unlock()
		return errors.Wrap(err, "marshal frame")
	}
	if m.Type == TypeFrame {
		h.latest = data
	}
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		p.offer(data)
	}
	return nil
}

// PublishSnapshot encodes snap and publishes it as a frame.
func (h *Hub) PublishSnapshot(snap state.Snapshot) error {
	m, err := FrameFromSnapshot(snap)
	if err != nil {
		return err
	}
	return h.Publish(m)
}

func (h *Hub) add(p *peer, addr string) int {
	h.mu.Lock()
	n := len(h.peers) + 1
	hello, _ := json.Marshal(Message{Type: TypeHello, Site: state.SiteID(), Peers: n})
	// p is not registered yet, so nothing else writes to its queue
	p.send <- hello
	if h.latest != nil {
		p.send <- h.latest
	}
	h.peers[p] = addr
	h.mu.Unlock()

	h.log.Info(fmt.Sprintf("[SHARE] Viewer connected from %s (%d total)", addr, n))
	h.peersChanged(n)
	return n
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	addr, ok := h.peers[p]
	delete(h.peers, p)
	n := len(h.peers)
	h.mu.Unlock()
	if !ok {
		return
	}
	close(p.done)
	h.log.Info(fmt.Sprintf("[SHARE] Viewer %s left (%d total)", addr, n))
	h.peersChanged(n)
}

func (h *Hub) peersChanged(n int) {
	if h.OnPeersChanged != nil {
		h.OnPeersChanged(n)
	}
}

// ServeHTTP upgrades a viewer connection and serves it until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("[SHARE] Upgrade failed", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, 4), done: make(chan struct{})}
	h.add(p, conn.RemoteAddr().String())

	go h.writePump(p)
	h.readPump(p)
}

// readPump drains the socket so control frames are processed; viewers
// never send board data.
func (h *Hub) readPump(p *peer) {
	defer func() {
		h.remove(p)
		p.conn.Close()
	}()
	p.conn.SetReadLimit(readLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("[SHARE] Viewer read failed", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()
	for {
		select {
		case <-p.done:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Warn("[SHARE] Write to viewer failed", err)
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()
	for _, p := range peers {
		p.conn.Close()
	}
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(SharePath, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	h.log.Info(fmt.Sprintf("[SHARE] Host listening on %s%s", addr, SharePath))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "share server on %s", addr)
	}
	return nil
}
