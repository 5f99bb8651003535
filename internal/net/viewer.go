package net

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"StudyBoard/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Viewer is the CLIENT side of a shared board: it receives frames from a
// host and hands the decoded board images to OnFrame.
type Viewer struct {
	conn    *websocket.Conn
	log     logger.Logger
	lastSeq uint64

	// OnHello is called when the host greets us.
	OnHello func(m Message)
	// OnFrame is called with each frame newer than the last one shown.
	OnFrame func(m Message, img image.Image)
}

// Dial connects to a host given as a share link or host:port.
func Dial(ctx context.Context, link string, l logger.Logger) (*Viewer, error) {
	addr, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, websocketURL(addr), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", addr)
	}
	l.Info(fmt.Sprintf("[SHARE] Connected to host %s as %s", addr, conn.LocalAddr()))
	return &Viewer{conn: conn, log: l}, nil
}

// Run reads messages until the connection closes or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		v.conn.Close()
	}()
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "disconnected from host")
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			v.log.Warn("[SHARE] Ignoring malformed message", err)
			continue
		}
		v.handle(m)
	}
}

// handle dispatches one message. Frames that are not newer than the last
// shown frame are dropped.
func (v *Viewer) handle(m Message) {
	switch m.Type {
	case TypeHello:
		if v.OnHello != nil {
			v.OnHello(m)
		}
	case TypeFrame:
		if m.Seq <= v.lastSeq {
			v.log.Debug(fmt.Sprintf("[SHARE] Dropping stale frame %d (have %d)", m.Seq, v.lastSeq))
			return
		}
		img, err := m.Image()
		if err != nil {
			v.log.Warn("[SHARE] Bad frame", err)
			return
		}
		v.lastSeq = m.Seq
		if v.OnFrame != nil {
			v.OnFrame(m, img)
		}
	default:
		v.log.Debug(fmt.Sprintf("[SHARE] Unknown message type %q", m.Type))
	}
}

// Close hangs up.
func (v *Viewer) Close() error {
	_ = v.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return v.conn.Close()
}
