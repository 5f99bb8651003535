package net

import (
	"bytes"
	"image"
	"image/png"

	"StudyBoard/internal/export"
	"StudyBoard/internal/state"

	"github.com/pkg/errors"
)

// Message types exchanged on the share socket.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
)

// Message is one JSON document on the share socket. A frame carries the
// whole visible board as PNG; Seq orders frames from one host, so an
// undo (which shows an older snapshot) still arrives as a newer frame.
type Message struct {
	Type     string `json:"type"`
	Seq      uint64 `json:"seq,omitempty"`
	ID       string `json:"id,omitempty"`
	Revision uint64 `json:"revision,omitempty"`
	Site     string `json:"site,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	PNG      []byte `json:"png,omitempty"`
	Peers    int    `json:"peers,omitempty"`
}

// FrameFromSnapshot encodes snap as a frame message. Seq is left for the
// hub to assign.
func FrameFromSnapshot(snap state.Snapshot) (Message, error) {
	data, err := export.EncodePNG(snap.Pix)
	if err != nil {
		return Message{}, errors.Wrapf(err, "encode frame %s", snap.ID)
	}
	b := snap.Pix.Bounds()
	return Message{
		Type:     TypeFrame,
		ID:       snap.ID,
		Revision: snap.Revision,
		Site:     snap.Site,
		Width:    b.Dx(),
		Height:   b.Dy(),
		PNG:      data,
	}, nil
}

// Image decodes the frame's PNG payload.
func (m Message) Image() (image.Image, error) {
	if m.Type != TypeFrame {
		return nil, errors.Errorf("message %q carries no image", m.Type)
	}
	img, err := png.Decode(bytes.NewReader(m.PNG))
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %s", m.ID)
	}
	return img, nil
}
