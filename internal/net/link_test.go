package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{name: "share link", link: "studyboard://192.168.1.4:8765", want: "192.168.1.4:8765"},
		{name: "trailing slash", link: "studyboard://10.0.0.2:9000/", want: "10.0.0.2:9000"},
		{name: "bare address", link: " localhost:8765 ", want: "localhost:8765"},
		{name: "ipv6", link: "studyboard://[::1]:8765", want: "[::1]:8765"},
		{name: "missing port", link: "studyboard://10.0.0.2", wantErr: true},
		{name: "missing host", link: "studyboard://:8765", wantErr: true},
		{name: "bad port", link: "10.0.0.2:http", wantErr: true},
		{name: "port out of range", link: "10.0.0.2:70000", wantErr: true},
		{name: "empty", link: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLink(tt.link)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShareLink(t *testing.T) {
	link := ShareLink("192.168.1.4", 8765)
	assert.Equal(t, "studyboard://192.168.1.4:8765", link)

	addr, err := ParseLink(link)
	assert.NoError(t, err)
	assert.Equal(t, "ws://192.168.1.4:8765/board", websocketURL(addr))
}

func TestBoard_Link(t *testing.T) {
	b := Board{Name: "lab-pc", Addr: "10.0.0.7:8765"}
	assert.Equal(t, "studyboard://10.0.0.7:8765", b.Link())
}
