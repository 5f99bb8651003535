package net

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Scheme prefixes share links handed to other participants.
const Scheme = "studyboard://"

// SharePath is the websocket endpoint of a shared board.
const SharePath = "/board"

// ShareLink builds the link a viewer opens to join a board.
func ShareLink(host string, port int) string {
	return Scheme + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseLink accepts a share link or a bare host:port and returns host:port.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSpace(link)
	addr = strings.TrimPrefix(addr, Scheme)
	addr = strings.TrimSuffix(addr, "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", errors.Wrapf(err, "invalid board address %q", link)
	}
	if host == "" {
		return "", errors.Errorf("invalid board address %q: missing host", link)
	}
	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return "", errors.Errorf("invalid board address %q: bad port", link)
	}
	return addr, nil
}

// websocketURL is the ws:// endpoint for a host:port.
func websocketURL(addr string) string {
	return fmt.Sprintf("ws://%s%s", addr, SharePath)
}
