package net

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/pkg/errors"
)

// ServiceType is the mDNS service hosts advertise on the LAN.
const ServiceType = "_studyboard._tcp"

// Board is a host found on the LAN.
type Board struct {
	Name string
	Addr string
}

// Link is the share link for b.
func (b Board) Link() string {
	return Scheme + b.Addr
}

// Advertise announces a board served on port. name defaults to the hostname.
func Advertise(name string, port int) (*mdns.Server, error) {
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, errors.Wrap(err, "could not get hostname")
		}
		name = host
	}

	service, err := mdns.NewMDNSService(name, ServiceType, "", "", port, nil, []string{"StudyBoard", "path=" + SharePath})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mDNS service")
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start mDNS server")
	}
	return server, nil
}

// Browse queries the LAN for timeout and calls found for every board that
// answers with an IPv4 address.
func Browse(timeout time.Duration, found func(Board)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if b, ok := boardFromEntry(e); ok {
				found(b)
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return errors.Wrap(err, "browse boards")
}

func boardFromEntry(e *mdns.ServiceEntry) (Board, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Board{}, false
	}
	name := e.Name
	if i := strings.Index(name, "."+ServiceType); i > 0 {
		name = name[:i]
	}
	return Board{
		Name: name,
		Addr: net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
	}, true
}
