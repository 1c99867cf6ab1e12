package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"tuplekv/internal/config"
)

// TXT record keys published by every beacon.
const (
	txtRaftID = "raft_id"
	txtAddr   = "addr"
)

// Beacon announces this node on the local network over mDNS and browses
// for the other members of the same service.
type Beacon struct {
	self    config.Peer
	service string
	timeout time.Duration
	server  *mdns.Server
	query   func(*mdns.QueryParam) error
}

// Announce starts answering mDNS queries for service with self's raft ID
// and base URL.
func Announce(self config.Peer, service string, browseTimeout time.Duration) (*Beacon, error) {
	host, port, err := splitAdvertise(self.Address)
	if err != nil {
		return nil, err
	}

	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else if ips, err = net.LookupIP(host); err != nil {
		return nil, fmt.Errorf("resolve advertise host %q: %w", host, err)
	}

	txt := []string{
		txtRaftID + "=" + strconv.FormatUint(self.ID, 10),
		txtAddr + "=" + self.Address,
	}
	svc, err := mdns.NewMDNSService("tuplekv-"+strconv.FormatUint(self.ID, 10), service, "", "", port, ips, txt)
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}

	slog.Info("announced over mdns", "service", service, "id", self.ID, "addr", self.Address)
	return &Beacon{
		self:    self,
		service: service,
		timeout: browseTimeout,
		server:  server,
		query:   mdns.Query,
	}, nil
}

func (b *Beacon) Close() error {
	if b.server == nil {
		return nil
	}
	return b.server.Shutdown()
}

// Members browses once and returns every member seen, self included,
// ordered by ID.
func (b *Beacon) Members(ctx context.Context) ([]config.Peer, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan struct{})
	byID := map[uint64]string{b.self.ID: b.self.Address}

	go func() {
		defer close(done)
		for e := range entries {
			if p, ok := parseEntry(e); ok {
				byID[p.ID] = p.Address
			}
		}
	}()

	params := mdns.DefaultParams(b.service)
	params.Entries = entries
	params.Timeout = b.timeout
	params.WantUnicastResponse = true
	err := b.query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peers := make([]config.Peer, 0, len(byID))
	for id, addr := range byID {
		peers = append(peers, config.Peer{ID: id, Address: addr})
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ID < peers[j].ID })
	return peers, nil
}

// WaitForMembers browses until at least n members answer.
func (b *Beacon) WaitForMembers(ctx context.Context, n int) ([]config.Peer, error) {
	for {
		peers, err := b.Members(ctx)
		if err != nil {
			return nil, err
		}
		if len(peers) >= n {
			return peers, nil
		}
		slog.Info("waiting for raft members", "have", len(peers), "want", n)
	}
}

// RunWatch browses every interval and calls onChange whenever the member
// list differs from the previous one.
func (b *Beacon) RunWatch(ctx context.Context, interval time.Duration, onChange func([]config.Peer)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last []config.Peer
		for {
			peers, err := b.Members(ctx)
			if err != nil && ctx.Err() == nil {
				slog.Warn("mdns browse failed", "error", err)
			} else if err == nil && !slices.Equal(peers, last) {
				onChange(peers)
				last = peers
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				slog.Info("mdns watch stopped")
				return
			}
		}
	}()
}

// parseEntry reads the TXT fields of an answer. Answers without a raft ID
// are ignored; a missing addr falls back to the announced IPv4 and port.
func parseEntry(e *mdns.ServiceEntry) (config.Peer, bool) {
	if e == nil {
		return config.Peer{}, false
	}
	var p config.Peer
	for _, f := range e.InfoFields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		switch k {
		case txtRaftID:
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return config.Peer{}, false
			}
			p.ID = id
		case txtAddr:
			p.Address = v
		}
	}
	if p.ID == 0 {
		return config.Peer{}, false
	}
	if p.Address == "" {
		if e.AddrV4 == nil {
			return config.Peer{}, false
		}
		p.Address = "http://" + net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port))
	}
	return p, true
}

func splitAdvertise(advertise string) (string, int, error) {
	u, err := url.Parse(advertise)
	if err != nil {
		return "", 0, fmt.Errorf("advertise url: %w", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return "", 0, fmt.Errorf("advertise url %q needs host:port: %w", advertise, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("advertise port: %w", err)
	}
	return host, port, nil
}
