// Package server implements the validator's TCP front-end: an accept
// loop that spawns one goroutine per connection, each running an
// independent request/response loop against a shared validator.Validator
// (spec.md §4.8, §5). Grounded on gocuria/networking/server.go's
// acceptConnections/HandlePeerConnection shutdown-channel pattern.
package server

import (
	"net"
	"sync"
	"time"
)

// ConnectionInfo tracks bookkeeping for one live miner connection, purely
// for status reporting (statusapi). Adapted from gocuria/p2p/peers.go's
// PeerManager, trimmed from peer discovery to miner-connection tracking:
// Hourcoin miners are clients of the validator, not gossiping peers.
type ConnectionInfo struct {
	RemoteAddr  string
	ConnectedAt time.Time
	LastMinerID string
}

// ConnectionRegistry tracks every currently open miner connection.
type ConnectionRegistry struct {
	mu    sync.Mutex
	conns map[string]*ConnectionInfo
}

// NewConnectionRegistry returns an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[string]*ConnectionInfo)}
}

// Add registers a newly accepted connection.
func (r *ConnectionRegistry) Add(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.RemoteAddr().String()] = &ConnectionInfo{
		RemoteAddr:  conn.RemoteAddr().String(),
		ConnectedAt: time.Now(),
	}
}

// Remove unregisters a connection when its handler loop exits.
func (r *ConnectionRegistry) Remove(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn.RemoteAddr().String())
}

// NoteMinerID records the miner_id most recently seen on a connection,
// once a request reveals it.
func (r *ConnectionRegistry) NoteMinerID(conn net.Conn, minerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.conns[conn.RemoteAddr().String()]; ok {
		info.LastMinerID = minerID
	}
}

// Count returns the number of currently open connections.
func (r *ConnectionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Snapshot returns a copy of the current connection list.
func (r *ConnectionRegistry) Snapshot() []ConnectionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConnectionInfo, 0, len(r.conns))
	for _, info := range r.conns {
		out = append(out, *info)
	}
	return out
}
