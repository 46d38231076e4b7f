package server

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"

	"hourcoin/validator"
	"hourcoin/wire"
)

// Server listens on a TCP address and drives a shared validator.Validator
// for every accepted connection. Grounded on
// gocuria/networking/server.go's Server/acceptConnections shape.
type Server struct {
	Addr      string
	Validator *validator.Validator
	Registry  *ConnectionRegistry

	listener net.Listener
	conns    sync.WaitGroup
}

// NewServer wires a Server around an already-constructed validator.
func NewServer(addr string, v *validator.Validator) *Server {
	return &Server{
		Addr:      addr,
		Validator: v,
		Registry:  NewConnectionRegistry(),
	}
}

// ListenAndServe binds addr and runs the accept loop until ctx is
// canceled. Each connection gets its own goroutine; a stalled or
// misbehaving peer never blocks another (spec.md §4.8).
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("server: listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				log.Printf("server: accept error: %v", err)
				continue
			}
		}
		s.Registry.Add(conn)
		s.conns.Add(1)
		go s.handleConnection(conn)
	}
}

// Wait blocks until every connection handler goroutine spawned by
// ListenAndServe has returned. Callers cancel the context passed to
// ListenAndServe first, then call Wait so an in-flight miner submission
// finishes instead of being killed mid-request (spec.md §6).
func (s *Server) Wait() {
	s.conns.Wait()
}

// ListenAddr returns the address the server is actually bound to, once
// ListenAndServe has started; useful when Addr requested an ephemeral
// port ("host:0").
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// handleConnection runs the request/response loop for one connection:
// read one frame, dispatch it under the validator's lock, write one
// frame, repeat until the peer closes or a protocol error occurs
// (spec.md §4.8, §5 — no pipelining, one outstanding request at a time).
func (s *Server) handleConnection(conn net.Conn) {
	defer s.conns.Done()
	defer s.Registry.Remove(conn)
	defer conn.Close()

	for {
		msg, err := wire.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, wire.ErrConnectionClosed) {
				// Malformed length prefix, oversized frame, truncated body,
				// or invalid JSON: the peer is owed an Error response before
				// the connection closes (spec.md §7's Protocol case).
				resp, respErr := errorEnvelope(err)
				if respErr == nil {
					wire.WriteFrame(conn, resp)
				}
			}
			// A clean disconnect between frames needs no response
			// (spec.md §7's Transport case); either way, nothing was
			// decoded so validator state is untouched.
			return
		}

		resp, err := dispatch(s.Validator, s.Registry, conn, msg)
		if err != nil {
			log.Printf("server: dispatch error from %s: %v", conn.RemoteAddr(), err)
			return
		}

		if err := wire.WriteFrame(conn, resp); err != nil {
			log.Printf("server: write error to %s: %v", conn.RemoteAddr(), err)
			return
		}

		// A malformed message causes the connection to be closed after
		// sending an Error response (spec.md §4.6).
		if resp.Type == wire.TypeError {
			return
		}
	}
}
