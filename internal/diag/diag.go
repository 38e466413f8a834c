// Package diag serves a heap.Heap's introspection surface over HTTP/3, for
// a remote monitoring tool watching fragmentation on a running board. It is
// purely additive: nothing here sits on the allocation hot path, and it
// never mutates allocator state.
package diag

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	quic "github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"

	"github.com/latticehq/heapcore/internal/heap"
)

// Snapshot is the JSON body served at /v1/heap/stats.
type Snapshot struct {
	FreeBytes   uint64 `json:"free_bytes"`
	MinEverFree uint64 `json:"min_ever_free_bytes"`
	FreeBlocks  uint64 `json:"free_blocks"`
}

// Server serves a *heap.Heap's introspection surface over HTTP/3.
type Server struct {
	h   *heap.Heap
	pc  net.PacketConn
	srv *http3.Server
}

// NewServer builds a diagnostics server for h, bound to addr once Start is
// called. A nil tlsCfg gets a minimal TLS 1.3 / h3 default, matching the
// requirement that HTTP/3 always runs over QUIC's mandatory TLS.
func NewServer(addr string, tlsCfg *tls.Config, h *heap.Heap) *Server {
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS13, NextProtos: []string{"h3"}}
	}

	s := &Server{h: h}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/heap/stats", s.handleStats)
	mux.HandleFunc("/v1/heap/layout", s.handleLayout)

	s.srv = &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: mux, QUICConfig: &quic.Config{}}

	return s
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	snap := Snapshot{
		FreeBytes:   uint64(s.h.FreeHeapSize()),
		MinEverFree: uint64(s.h.MinEverFreeHeapSize()),
		FreeBlocks:  uint64(s.h.FreeBlockCount()),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

type printfWriter struct {
	w http.ResponseWriter
}

func (p printfWriter) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.h.PrintFreeListLayout(printfWriter{w: w})
}

// Start begins serving on an ephemeral UDP port if addr ends with ":0",
// and returns the bound address.
func (s *Server) Start() (string, error) {
	var err error

	s.pc, err = net.ListenPacket("udp", s.srv.Addr)
	if err != nil {
		return "", err
	}

	go func() { _ = s.srv.Serve(s.pc) }()

	return s.pc.LocalAddr().String(), nil
}

// Close shuts the server down and releases its socket.
func (s *Server) Close() error {
	err := s.srv.Close()
	if s.pc != nil {
		_ = s.pc.Close()
	}

	return err
}
