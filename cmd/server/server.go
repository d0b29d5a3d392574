package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/nickyhof/DuckCLI/db"
)

// Server is a TCP SQL server that exposes a DuckDB database.
type Server struct {
	listener   net.Listener
	client     *db.Client
	authConfig *AuthConfig
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server over the given database client.
func NewServer(client *db.Client, authConfig *AuthConfig) *Server {
	return &Server{
		client:     client,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SQL Server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) authRequired() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Handle special commands
		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		response := s.handleLine(query, state, conn.RemoteAddr())

		// Send response
		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) handleLine(line string, state *ConnectionState, remote net.Addr) Response {
	// AUTH must precede queries when authentication is enabled
	if token, ok := strings.CutPrefix(line, "AUTH "); ok {
		if !s.authRequired() {
			return Response{Success: true, Type: "auth"}
		}

		result := s.validateJWT(strings.TrimSpace(token))
		if result.err != nil {
			log.Printf("Auth failed for %s: %v", remote, result.err)
			return Response{Success: false, Error: result.err.Error()}
		}

		state.user = &result.user
		state.authenticated = true
		state.tokenExpiry = result.expiresAt
		log.Printf("Authenticated %s as %s <%s>", remote, result.user.Name, result.user.Email)
		return Response{Success: true, Type: "auth"}
	}

	if s.authRequired() && !state.IsAuthenticated() {
		return Response{Success: false, Error: "not authenticated: send AUTH <token> first"}
	}

	// Accept either a raw SQL line or a JSON request
	query := line
	if strings.HasPrefix(line, "{") {
		req, err := DecodeRequest([]byte(line))
		if err != nil {
			return Response{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}
		}
		query = req.Query
	}

	return s.executeQuery(query)
}

func (s *Server) executeQuery(query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.client.Execute(context.Background(), query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.ExecResult:
		er := ExecResponse{
			RowsAffected: r.RowsAffected,
			TimeMs:       r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(er)
		return Response{
			Success: true,
			Type:    "exec",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
