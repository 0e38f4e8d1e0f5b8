package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/globalcontent-mcp/service"
	"go.uber.org/zap"
)

const (
	EventConnected        = "connected"
	EventKeepalive        = "keepalive"
	EventContentValidated = "content_validated"
	EventContentInvalid   = "content_invalid"
	EventContentError     = "content_error"
	EventValidateStart    = "validate_start"
	EventValidateResult   = "validate_result"
	EventValidateError    = "validate_error"
	EventValidateComplete = "validate_complete"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time

	mu sync.Mutex
}

// MCPSSEServer streams validation outcomes of the content service to
// subscribed clients
type MCPSSEServer struct {
	logger       *zap.Logger
	service      service.Service
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	done         chan struct{}
	closeOnce    sync.Once
	unsubscribe  func()
	nextClientID int
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewMCPSSEServer creates a new MCP SSE server. Validation outcomes of
// serviceInstance are broadcast to all connected clients.
func NewMCPSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *MCPSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &MCPSSEServer{
		logger:    logger,
		service:   serviceInstance,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		done:      make(chan struct{}),
	}
	if serviceInstance != nil {
		sseServer.unsubscribe = serviceInstance.Subscribe(sseServer.onServiceEvent)
	}

	go sseServer.broadcastLoop()

	return sseServer
}

// Close stops broadcasting and detaches from the service
func (s *MCPSSEServer) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		close(s.done)
	})
}

func (s *MCPSSEServer) onServiceEvent(event service.Event) {
	name := EventContentValidated
	switch {
	case len(event.Issues) > 0:
		name = EventContentInvalid
	case !event.Valid:
		name = EventContentError
	}
	s.broadcastEvent(newEvent(name, event))
}

func newEvent(name string, data interface{}) SSEEvent {
	now := time.Now()
	return SSEEvent{
		ID:        fmt.Sprintf("%s_%d", name, now.UnixNano()),
		Event:     name,
		Data:      data,
		Timestamp: now,
	}
}

// broadcastLoop handles broadcasting events to all connected clients
func (s *MCPSSEServer) broadcastLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.broadcast:
			var failed []string
			s.clientsMutex.RLock()
			for clientID, client := range s.clients {
				if err := s.sendEventToClient(client, event); err != nil {
					s.logger.Error("failed to send event to client", zap.String("clientID", clientID), zap.Error(err))
					failed = append(failed, clientID)
				}
			}
			s.clientsMutex.RUnlock()
			for _, clientID := range failed {
				s.removeClient(clientID)
			}
		}
	}
}

// sendEventToClient sends an SSE event to a specific client
func (s *MCPSSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	client.mu.Lock()
	defer client.mu.Unlock()

	select {
	case <-client.Done:
		return fmt.Errorf("client %s disconnected", client.ID)
	default:
	}
	if err := writeEvent(client.Writer, event); err != nil {
		return err
	}
	client.Flusher.Flush()
	client.LastSeen = time.Now()
	return nil
}

func writeEvent(w http.ResponseWriter, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, string(eventJSON))
	return err
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// addClient adds a new SSE client
func (s *MCPSSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	s.nextClientID++
	clientID := fmt.Sprintf("client_%d_%d", time.Now().Unix(), s.nextClientID)

	client := &SSEClient{
		ID:       clientID,
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	connectEvent := newEvent(EventConnected, map[string]string{"clientID": clientID, "message": "Connected to global content SSE server"})
	if err := s.sendEventToClient(client, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", clientID), zap.Error(err))
		return nil
	}
	s.clients[clientID] = client

	s.logger.Info("SSE client connected", zap.String("clientID", clientID))
	return client
}

// removeClient removes a client from the server
func (s *MCPSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	client, exists := s.clients[clientID]
	delete(s.clients, clientID)
	s.clientsMutex.Unlock()

	if exists {
		client.mu.Lock()
		close(client.Done)
		client.mu.Unlock()
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// broadcastEvent sends an event to all connected clients
func (s *MCPSSEServer) broadcastEvent(event SSEEvent) {
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// HandleSSE subscribes a client to content validation events
func (s *MCPSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := s.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-s.done:
			s.removeClient(client.ID)
			return
		case <-ticker.C:
			keepaliveEvent := newEvent(EventKeepalive, map[string]interface{}{"timestamp": time.Now()})
			if err := s.sendEventToClient(client, keepaliveEvent); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

// HandleValidateSSE validates a posted payload and streams the outcome
func (s *MCPSSEServer) HandleValidateSSE(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Kind     service.Kind `json:"kind"`
		Payload  string       `json:"payload"`
		FailFast bool         `json:"failFast"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if request.Kind == "" || request.Payload == "" {
		http.Error(w, "kind and payload are required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setSSEHeaders(w)

	send := func(event SSEEvent) bool {
		if err := writeEvent(w, event); err != nil {
			s.logger.Error("failed to write validate event", zap.String("event", event.Event), zap.Error(err))
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(newEvent(EventValidateStart, map[string]string{"kind": string(request.Kind)})) {
		return
	}

	response, err := Validate(request.Kind, ValidateRequest{Payload: request.Payload, FailFast: request.FailFast})
	if err != nil {
		send(newEvent(EventValidateError, map[string]string{"error": err.Error()}))
		return
	}
	if !send(newEvent(EventValidateResult, response)) {
		return
	}
	send(newEvent(EventValidateComplete, map[string]string{"status": "completed"}))
}

func (s *MCPSSEServer) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// GetConnectedClients returns information about connected clients
func (s *MCPSSEServer) GetConnectedClients() []map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		clients = append(clients, map[string]interface{}{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *MCPSSEServer) GetStats() map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]interface{}{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
