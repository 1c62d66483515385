package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

const keepAliveInterval = 30 * time.Second

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error)
}

type streamClient struct {
	id      string
	upn     string
	writer  http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// close marks the client closed. Holding mu guarantees no write is in flight
// once close returns, so the handler may return safely.
func (c *streamClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.once.Do(func() { close(c.done) })
}

// send writes one event. keepalive and connected events go out as comments.
func (c *streamClient) send(event, data string) error {
	var message string
	if event == "keepalive" || event == "connected" {
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
		return fmt.Errorf("client connection closed")
	default:
	}
	if _, err := c.writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	c.flusher.Flush()
	return nil
}

// NotificationStream fans new notifications out to the server-sent event
// connections of their recipients.
type NotificationStream struct {
	clients map[string]*streamClient
	mu      sync.RWMutex
	logger  *logging.Logger
}

// NewNotificationStream creates an empty stream. Call Run to keep connections alive.
func NewNotificationStream() *NotificationStream {
	return &NotificationStream{
		clients: make(map[string]*streamClient),
		logger:  logging.Default().WithComponent("notification_stream"),
	}
}

// ClientCount returns the number of open connections.
func (s *NotificationStream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Serve holds the connection open for upn until the client goes away.
func (s *NotificationStream) Serve(w http.ResponseWriter, r *http.Request, upn string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	client := &streamClient{
		id:      uuid.NewString(),
		upn:     upn,
		writer:  w,
		flusher: flusher,
		done:    make(chan struct{}),
	}
	if err := client.send("connected", "connected "+client.id); err != nil {
		return
	}

	s.mu.Lock()
	s.clients[client.id] = client
	total := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("Notification client connected", "client_id", client.id, "upn", upn, "total_clients", total)

	select {
	case <-r.Context().Done():
	case <-client.done:
	}
	s.remove(client.id)
}

// Publish sends n to every open connection of its recipient.
func (s *NotificationStream) Publish(n contracts.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("Failed to encode notification", "error", err.Error())
		return
	}

	s.mu.RLock()
	targets := make([]*streamClient, 0, len(s.clients))
	for _, c := range s.clients {
		if strings.EqualFold(c.upn, n.SentTo) {
			targets = append(targets, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range targets {
		if err := c.send("notification", string(data)); err != nil {
			s.logger.Warn("Failed to push notification", "client_id", c.id, "error", err.Error())
			s.remove(c.id)
		}
	}
}

// Run sends keep-alives until ctx is done. A connection whose keep-alive
// cannot be written is dropped.
func (s *NotificationStream) Run(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *NotificationStream) sweep(now time.Time) {
	s.mu.RLock()
	clients := make([]*streamClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.send("keepalive", now.Format(time.RFC3339)); err != nil {
			s.logger.Info("Removing unreachable notification client", "client_id", c.id, "error", err.Error())
			s.remove(c.id)
		}
	}
}

func (s *NotificationStream) remove(id string) {
	s.mu.Lock()
	c, ok := s.clients[id]
	delete(s.clients, id)
	s.mu.Unlock()
	if ok {
		c.close()
		s.logger.Info("Notification client disconnected", "client_id", id)
	}
}

func (s *NotificationStream) closeAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[string]*streamClient)
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// Tee returns a store that also pushes every stored notification to the stream.
func (s *NotificationStream) Tee(next NotificationStore) NotificationStore {
	return &streamingStore{next: next, stream: s}
}

type streamingStore struct {
	next   NotificationStore
	stream *NotificationStream
}

func (t *streamingStore) Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error) {
	created, err := t.next.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	t.stream.Publish(*created)
	return created, nil
}
