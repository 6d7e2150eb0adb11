package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
)

const (
	closeMissingToken uint32 = 4001
	closeInvalidToken uint32 = 4002
)

// TokenResolver turns the connection token into the caller's identity.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (internal.Identity, error)
}

type Client struct {
	ID     string
	UserID string
	Send   chan []byte
}

type envelope struct {
	Type    string               `json:"type"`
	Payload notification.Message `json:"payload"`
}

// Hub pushes notifications to the open sessions of their recipient.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[string]*Client),
		logger:  logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[string]*Client)
	}
	h.clients[client.UserID][client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions := h.clients[client.UserID]
	if _, ok := sessions[client.ID]; !ok {
		return
	}
	delete(sessions, client.ID)
	if len(sessions) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
}

// Connected returns the number of open sessions of userID.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) Name() string { return "realtime" }

// Send implements notification.Provider. Users without an open session are skipped.
func (h *Hub) Send(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(envelope{Type: msg.EventType, Payload: msg})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[msg.RecipientID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("realtime buffer full, dropping message", "client_id", client.ID, "user_id", msg.RecipientID)
		}
	}
	return nil
}

// session is the subset of sockjs.Session the hub uses.
type session interface {
	Request() *http.Request
	Recv() (string, error)
	Send(string) error
	Close(status uint32, reason string) error
}

// Handler serves sockjs connections under prefix. Browsers cannot set headers
// on the transport, so the access token travels in the token query parameter.
func (h *Hub) Handler(prefix string, resolver TokenResolver) http.Handler {
	return sockjs.NewHandler(prefix, sockjs.DefaultOptions, func(s sockjs.Session) {
		h.serve(s, resolver)
	})
}

func (h *Hub) serve(s session, resolver TokenResolver) {
	req := s.Request()
	token := req.URL.Query().Get("token")
	if token == "" {
		_ = s.Close(closeMissingToken, "missing token")
		return
	}
	id, err := resolver.Resolve(req.Context(), token)
	if err != nil {
		h.logger.Debug("realtime session rejected", "error", err)
		_ = s.Close(closeInvalidToken, "invalid token")
		return
	}

	client := &Client{ID: uuid.NewString(), UserID: id.ID, Send: make(chan []byte, 16)}
	h.Register(client)
	defer h.Unregister(client)
	h.logger.Debug("realtime session opened", "client_id", client.ID, "user_id", id.ID)

	go func() {
		for msg := range client.Send {
			if err := s.Send(string(msg)); err != nil {
				return
			}
		}
	}()

	// inbound frames are ignored; Recv fails once the session closes
	for {
		if _, err := s.Recv(); err != nil {
			return
		}
	}
}
