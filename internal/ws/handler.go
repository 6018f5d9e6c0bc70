package ws

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/feed"
	"chitchat/internal/logger"
	"chitchat/internal/security"
	"chitchat/internal/service"
)

// Deps bundles the collaborators the WebSocket handler needs.
type Deps struct {
	Hub            *feed.Hub
	Tokens         *security.TokenService
	Users          domain.UserRepository
	Coordinator    *service.SendCoordinator
	Directory      *service.Directory
	AllowedOrigins []string
}

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			return false
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return false
		}
		if _, ok := allowed[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		normalized := strings.ToLower(fmt.Sprintf("%s://%s", u.Scheme, u.Host))
		_, ok := allowed[normalized]
		return ok
	}
}

func extractToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}

	protocolHeader := r.Header.Get("Sec-WebSocket-Protocol")
	if protocolHeader != "" {
		parts := strings.Split(protocolHeader, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

// conn wraps a websocket connection with a write lock: feed deliveries
// arrive from publisher goroutines while errors are written from the read
// loop.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *conn) sendError(msg string) {
	_ = c.writeJSON(map[string]any{
		"type":    "error",
		"message": msg,
	})
}

// MakeHandler returns the HTTP handler for the /ws endpoint.
// Authenticates via Bearer token (Authorization header or
// Sec-WebSocket-Protocol), then dispatches events:
//   - subscribe   -> open a live feed on the conversation with the peer
//   - unsubscribe -> cancel that feed
//   - message     -> submit a text or media message to the peer
//
// Each subscription pushes the full newest-first snapshot as a
// {"type":"snapshot"} frame whenever the conversation changes.
func MakeHandler(d Deps) http.HandlerFunc {
	checkOrigin := makeCheckOrigin(d.AllowedOrigins)
	upgrader := websocket.Upgrader{
		CheckOrigin: checkOrigin,
		Subprotocols: []string{
			"bearer",
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !checkOrigin(r) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}

		tokenStr := extractToken(r)
		if tokenStr == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		sub, err := d.Tokens.Subject(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		user, err := d.Users.GetByID(ctx, sub)
		if err != nil || user == nil {
			http.Error(w, "user not found", http.StatusUnauthorized)
			return
		}

		rawConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer rawConn.Close()
		c := &conn{ws: rawConn}

		// Active feed subscriptions for this connection, keyed by
		// conversation id. Cancelled on teardown so no subscription leaks.
		cancels := make(map[string]feed.CancelFunc)
		defer func() {
			for _, cancel := range cancels {
				cancel()
			}
		}()

		for {
			var payload map[string]any
			if err := rawConn.ReadJSON(&payload); err != nil {
				break
			}
			event, _ := payload["type"].(string)
			peerID, _ := payload["peer_id"].(string)

			switch event {

			case "subscribe":
				convID, err := domain.DeriveConversationID(user.ID, peerID)
				if err != nil {
					c.sendError("subscribe requires a valid peer_id")
					continue
				}
				if _, ok := cancels[convID]; ok {
					continue
				}
				cancel, err := d.Hub.Subscribe(ctx, convID, func(msgs []*domain.Message) {
					_ = c.writeJSON(map[string]any{
						"type":            "snapshot",
						"conversation_id": convID,
						"messages":        msgs,
					})
				})
				if err != nil {
					logger.Log.Warn("ws subscribe failed",
						zap.String("conversation_id", convID), zap.Error(err))
					c.sendError("failed to subscribe")
					continue
				}
				cancels[convID] = cancel

			case "unsubscribe":
				convID, err := domain.DeriveConversationID(user.ID, peerID)
				if err != nil {
					continue
				}
				if cancel, ok := cancels[convID]; ok {
					cancel()
					delete(cancels, convID)
				}

			case "message":
				peer, err := d.Directory.Get(ctx, peerID)
				if err != nil {
					c.sendError("unknown peer")
					continue
				}
				in := service.SendInput{
					SenderID:     user.ID,
					ReceiverID:   peer.ID,
					SenderName:   user.Name,
					ReceiverName: peer.Name,
				}
				text, _ := payload["text"].(string)
				mediaType, _ := payload["media_type"].(string)
				mediaURL, _ := payload["media_url"].(string)

				kind := domain.MediaType(mediaType)
				switch {
				case kind == domain.MediaNone:
					_, err = d.Coordinator.SendText(ctx, in, text)
				case text == "":
					_, err = d.Coordinator.SendMedia(ctx, in, kind, mediaURL)
				default:
					_, err = d.Coordinator.SendMixed(ctx, in, text, kind, mediaURL)
				}
				if err != nil {
					logger.Log.Warn("ws send failed",
						zap.String("user_id", user.ID), zap.Error(err))
					c.sendError("failed to send message")
				}

			default:
				logger.Log.Debug("ws unknown event",
					zap.String("event", event), zap.String("user_id", user.ID))
			}
		}
	}
}
