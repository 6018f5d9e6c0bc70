package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitchat/internal/domain"
	"chitchat/internal/feed"
	"chitchat/internal/service"
)

type stubUsers struct {
	byID map[string]*domain.User
}

func (s *stubUsers) Create(_ context.Context, u *domain.User) error { return nil }

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return s.byID[id], nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

type stubMessages struct {
	seq  int
	sent []*domain.Message
}

func (s *stubMessages) Append(_ context.Context, m *domain.Message) error {
	s.seq++
	m.ID = fmt.Sprintf("m%04d", s.seq)
	m.CreatedAt = time.Unix(0, int64(s.seq)).UTC()
	s.sent = append(s.sent, m)
	return nil
}

func (s *stubMessages) ListForConversation(_ context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	out := make([]*domain.Message, 0, len(s.sent))
	for i := len(s.sent) - 1; i >= 0 && len(out) < limit; i-- {
		if s.sent[i].ConversationID == conversationID {
			out = append(out, s.sent[i])
		}
	}
	return out, nil
}

// sendMessageRequest builds a POST to the send handler with the acting user
// on the context and peerID as the route param.
func sendMessageRequest(sender *domain.User, peerID, body string) *http.Request {
	r := httptest.NewRequest("POST", "/api/conversations/"+peerID+"/messages", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("peerID", peerID)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(WithUser(ctx, sender))
}

func TestHandleSendMessage(t *testing.T) {
	alice := &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	bob := &domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}

	newHandler := func() (http.HandlerFunc, *stubMessages) {
		users := &stubUsers{byID: map[string]*domain.User{"u1": alice, "u2": bob}}
		messages := &stubMessages{}
		directory := service.NewDirectory(users)
		coordinator := service.NewSendCoordinator(messages, feed.NewHub(messages, 100))
		return handleSendMessage(coordinator, directory), messages
	}

	t.Run("TextMessage", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "u2", `{"text":"hello"}`))

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, messages.sent, 1)
		sent := messages.sent[0]
		assert.Equal(t, "u2_u1", sent.ConversationID)
		assert.Equal(t, "u1", sent.SenderID)
		assert.Equal(t, "Bob", sent.ReceiverName) // resolved server-side
		assert.Equal(t, "hello", sent.Text)

		var resp domain.Message
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, sent.ID, resp.ID)
	})

	t.Run("MediaMessage", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "u2", `{"media_type":"image","media_url":"https://img/1"}`))

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, messages.sent, 1)
		assert.Equal(t, domain.MediaImage, messages.sent[0].MediaType)
	})

	t.Run("EmptyText", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "u2", `{"text":""}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, messages.sent)
	})

	t.Run("MediaWithoutURL", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "u2", `{"media_type":"image"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, messages.sent)
	})

	t.Run("UnknownPeer", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "ghost", `{"text":"hello"}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, messages.sent)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		handler, messages := newHandler()
		w := httptest.NewRecorder()
		handler(w, sendMessageRequest(alice, "u2", `{not json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, messages.sent)
	})
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"InvalidCredential", domain.NewAuthError(domain.AuthInvalidCredential), http.StatusUnauthorized},
		{"EmailInUse", domain.NewAuthError(domain.AuthEmailInUse), http.StatusConflict},
		{"WeakPassword", domain.NewAuthError(domain.AuthWeakPassword), http.StatusBadRequest},
		{"NotFound", domain.ErrNotFound, http.StatusNotFound},
		{"EmptyMessage", domain.ErrEmptyMessage, http.StatusBadRequest},
		{"MissingMedia", domain.ErrMissingMedia, http.StatusBadRequest},
		{"SelfChat", domain.ErrSelfChat, http.StatusBadRequest},
		{"Unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"WrappedSubmit", &domain.SubmitError{Cause: fmt.Errorf("backend down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tc.err)
			assert.Equal(t, tc.want, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
