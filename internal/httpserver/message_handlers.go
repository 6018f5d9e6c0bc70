package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitchat/internal/domain"
	"chitchat/internal/service"
)

type messageSendRequest struct {
	Text      string `json:"text"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}

// sendInputFor resolves the receiver's profile so sender and receiver names
// on the record come from the directory, not from the request body.
func sendInputFor(r *http.Request, directory *service.Directory) (service.SendInput, error) {
	currentUser := CurrentUser(r)
	if currentUser == nil {
		return service.SendInput{}, domain.ErrUnauthorized
	}
	peer, err := directory.Get(r.Context(), chi.URLParam(r, "peerID"))
	if err != nil {
		return service.SendInput{}, err
	}
	return service.SendInput{
		SenderID:     currentUser.ID,
		ReceiverID:   peer.ID,
		SenderName:   currentUser.Name,
		ReceiverName: peer.Name,
	}, nil
}

func handleSendMessage(coordinator *service.SendCoordinator, directory *service.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := sendInputFor(r, directory)
		if err != nil {
			writeError(w, err)
			return
		}

		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		var msg *domain.Message
		kind := domain.MediaType(req.MediaType)
		switch {
		case kind == domain.MediaNone:
			msg, err = coordinator.SendText(r.Context(), in, req.Text)
		case req.Text == "":
			msg, err = coordinator.SendMedia(r.Context(), in, kind, req.MediaURL)
		default:
			msg, err = coordinator.SendMixed(r.Context(), in, req.Text, kind, req.MediaURL)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(messages domain.MessageRepository, directory *service.Directory, limit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := sendInputFor(r, directory)
		if err != nil {
			writeError(w, err)
			return
		}

		convID, err := domain.DeriveConversationID(in.SenderID, in.ReceiverID)
		if err != nil {
			writeError(w, err)
			return
		}

		msgs, err := messages.ListForConversation(r.Context(), convID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*domain.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}
