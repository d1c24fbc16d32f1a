package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

const chatSystemPrompt = `You are an equity research assistant for a growth ` +
	`stock screening tool. Answer questions about tickers, screening criteria ` +
	`and market data concisely. Do not give personalized investment advice.`

// maxChatHistory bounds the conversation sent upstream per turn.
const maxChatHistory = 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The tool is same-origin or CLI-driven; no cross-origin state exists.
	CheckOrigin: func(*http.Request) bool { return true },
}

type chatInbound struct {
	Message string `json:"message"`
}

type chatOutbound struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Chat relays a websocket conversation to the AI backend, keeping the
// running history for context. One connection is one conversation.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil || !h.chat.Configured() {
		h.respondError(w, http.StatusServiceUnavailable, "chat backend not configured")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var history []contracts.ChatMessage
	for {
		var in chatInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("chat connection closed")
			}
			return
		}
		if in.Message == "" {
			continue
		}

		history = append(history, contracts.ChatMessage{Role: "user", Content: in.Message})
		if len(history) > maxChatHistory {
			history = history[len(history)-maxChatHistory:]
		}

		reply, err := h.chat.Complete(r.Context(), chatSystemPrompt, history)
		if err != nil {
			h.logger.WithError(err).Warn("chat completion failed")
			if err := conn.WriteJSON(chatOutbound{Error: "completion failed, try again"}); err != nil {
				return
			}
			continue
		}

		history = append(history, contracts.ChatMessage{Role: "assistant", Content: reply})
		if err := conn.WriteJSON(chatOutbound{Reply: reply}); err != nil {
			return
		}
	}
}
