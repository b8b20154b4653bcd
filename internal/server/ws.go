package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/karimjaber/mediarag/internal/synthesis"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type     string `json:"type"` // "ask"
	Question string `json:"question"`
	Language string `json:"language,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type   string            `json:"type"` // "answer" or "error"
	Error  string            `json:"error,omitempty"`
	Answer *synthesis.Result `json:"answer,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}
		if req.Type != "ask" {
			s.sendWSError(conn, "unknown message type: "+req.Type)
			continue
		}
		if req.Question == "" {
			s.sendWSError(conn, "question is required")
			continue
		}

		limit := req.Limit
		if limit <= 0 {
			limit = s.appCfg.RetrievalLimit
		}
		language := req.Language
		if language == "" {
			language = s.appCfg.TargetLanguage
		}

		results, err := s.idx.Search(r.Context(), req.Question, limit, nil)
		if err != nil {
			s.sendWSError(conn, "search failed: "+err.Error())
			continue
		}

		answer := s.answerer.Synthesize(r.Context(), req.Question, results, language)
		answer.Prompt = ""
		if err := conn.WriteJSON(wsResponse{Type: "answer", Answer: answer}); err != nil {
			log.Printf("websocket write: %v", err)
			return
		}
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(wsResponse{Type: "error", Error: message}); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
