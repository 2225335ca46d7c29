package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Monitor message types pushed to author connections
const (
	MsgRespondentStarted MessageType = "respondent_started"
	MsgSectionAdvanced   MessageType = "section_advanced"
	MsgResponseSubmitted MessageType = "response_submitted"
	MsgResponseRejected  MessageType = "response_rejected"
	MsgTraversalFault    MessageType = "traversal_fault"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages author monitor connections per survey
type Hub struct {
	// surveyID -> connection set
	monitorConns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one author monitor WebSocket connection
type Connection struct {
	SurveyID string
	AuthorID string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast to a survey's monitors
type BroadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		monitorConns: make(map[string]map[*Connection]bool),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.monitorConns[conn.SurveyID] == nil {
				h.monitorConns[conn.SurveyID] = make(map[*Connection]bool)
			}
			h.monitorConns[conn.SurveyID][conn] = true
			h.mu.Unlock()
			log.Printf("Author %s monitoring survey %s", conn.AuthorID, conn.SurveyID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.monitorConns[conn.SurveyID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.monitorConns, conn.SurveyID)
					}
					log.Printf("Author %s stopped monitoring survey %s", conn.AuthorID, conn.SurveyID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.monitorConns[msg.SurveyID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToMonitors sends a message to every monitor of a survey
// (implements service.Broadcaster)
func (h *Hub) BroadcastToMonitors(surveyID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
