package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/crownpawn/titlepawn-backend/pkg/logger"
)

// Loan lifecycle event types pushed to connected back-office clients.
const (
	EventLoanApproved    = "loan_approved"
	EventPaymentReceived = "payment_received"
	EventLoanRenewed     = "loan_renewed"
	EventLoanPaidOff     = "loan_paid_off"
	EventFeeApplied      = "fee_applied"
	EventFeeWaived       = "fee_waived"
)

// Event is the envelope broadcast to every session of a company.
type Event struct {
	Type      string      `json:"type"`
	CompanyID uint        `json:"company_id"`
	LoanID    uint        `json:"loan_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

// Hub manages WebSocket connections grouped by company so lifecycle
// events only reach sessions of the tenant they belong to.
type Hub struct {
	// UserID -> sessions (multi-device support)
	clients map[uint][]*Client

	// CompanyID -> set of connected UserIDs
	companies map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *companyMessage

	mu sync.RWMutex
}

type companyMessage struct {
	CompanyID uint
	Message   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		companies:  make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *companyMessage, 1024),
	}
}

// Run processes register/unregister/broadcast requests. Call once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			if _, ok := h.companies[client.CompanyID]; !ok {
				h.companies[client.CompanyID] = make(map[uint]bool)
			}
			h.companies[client.CompanyID][client.UserID] = true
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"company_id":     client.CompanyID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
					if users, ok := h.companies[client.CompanyID]; ok {
						delete(users, client.UserID)
						if len(users) == 0 {
							delete(h.companies, client.CompanyID)
						}
					}
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id":    client.UserID,
				"company_id": client.CompanyID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.companies[message.CompanyID]; ok {
				for userID := range users {
					if clientList, ok := h.clients[userID]; ok {
						for _, client := range clientList {
							select {
							case client.Send <- message.Message:
							default:
								// Send buffer full, drop the session.
								go h.Unregister(client)
								logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
									"user_id": userID,
								})
							}
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent pushes a lifecycle event to every session of a company.
// Delivery is best effort; a full broadcast queue drops the event.
func (h *Hub) BroadcastEvent(companyID uint, eventType string, loanID uint, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		CompanyID: companyID,
		LoanID:    loanID,
		Payload:   payload,
		At:        time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- &companyMessage{CompanyID: companyID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":       eventType,
			"company_id": companyID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one live session.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
