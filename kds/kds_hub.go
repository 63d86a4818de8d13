// Package kds pushes display refreshes to connected kitchen screens over
// websocket. This is an add-on to the polling model, not a replacement: every
// payload broadcast here equals what a GET at the same instant would have
// returned, and clients that miss a frame simply pick the state up on their
// next poll.
package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types
const (
	EventKitchenRefresh   = "kitchen_refresh"
	EventOrderUpdate      = "order_update"
	EventStaffNotif       = "staff_notification"
	EventClosingCompleted = "closing_completed"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds all connected display clients (kitchen, manager) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
	logf    func(format string, args ...interface{})
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
	logf:    func(string, ...interface{}) {},
}

// SetLogger routes hub diagnostics to the application logger.
func SetLogger(logf func(format string, args ...interface{})) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.logf = logf
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastKitchenRefresh sends the freshly derived kitchen queue to every
// connected display.
func BroadcastKitchenRefresh(data interface{}) {
	broadcast(Message{Event: EventKitchenRefresh, Data: data})
}

// BroadcastOrderUpdate announces a single order's new state.
func BroadcastOrderUpdate(order interface{}) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastStaffNotification sends a plain text notice to all clients.
func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

// BroadcastClosingCompleted announces that the day's cash closing finished.
func BroadcastClosingCompleted(summary interface{}) {
	broadcast(Message{Event: EventClosingCompleted, Data: summary})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		hub.logf("error marshaling %s event: %v", msg.Event, err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			hub.logf("error sending %s event to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
