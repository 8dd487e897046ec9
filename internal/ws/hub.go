package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/logger"
)

// Hub управляет всеми WebSocket подписчиками событий счетов.
// Подписка ведётся по идентификатору счёта; uuid.Nil — подписка на все события.
type Hub struct {
	ctx        context.Context
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	accountID uuid.UUID
	payload   []byte
}

// NewHub создаёт новый хаб. Контекст ограничивает время жизни
// главного цикла: при остановке сервера Run завершается.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		ctx:        ctx,
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба и работает до отмены контекста.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.accountID, msg.payload)
		}
	}
}

// Register добавляет подписчика.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подписчика.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastAccountEvent отправляет событие подписчикам счёта
// и подписчикам общего потока.
func (h *Hub) BroadcastAccountEvent(accountID uuid.UUID, event string, data any) error {
	// Контракт сообщения: "type" — имя события, "data" — полезная нагрузка.
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- message{accountID: accountID, payload: raw}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.accountID]; !ok {
		h.clients[client.accountID] = make(map[*Client]struct{})
	}
	h.clients[client.accountID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.accountID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.accountID)
		}
	}
}

func (h *Hub) send(accountID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(client *Client) {
		select {
		case client.send <- payload:
		default:
			// Медленного подписчика закрываем асинхронно
			go func(c *Client) {
				defer func() {
					if r := recover(); r != nil && logger.Log != nil {
						logger.Log.Errorf("ws: паника при закрытии клиента восстановлена: %v\n%s", r, debug.Stack())
					}
				}()
				c.Close()
			}(client)
		}
	}

	for client := range h.clients[accountID] {
		deliver(client)
	}
	if accountID != uuid.Nil {
		for client := range h.clients[uuid.Nil] {
			deliver(client)
		}
	}
}
