package ws

import (
	"context"
	"sync"
	"time"

	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"
	"freelance_backend/internal/notify"
)

// OutgoingWSMessage - конверт всех сообщений сервер -> клиент
type OutgoingWSMessage struct {
	Type       string    `json:"type"`
	Action     string    `json:"action,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	Error      string    `json:"error,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// WebSocketManager держит подключения пользователей и доставляет им события.
// У одного пользователя может быть несколько подключений
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

var _ notify.Notifier = (*WebSocketManager)(nil)

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			set, ok := manager.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				manager.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			manager.mu.Unlock()
			metrics.WSConnections.Inc()
			logger.CtxDebug(context.Background(), "WebSocket client registered", "user_id", client.UserID, "total", manager.GetClientCount())

		case client := <-manager.unregister:
			manager.remove(client)

		case <-ctx.Done():
			close(manager.done)
			manager.closeAll()
			return
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
	close(client.Send)
	metrics.WSConnections.Dec()
	logger.CtxDebug(context.Background(), "WebSocket client unregistered", "user_id", client.UserID)
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for userID, set := range manager.clients {
		for client := range set {
			close(client.Send)
			metrics.WSConnections.Dec()
		}
		delete(manager.clients, userID)
	}
}

// Notify доставляет событие всем подключениям получателей.
// Получатели без подключений пропускаются
func (manager *WebSocketManager) Notify(_ context.Context, event notify.Event) error {
	msg := OutgoingWSMessage{
		Type:       string(event.Type),
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	}
	delivered := 0
	for _, userID := range event.Recipients {
		delivered += manager.SendToUser(userID, msg)
	}
	logger.EventLog("ws", string(event.Type), nil)
	metrics.IncrementEventPublished("ws", nil)
	if delivered > 0 {
		logger.CtxDebug(context.Background(), "Event delivered over websocket", "event", event.Type, "connections", delivered)
	}
	return nil
}

// SendToUser отправляет сообщение во все подключения пользователя.
// Клиент с переполненной очередью отключается
func (manager *WebSocketManager) SendToUser(userID string, message any) int {
	manager.mu.RLock()
	var slow []*Client
	sent := 0
	for client := range manager.clients[userID] {
		select {
		case client.Send <- message:
			sent++
		default:
			slow = append(slow, client)
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("WebSocket client disconnected due to full send channel", "user_id", userID)
		go manager.drop(client)
	}
	return sent
}

// sendToClient - ответ конкретному подключению, если оно еще зарегистрировано
func (manager *WebSocketManager) sendToClient(client *Client, message any) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	if _, ok := manager.clients[client.UserID][client]; !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// GetClientCount возвращает количество открытых подключений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	n := 0
	for _, set := range manager.clients {
		n += len(set)
	}
	return n
}

// IsClientConnected проверяет, есть ли у пользователя подключения
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}

// drop отключает клиента; после остановки Run ничего не делает
func (manager *WebSocketManager) drop(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}
