package handlers

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventCheckInCreated    = "check_in_created"
	EventKeyResultCreated  = "key_result_created"
	EventKeyResultUpdated  = "key_result_updated"
	EventKeyResultDeleted  = "key_result_deleted"
	EventAssignmentChanged = "assignment_changed"
	EventObjectiveScore    = "objective_score"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type        string      `json:"type"`
	ObjectiveID string      `json:"objectiveId"`
	UserID      string      `json:"userId"`
	Data        interface{} `json:"data,omitempty"`
}

type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

type connection struct {
	conn   messageWriter
	userID uuid.UUID
	// the websocket library allows one concurrent writer per connection
	writeMu sync.Mutex
}

func (c *connection) write(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub manages WebSocket connections per objective
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*connection]bool // objectiveID -> set of connections
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*connection]bool),
		logger: logger.Named("ws"),
	}
}

func (h *Hub) register(objectiveID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[objectiveID] == nil {
		h.rooms[objectiveID] = make(map[*connection]bool)
	}
	h.rooms[objectiveID][conn] = true
	h.logger.Debug("Client joined objective",
		zap.String("user_id", conn.userID.String()),
		zap.String("objective_id", objectiveID.String()),
		zap.Int("connections", len(h.rooms[objectiveID])))
}

func (h *Hub) unregister(objectiveID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[objectiveID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, objectiveID)
		}
	}
}

// Connections reports how many clients watch the objective.
func (h *Hub) Connections(objectiveID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[objectiveID])
}

// Broadcast sends an event to everyone watching the objective except the
// user who caused it. uuid.Nil excludes nobody.
func (h *Hub) Broadcast(objectiveID uuid.UUID, excludeUserID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[objectiveID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to marshal websocket event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for c := range conns {
		if excludeUserID != uuid.Nil && c.userID == excludeUserID {
			continue
		}
		if err := c.write(msg); err != nil {
			h.logger.Debug("Websocket write failed", zap.String("user_id", c.userID.String()), zap.Error(err))
		}
	}
}

// WebSocketUpgrade checks the upgrade request and authenticates it. Browsers
// cannot set headers on websocket requests, so ?token= is accepted too.
func (h *Handler) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = middleware.BearerToken(c)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(h.jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		middleware.SetIdentity(c, claims)
		return c.Next()
	}
}

// HandleWebSocket subscribes a connection to one objective's events.
func (h *Handler) HandleWebSocket(c *websocket.Conn) {
	objectiveID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	h.hub.register(objectiveID, conn)
	defer h.hub.unregister(objectiveID, conn)

	// read until the client goes away; clients only send keepalives
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

// WatchObjective only lets callers subscribe to objectives of their own
// organisation.
func (h *Handler) WatchObjective(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, id); err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.Next()
}
