package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	"github.com/AzielCF/az-content/infrastructure/valkey"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type client struct{}

type BroadcastMessage struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Result   any    `json:"result"`
	SenderID string `json:"sender_id,omitempty"`
}

const (
	CodeCacheStats   = "CACHE_STATS"
	CodeClusterStats = "CLUSTER_STATS"
	CodeFetchStats   = "FETCH_STATS"
	CodeFetchCluster = "FETCH_CLUSTER"
)

var (
	Clients    = make(map[*websocket.Conn]client)
	Register   = make(chan *websocket.Conn)
	Broadcast  = make(chan BroadcastMessage, 64)
	Unregister = make(chan *websocket.Conn)

	remote   = make(chan BroadcastMessage, 64)
	hubDone  = make(chan struct{})
	stopHub  sync.Once
	vkClient *valkey.Client
	wsChan   = "content_cache:ws_broadcast"
	localID  string
)

// SetValkeyClient enables fan-out of broadcasts to the other servers.
func SetValkeyClient(client *valkey.Client, serverID string) {
	vkClient = client
	localID = serverID
}

// PublishStats queues a stats snapshot for every connected client. It never
// blocks; snapshots are dropped while the hub is saturated.
func PublishStats(snapshot cacheDomain.ServerStats) {
	msg := BroadcastMessage{
		Code:    CodeCacheStats,
		Message: "Cache stats updated",
		Result:  snapshot,
	}
	select {
	case Broadcast <- msg:
	default:
		logrus.Debug("[WS] Broadcast queue full, dropping stats snapshot")
	}
}

// toHub sends v on ch unless the hub has stopped. It reports whether v was delivered.
func toHub[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-hubDone:
		return false
	}
}

func handleRegister(conn *websocket.Conn) {
	Clients[conn] = client{}
	logrus.Debug("[WS] Connection registered")
}

func handleUnregister(conn *websocket.Conn) {
	delete(Clients, conn)
	logrus.Debug("[WS] Connection unregistered")
}

func broadcastToLocal(message BroadcastMessage) {
	marshalMessage, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}

	for conn := range Clients {
		if err := conn.WriteMessage(websocket.TextMessage, marshalMessage); err != nil {
			logrus.Errorf("[WS] Write error: %v", err)
			closeConnection(conn)
		}
	}
}

func publishToValkey(ctx context.Context, message BroadcastMessage) {
	if vkClient == nil {
		return
	}

	message.SenderID = localID
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	if err := vkClient.Publish(ctx, wsChan, string(data)); err != nil {
		logrus.Errorf("[WS] Failed to publish to Valkey: %v", err)
	}
}

// decodeRemote parses a message from another server. Echoes of our own
// broadcasts are rejected.
func decodeRemote(raw string) (BroadcastMessage, bool) {
	var msg BroadcastMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return BroadcastMessage{}, false
	}
	if msg.SenderID == localID {
		return BroadcastMessage{}, false
	}
	return msg, true
}

func startValkeySubscriber(ctx context.Context) {
	if vkClient == nil {
		return
	}

	logrus.Info("[WS] Starting Valkey Pub/Sub subscriber for distributed events")
	go func() {
		err := vkClient.Subscribe(ctx, wsChan, func(raw string) {
			if msg, ok := decodeRemote(raw); ok {
				select {
				case remote <- msg:
				default:
				}
			}
		})
		if err != nil && ctx.Err() == nil {
			logrus.Errorf("[WS] Valkey subscriber failed: %v", err)
		}
	}()
}

func closeConnection(conn *websocket.Conn) {
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = conn.Close()
	delete(Clients, conn)
}

// RunHub owns Clients until ctx is done. Once it returns, handler sends to
// the hub channels give up instead of blocking.
func RunHub(ctx context.Context) {
	defer stopHub.Do(func() { close(hubDone) })

	if vkClient != nil {
		startValkeySubscriber(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for conn := range Clients {
				closeConnection(conn)
			}
			return

		case conn := <-Register:
			handleRegister(conn)

		case conn := <-Unregister:
			handleUnregister(conn)

		case message := <-remote:
			broadcastToLocal(message)

		case message := <-Broadcast:
			broadcastToLocal(message)
			if vkClient != nil {
				publishToValkey(ctx, message)
			}
		}
	}
}

func RegisterRoutes(app fiber.Router, service domainCache.ICacheUsecase) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		defer func() {
			toHub(Unregister, conn)
			_ = conn.Close()
		}()

		if !toHub(Register, conn) {
			return
		}

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Println("read error:", err)
				}
				return
			}

			if messageType != websocket.TextMessage {
				logrus.Println("unsupported message type:", messageType)
				continue
			}

			var messageData BroadcastMessage
			if err := json.Unmarshal(message, &messageData); err != nil {
				logrus.Println("unmarshal error:", err)
				return
			}

			switch messageData.Code {
			case CodeFetchStats:
				stats, err := service.GetStats(context.Background())
				if err == nil {
					toHub(Broadcast, BroadcastMessage{Code: CodeCacheStats, Message: "Cache stats", Result: stats})
				}
			case CodeFetchCluster:
				cluster, err := service.GetClusterStats(context.Background())
				if err == nil {
					toHub(Broadcast, BroadcastMessage{Code: CodeClusterStats, Message: "Cluster cache stats", Result: cluster})
				}
			}
		}
	}))
}
