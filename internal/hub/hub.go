package hub

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Client struct {
	UserID    int64
	SessionID string
	Conn      *websocket.Conn

	// local delivery when self-contained, redis delivery otherwise
	WsChannel chan string
	PubSub    *redis.PubSub
	MsgCh     <-chan *redis.Message

	Ctx              context.Context
	CurrentChannelID int64
	mutex            sync.Mutex
}

var clients = make(map[string]*Client)
var clientsMutex sync.Mutex

var sugar *zap.SugaredLogger
var redisClient *redis.Client
var selfContained = true

var redisCtx = context.Background()

func Setup(_sugar *zap.SugaredLogger, _redisClient *redis.Client, _selfContained bool) {
	sugar = _sugar
	redisClient = _redisClient
	selfContained = _selfContained
}

func HandleClient(w http.ResponseWriter, r *http.Request, userID int64) {
	sugar.Debugf("Connecting user ID [%d] to WebSocket", userID)

	sessionCookie, err := r.Cookie("session")
	if err != nil {
		sugar.Debug(err)
		switch {
		case errors.Is(err, http.ErrNoCookie):
			http.Error(w, "No session cookie was provided", http.StatusUnauthorized)
		default:
			http.Error(w, "Couldn't read session cookie", http.StatusInternalServerError)
		}
		return
	}

	sessionID, err := uuid.Parse(sessionCookie.Value)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "Session cookie is in improper format", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sugar.Error(err)
		return
	}
	defer conn.Close()

	clientCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &Client{
		UserID:    userID,
		SessionID: sessionID.String(),
		Conn:      conn,
		WsChannel: make(chan string, 16),
		Ctx:       clientCtx,
	}

	if !selfContained {
		pubsub := redisClient.Subscribe(clientCtx)
		defer pubsub.Close()

		client.PubSub = pubsub
		client.MsgCh = pubsub.Channel()
	}

	setClient(client)
	defer deleteClient(client.SessionID)
	defer unsubscribeFromAllLocal(client.SessionID)

	// every session receives the global feed (roster, config, channel list)
	if err := Subscribe(ScopeGlobal, 0, client.SessionID); err != nil {
		sugar.Error(err)
		return
	}

	// pushing events to the client
	go func() {
		for {
			select {
			case <-client.Ctx.Done():
				return
			case frame := <-client.WsChannel:
				if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
					sugar.Error(err)
					return
				}
			case msg, ok := <-client.MsgCh:
				if !ok {
					return
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					sugar.Error(err)
					return
				}
			}
		}
	}()

	// the engine is driven over HTTP; the read loop only notices disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			sugar.Debug(err)
			break
		}
	}
}

func setClient(client *Client) {
	sugar.Debugf("Adding user ID [%d] to clients as session ID [%s]", client.UserID, client.SessionID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	clients[client.SessionID] = client
}

func deleteClient(sessionID string) {
	sugar.Debugf("Removing session ID [%s] from clients", sessionID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	delete(clients, sessionID)
}

func GetClient(sessionID string) (*Client, bool) {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	client, exists := clients[sessionID]
	return client, exists
}
