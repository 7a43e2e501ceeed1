package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

var localPubSubMutex sync.RWMutex
var localPubSub = make(map[string][]string)

func subscriptionKey(scope string, channel int64) string {
	return fmt.Sprintf("%s:%d", scope, channel)
}

func unsubscribeLocal(key string, sessionID string) {
	sessionIDs := localPubSub[key]

	// this won't run in case the key doesn't exist since length will be 0
	for i := range sessionIDs {
		if sessionIDs[i] == sessionID {
			sessionIDs[i] = sessionIDs[len(sessionIDs)-1]
			localPubSub[key] = sessionIDs[:len(sessionIDs)-1]
			break
		}
	}

	if len(localPubSub[key]) == 0 {
		delete(localPubSub, key)
	}
}

func unsubscribeFromAllLocal(sessionID string) {
	localPubSubMutex.Lock()
	defer localPubSubMutex.Unlock()

	for key := range localPubSub {
		unsubscribeLocal(key, sessionID)
	}
}

// Subscribe points a session at a fan-out key. A session follows at most one
// chat channel at a time, so subscribing to a new one drops the old; the
// global feed is kept alongside.
func Subscribe(scope string, channel int64, sessionID string) error {
	client, exists := GetClient(sessionID)
	if !exists {
		return fmt.Errorf("session ID [%s] tried to subscribe to %s [%d] but the session isn't connected to hub",
			sessionID, scope, channel)
	}

	client.mutex.Lock()
	defer client.mutex.Unlock()

	unsub := func(oldKey string) error {
		if selfContained {
			localPubSubMutex.Lock()
			unsubscribeLocal(oldKey, sessionID)
			localPubSubMutex.Unlock()
			return nil
		}
		return client.PubSub.Unsubscribe(client.Ctx, oldKey)
	}

	switch scope {
	case ScopeChannel:
		if err := unsub(subscriptionKey(ScopeChannel, client.CurrentChannelID)); err != nil {
			return err
		}
		client.CurrentChannelID = channel
	case ScopeGlobal:
		// constantly in view, nothing to swap out
	default:
		sugar.Fatalf("Wrong scope [%s] was provided to Subscribe", scope)
	}

	key := subscriptionKey(scope, channel)

	if selfContained {
		localPubSubMutex.Lock()
		localPubSub[key] = append(localPubSub[key], sessionID)
		localPubSubMutex.Unlock()
	} else {
		if err := client.PubSub.Subscribe(client.Ctx, key); err != nil {
			return err
		}
	}

	sugar.Debugf("Session ID [%s] subscribed to %s", sessionID, key)
	return nil
}

// Emit fans an event out to every session subscribed to the scope. Frame
// layout: event type, newline, JSON body.
func Emit(messageType string, scope string, channel int64, message any) error {
	jsonBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(messageType) + 1 + len(jsonBytes))
	buf.WriteString(messageType)
	buf.WriteByte('\n')
	buf.Write(jsonBytes)

	key := subscriptionKey(scope, channel)

	if selfContained {
		localPubSubMutex.RLock()
		defer localPubSubMutex.RUnlock()

		for _, sessionID := range localPubSub[key] {
			client, exists := GetClient(sessionID)
			if !exists {
				sugar.Warnf("Session ID [%s] is supposed to be available", sessionID)
				continue
			}
			select {
			case client.WsChannel <- buf.String():
			case <-client.Ctx.Done():
			}
		}
		return nil
	}

	return redisClient.Publish(redisCtx, key, buf.String()).Err()
}
