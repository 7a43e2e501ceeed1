// Package keyValue is a small TTL cache: an in-process map when the server
// runs self-contained, redis otherwise.
package keyValue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type entry struct {
	value   string
	expires time.Time
}

var mutex sync.RWMutex
var hashmap = make(map[string]entry)

var sugar *zap.SugaredLogger
var redisClient *redis.Client
var redisCtx = context.Background()
var selfContained = true

func Setup(_sugar *zap.SugaredLogger, _redisClient *redis.Client, _selfContained bool) {
	sugar = _sugar
	redisClient = _redisClient
	selfContained = _selfContained

	if selfContained {
		go evictExpiredKeys()
	}
}

func evictExpiredKeys() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mutex.Lock()
		now := time.Now()
		for key, e := range hashmap {
			if e.expires.Before(now) {
				delete(hashmap, key)
			}
		}
		mutex.Unlock()
	}
}

// Get returns the cached value or "" when the key is absent or expired.
func Get(key string) (string, error) {
	if selfContained {
		mutex.RLock()
		defer mutex.RUnlock()

		e, exists := hashmap[key]
		if !exists || e.expires.Before(time.Now()) {
			return "", nil
		}
		return e.value, nil
	}

	value, err := redisClient.Get(redisCtx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return value, nil
}

func Set(key string, value string, expires time.Duration) error {
	sugar.Debugf("Setting value of key [%s] to [%s]", key, value)

	if selfContained {
		mutex.Lock()
		defer mutex.Unlock()

		hashmap[key] = entry{value, time.Now().Add(expires)}
		return nil
	}

	_, err := redisClient.Set(redisCtx, key, value, expires).Result()
	return err
}
