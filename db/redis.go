package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

// CollectLockKey guards against overlapping pipeline runs. A scheduled
// trigger and a manual trigger arriving together must not both collect.
const CollectLockKey = "interview-guide:lock:daily-news"

// CollectLockTTL bounds how long a crashed run can keep the lock.
const CollectLockTTL = 10 * time.Minute

var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		fmt.Println("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// TryLock attempts to take the named lock with the given owner token.
// Returns false without error when another run already holds it.
func TryLock(key string, token string, ttl time.Duration) (bool, error) {
	return Redis.SetNX(Ctx, key, token, ttl).Result()
}

// Unlock releases the lock only when it is still held by the same token,
// so an expired-and-retaken lock is never deleted by the old owner.
func Unlock(key string, token string) error {
	return unlockScript.Run(Ctx, Redis, []string{key}, token).Err()
}

// LockGuard adapts the package-level lock helpers to an interface value
// handlers can take a fake of.
type LockGuard struct{}

func (LockGuard) TryLock(key string, token string, ttl time.Duration) (bool, error) {
	return TryLock(key, token, ttl)
}

func (LockGuard) Unlock(key string, token string) error {
	return Unlock(key, token)
}
