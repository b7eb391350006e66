package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// SmsCooldownRepository 控制同一手機號碼的簡訊發送間隔。
// 有 Redis 時以 SETNX + EX 實作，多個 instance 共用；否則退回行程內的 map。
type SmsCooldownRepository struct {
	trace     *telemetry.Trace
	client    *redis.Client
	keyPrefix string
	now       func() time.Time

	mu    sync.Mutex
	local map[string]time.Time
}

func NewSmsCooldownRepository(trace *telemetry.Trace, redisClient *client.RedisClient, config *config.Configuration) *SmsCooldownRepository {
	prefix := string(core.RedisKeyServerName)
	if config.Redis.KeyPrefix != "" {
		prefix = config.Redis.KeyPrefix
	}
	return &SmsCooldownRepository{
		trace:     trace,
		client:    redisClient.Client(),
		keyPrefix: prefix,
		now:       time.Now,
		local:     make(map[string]time.Time),
	}
}

// Acquire 嘗試佔用發送名額；acquired=false 時 ttlSeconds 為剩餘冷卻秒數
func (repository *SmsCooldownRepository) Acquire(
	contextValue context.Context,
	phoneNumber string,
	windowSeconds int64,
) (acquired bool, timeToLiveSeconds int64, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceSmsCooldownMeta{
		Phone:     maskPhone(phoneNumber),
		WindowSec: windowSeconds,
		Backend:   repository.backend(),
		Op:        "acquire",
	}
	defer func() {
		traceMetadata.Acquired, traceMetadata.TTL = acquired, timeToLiveSeconds
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
	}()

	if windowSeconds <= 0 {
		return true, 0, nil
	}
	if repository.client == nil {
		acquired, timeToLiveSeconds = repository.acquireLocal(phoneNumber, windowSeconds)
		return acquired, timeToLiveSeconds, nil
	}

	redisKey := repository.buildKey(phoneNumber)
	expirationDuration := time.Duration(windowSeconds) * time.Second

	// SETNX key value EX expiration
	wasSet, setError := repository.client.SetNX(contextValue, redisKey, repository.now().Unix(), expirationDuration).Result()
	if setError != nil {
		returnedError = setError
		return false, 0, returnedError
	}
	if wasSet {
		return true, windowSeconds, nil
	}

	ttlDuration, ttlError := repository.client.TTL(contextValue, redisKey).Result()
	if ttlError != nil {
		returnedError = ttlError
		return false, 0, returnedError
	}
	if ttlDuration > 0 {
		timeToLiveSeconds = int64(ttlDuration.Seconds())
		if timeToLiveSeconds == 0 {
			timeToLiveSeconds = 1
		}
	}
	return false, timeToLiveSeconds, nil
}

// Release 清除冷卻（發送失敗時呼叫，讓使用者可立即重試）
func (repository *SmsCooldownRepository) Release(contextValue context.Context, phoneNumber string) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceSmsCooldownMeta{
		Phone:   maskPhone(phoneNumber),
		Backend: repository.backend(),
		Op:      "release",
	})

	if repository.client == nil {
		repository.mu.Lock()
		delete(repository.local, phoneNumber)
		repository.mu.Unlock()
		return nil
	}
	returnedError = repository.client.Del(contextValue, repository.buildKey(phoneNumber)).Err()
	return returnedError
}

func (repository *SmsCooldownRepository) acquireLocal(phoneNumber string, windowSeconds int64) (bool, int64) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := repository.now()
	if until, ok := repository.local[phoneNumber]; ok && now.Before(until) {
		remaining := int64(until.Sub(now).Seconds())
		if remaining == 0 {
			remaining = 1
		}
		return false, remaining
	}
	for phone, until := range repository.local {
		if !now.Before(until) {
			delete(repository.local, phone)
		}
	}
	repository.local[phoneNumber] = now.Add(time.Duration(windowSeconds) * time.Second)
	return true, windowSeconds
}

func (repository *SmsCooldownRepository) backend() string {
	if repository.client == nil {
		return "memory"
	}
	return "redis"
}

// buildKey 建構簡訊冷卻用的 Redis key
func (repository *SmsCooldownRepository) buildKey(phoneNumber string) string {
	return fmt.Sprintf("%s:%s:%s", repository.keyPrefix, core.RedisKeySmsCooldown, phoneNumber)
}

// maskPhone 只保留前三後四碼
func maskPhone(phone string) string {
	if len(phone) < 8 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:3] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-4:]
}
