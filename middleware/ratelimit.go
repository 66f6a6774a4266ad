package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"roomdesk-backend/config"
	"roomdesk-backend/utils"
)

// tokenBucketScript refills and takes one token atomically. KEYS[1] is the
// bucket; ARGV holds capacity, refill tokens, refill interval ms, now ms and
// ttl ms. Returns {allowed, tokens_left, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_tokens = tonumber(ARGV[2])
local refill_interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1])
local last_refill = tonumber(bucket[2])

if tokens == nil then
  tokens = capacity
  last_refill = now
else
  local elapsed = now - last_refill
  if elapsed >= refill_interval then
    local refills = math.floor(elapsed / refill_interval)
    tokens = math.min(capacity, tokens + refills * refill_tokens)
    last_refill = last_refill + refills * refill_interval
  end
end

local allowed = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
redis.call('PEXPIRE', key, ttl)

local retry = 0
if allowed == 0 then
  retry = refill_interval - (now - last_refill)
  if retry < 0 then retry = 0 end
end

return {allowed, tokens, retry}
`)

// RateLimit enforces a per-client token bucket on a route scope. With no
// Redis client or zero capacity the middleware is a no-op; a Redis failure
// fails open.
func RateLimit(rdb *redis.Client, limit config.RateLimit, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit.Capacity <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		res, err := tokenBucketScript.Run(context.Background(), rdb, []string{key},
			limit.Capacity,
			limit.RefillTokens,
			limit.RefillInterval.Milliseconds(),
			time.Now().UnixMilli(),
			limit.TTL.Milliseconds(),
		).Slice()
		if err != nil || len(res) != 3 {
			c.Next()
			return
		}

		allowed, _ := res[0].(int64)
		remaining, _ := res[1].(int64)
		retryMs, _ := res[2].(int64)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if allowed != 1 {
			c.Header("Retry-After", strconv.FormatInt((retryMs+999)/1000, 10))
			utils.JSONError(c, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
