package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyResultTTL = 24 * time.Hour
	idempotencyLockTTL   = 30 * time.Second
)

type bufferingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key, and rejects a duplicate that arrives while the first
// attempt is still in flight. Requests without the header pass through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			c.Header("Content-Type", "application/json")
			c.Header("Idempotent-Replay", "true")
			c.Data(http.StatusOK, "application/json", cached)
			c.Abort()
			return
		}

		// The lock expires on its own, so a crashed attempt cannot wedge the
		// key forever.
		acquired, _ := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if !acquired {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"a request with this idempotency key is still being processed", nil)
			c.Abort()
			return
		}

		writer := &bufferingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if status := writer.Status(); status >= 200 && status < 300 {
			rdb.Set(ctx, cacheKey, writer.body.Bytes(), idempotencyResultTTL)
		}
		rdb.Del(ctx, lockKey)
	}
}
