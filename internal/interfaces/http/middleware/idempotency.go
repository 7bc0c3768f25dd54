package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry a write without applying it twice
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// Idempotency guards non-repeatable writes with the Idempotency-Key header.
// The first request with a key claims it; repeats get 409 DUPLICATE_REQUEST
// while the claim lives. A request that fails releases its key so the client
// can retry. Requests without the header pass through.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		// scoped to the route so one key cannot collide across endpoints
		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		ctx := c.Request.Context()

		claimed, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			// an unavailable store must not block purchases
			logger.Warn("idempotency store unavailable, processing without key",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				shared.ErrDuplicateRequest.Code, shared.ErrDuplicateRequest.Message, GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Forget(ctx, scoped); err != nil {
				logger.Warn("failed to release idempotency key",
					zap.String("idempotency_key", key),
					zap.Error(err),
				)
			}
		}
	}
}
