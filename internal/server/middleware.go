package server

import (
	"encoding/json"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/esimov/ciya/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// RequestIDHeader carries the request identifier.
const RequestIDHeader = "X-Request-ID"

// TokenBucketPerIP limits the number of requests per second of each client.
func TokenBucketPerIP(rate float64) gin.HandlerFunc {
	message := map[string]any{
		"message": "You are going too fast! You have been ratelimited.",
	}
	jsonMessage, _ := json.Marshal(message)

	tlbthLimiter := tollbooth.NewLimiter(rate, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Minute * 1,
	})
	tlbthLimiter.SetMessageContentType("application/json")
	tlbthLimiter.SetMessage(string(jsonMessage))

	return tollbooth_gin.LimitHandler(tlbthLimiter)
}

// RequestID tags each request with a ULID, reusing a valid one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
		}
		ctx.Set("RequestID", id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// RequestLogger logs every served request.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		logger.Info("request served",
			logger.LoggerOptions{Key: "request_id", Data: ctx.GetString("RequestID")},
			logger.LoggerOptions{Key: "method", Data: ctx.Request.Method},
			logger.LoggerOptions{Key: "path", Data: ctx.Request.URL.Path},
			logger.LoggerOptions{Key: "status", Data: ctx.Writer.Status()},
			logger.LoggerOptions{Key: "latency", Data: time.Since(start)},
			logger.LoggerOptions{Key: "client_ip", Data: ctx.ClientIP()},
		)
	}
}
