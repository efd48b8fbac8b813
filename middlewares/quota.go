package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type QuotaRule struct {
	Limit  int                       // requests allowed per window
	Window time.Duration             // e.g. 24h
	KeyFn  func(*gin.Context) string // "" skips the quota for this request
}

// DailyUserQuota keys the counter on the authenticated user id.
func DailyUserQuota(limit int) QuotaRule {
	return QuotaRule{
		Limit:  limit,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			uid := c.GetString(CtxUserID)
			if uid == "" {
				return ""
			}
			return "quota:user:" + uid + ":day"
		},
	}
}

// Quota counts requests per key with INCR and expires the counter after the
// window. When Redis is unreachable the request is let through.
func Quota(rdb *redis.Client, rule QuotaRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.KeyFn(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		// first hit of the window starts the clock
		if n == 1 {
			_ = rdb.Expire(ctx, key, rule.Window).Err()
		}
		if int(n) > rule.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"msg": "Usage quota exceeded. Please try again later.",
			})
			return
		}
		c.Header("X-Quota-Used", fmt.Sprintf("%d/%d", n, rule.Limit))
		c.Next()
	}
}
