package middlewares

import (
	"bytes"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"eventmanagement/utils"
)

type cachedBody struct {
	Status int
	Header map[string][]string
	Body   []byte
}

// hash path+query so keys stay short
func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// CacheKeyFrom returns the Redis key for a cacheable request, or "" when the
// response must not be cached. Only the public events listing qualifies;
// anything tied to a session (the profile) is never cached.
func CacheKeyFrom(c *gin.Context) string {
	if c.Request.Method != "GET" {
		return ""
	}
	switch c.FullPath() {
	case "/events/getEvents":
		return utils.EventsListCachePrefix + sha1Hex("GET|/events/getEvents|"+c.Request.URL.RawQuery)
	default:
		return ""
	}
}

// ResponseCache serves cached 2xx responses from Redis and stores fresh ones
// for ttl. X-Cache tells HIT from MISS. Redis errors fall through to the
// handler.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := CacheKeyFrom(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		// 1) hit: replay the stored response and stop
		if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var hit cachedBody
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
				for k, vals := range hit.Header {
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Writer.Header().Set("X-Cache", "HIT")
				c.Status(hit.Status)
				_, _ = c.Writer.Write(hit.Body)
				c.Abort()
				return
			}
		}

		// 2) miss: tee the handler's output
		bw := &bufferedWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = bw
		c.Writer.Header().Set("X-Cache", "MISS")

		c.Next()

		// 3) keep 2xx only; errors must not stick for ttl
		if bw.Status() >= 200 && bw.Status() < 300 {
			item := cachedBody{
				Status: bw.Status(),
				Header: map[string][]string{"Content-Type": bw.Header().Values("Content-Type")},
				Body:   bw.buf.Bytes(),
			}
			var o bytes.Buffer
			if err := gob.NewEncoder(&o).Encode(item); err == nil {
				_ = rdb.Set(ctx, key, o.Bytes(), ttl).Err()
			}
		}
	}
}

// bufferedWriter copies everything written to the client into buf.
type bufferedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
