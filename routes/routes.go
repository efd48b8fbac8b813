package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eventmanagement/middlewares"
	"eventmanagement/services"
	"eventmanagement/utils"
)

// Options is everything the HTTP layer needs from main.
type Options struct {
	Auth   *services.AuthService
	Events *services.EventService
	Tokens *utils.TokenManager

	// Redis is optional; nil disables the response cache and the quota.
	Redis      *redis.Client
	CacheTTL   time.Duration
	QuotaLimit int

	CookieMaxAge time.Duration
	CookieSecure bool

	// Health pings the store; nil reports healthy.
	Health func(ctx context.Context) error

	// GlobalLimit applies per client ip to every route, AuthLimit to
	// register and login, UserLimit per user id to the session routes.
	// Zero values take the defaults below.
	GlobalLimit middlewares.LimiterConfig
	AuthLimit   middlewares.LimiterConfig
	UserLimit   middlewares.LimiterConfig

	Logger zerolog.Logger
}

var (
	defaultGlobalLimit = middlewares.LimiterConfig{RPS: 20, Burst: 40, IdleTTL: 3 * time.Minute}
	defaultAuthLimit   = middlewares.LimiterConfig{RPS: 0.5, Burst: 2, IdleTTL: 10 * time.Minute} // one try every 2s
	defaultUserLimit   = middlewares.LimiterConfig{RPS: 5, Burst: 10, IdleTTL: 10 * time.Minute}
)

type deps struct {
	auth   *services.AuthService
	events *services.EventService
	inv    *utils.CacheInvalidator
	health func(ctx context.Context) error
	log    zerolog.Logger

	cookieMaxAge time.Duration
	cookieSecure bool
}

// RegisterRoutes mounts the auth and events APIs on server. ctx bounds the
// lifetime of the rate limiter janitors.
func RegisterRoutes(ctx context.Context, server *gin.Engine, opts Options) {
	d := &deps{
		auth:         opts.Auth,
		events:       opts.Events,
		health:       opts.Health,
		log:          opts.Logger,
		cookieMaxAge: opts.CookieMaxAge,
		cookieSecure: opts.CookieSecure,
	}
	if opts.Redis != nil {
		d.inv = utils.NewCacheInvalidator(opts.Redis)
	}

	global := opts.GlobalLimit
	if global.RPS == 0 {
		global = defaultGlobalLimit
	}
	authLim := opts.AuthLimit
	if authLim.RPS == 0 {
		authLim = defaultAuthLimit
	}
	userLim := opts.UserLimit
	if userLim.RPS == 0 {
		userLim = defaultUserLimit
	}

	server.Use(middlewares.NewRateLimiter(ctx, global).Middleware(middlewares.ByClientIP("ip:")))

	server.GET("/health", d.healthCheck)

	// ===== /api/auth =====
	authLimiter := middlewares.NewRateLimiter(ctx, authLim)
	authGroup := server.Group("/api/auth")
	authGroup.POST("/register", authLimiter.Middleware(middlewares.ByClientIP("register:")), d.register)
	authGroup.POST("/login", authLimiter.Middleware(middlewares.ByClientIP("login:")), d.login)

	// session routes: verify the token, then limit spikes per user and
	// cap daily usage
	userLimiter := middlewares.NewRateLimiter(ctx, userLim).Middleware(middlewares.ByUserID("u:"))

	session := authGroup.Group("")
	session.Use(middlewares.Authenticate(opts.Tokens), userLimiter)
	if opts.Redis != nil && opts.QuotaLimit > 0 {
		session.Use(middlewares.Quota(opts.Redis, middlewares.DailyUserQuota(opts.QuotaLimit)))
	}
	session.GET("/profile", d.profile)
	session.POST("/logout", d.logout)

	// ===== /events =====
	// The admin endpoints take no identity and check no role, matching the
	// existing client contract.
	events := server.Group("/events")
	if opts.Redis != nil {
		events.GET("/getEvents", middlewares.ResponseCache(opts.Redis, opts.CacheTTL), d.getEvents)
	} else {
		events.GET("/getEvents", d.getEvents)
	}
	events.POST("/eventInsert", d.createEvent)
	events.PUT("/updateEvent/:id", d.updateEvent)
	events.DELETE("/deleteEvent/:id", d.deleteEvent)

	rsvp := events.Group("/rsvp")
	rsvp.Use(middlewares.Authenticate(opts.Tokens), userLimiter)
	if opts.Redis != nil && opts.QuotaLimit > 0 {
		rsvp.Use(middlewares.Quota(opts.Redis, middlewares.DailyUserQuota(opts.QuotaLimit)))
	}
	rsvp.POST("/:id", d.submitRSVP)
}

// GET /health
func (d *deps) healthCheck(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if d.health != nil {
		if err := d.health(c.Request.Context()); err != nil {
			_ = c.Error(err)
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "event-management",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
