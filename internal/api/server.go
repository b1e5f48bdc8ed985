// Package api exposes read-only HTTP views over the lifecycle state.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/lifecycle"
)

type Server struct {
	store         lifecycle.Store
	agedThreshold int
	log           *zap.Logger
	now           func() time.Time
}

func NewServer(store lifecycle.Store, agedThreshold int, log *zap.Logger) *Server {
	return &Server{store: store, agedThreshold: agedThreshold, log: log, now: time.Now}
}

// Router builds the gin engine. Callers choose the gin mode.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/state", s.state)
	r.GET("/aged", s.aged)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) state(c *gin.Context) {
	entries, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.log.Error("❌ Failed to load state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
		return
	}
	if entries == nil {
		entries = []lifecycle.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "entries": entries})
}

func (s *Server) aged(c *gin.Context) {
	threshold := s.agedThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
			return
		}
		threshold = n
	}

	entries, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.log.Error("❌ Failed to load state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
		return
	}
	aged := lifecycle.Aged(entries, lifecycle.RunTime(s.now()), threshold)
	if aged == nil {
		aged = []lifecycle.AgedEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"threshold_days": threshold, "count": len(aged), "entries": aged})
}
