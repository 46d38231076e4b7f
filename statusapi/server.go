// Package statusapi exposes a read-only HTTP surface over the
// validator's public state (chain height, difficulty, active
// connections) for operators and monitoring. Grounded on
// thanhnp95-chain-apis/internal/api/router.go and
// internal/api/middleware/middleware.go (github.com/gin-gonic/gin),
// trimmed to the two routes Hourcoin needs.
package statusapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hourcoin/server"
	"hourcoin/validator"
)

// Server wraps a gin engine serving GET /status and GET /healthz.
type Server struct {
	engine    *gin.Engine
	validator *validator.Validator
	registry  *server.ConnectionRegistry
}

// New builds the status API around a validator and its connection
// registry.
func New(v *validator.Validator, registry *server.ConnectionRegistry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(loggerMiddleware(), recoveryMiddleware())

	s := &Server{engine: engine, validator: v, registry: registry}
	engine.GET("/status", s.handleStatus)
	engine.GET("/healthz", s.handleHealthz)
	return s
}

// ListenAndServe starts the HTTP server on addr. It blocks until the
// server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.engine)
}

// loggerMiddleware logs one line per request, in the style of
// thanhnp95-chain-apis/internal/api/middleware/middleware.go's Logger.
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("statusapi: %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// recoveryMiddleware converts a panic into a 500 instead of crashing the
// process, matching thanhnp95-chain-apis's Recovery middleware.
func recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("statusapi: recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

type statusResponse struct {
	BlockCount       int    `json:"block_count"`
	DifficultyHex    string `json:"difficulty_hex"`
	LastHashHex      string `json:"last_hash_hex"`
	OpenConnections  int    `json:"open_connections"`
	ActiveLockouts   int    `json:"active_lockouts"`
	ChallengeSeconds uint64 `json:"challenge_seconds_remaining"`
}

func (s *Server) handleStatus(c *gin.Context) {
	info := s.validator.Info()
	round := s.validator.CurrentRoundInfo()

	c.JSON(http.StatusOK, statusResponse{
		BlockCount:       info.BlockCount,
		DifficultyHex:    info.Difficulty.String(),
		LastHashHex:      info.LastBlockHash.String(),
		OpenConnections:  s.registry.Count(),
		ActiveLockouts:   round.ActiveLockouts,
		ChallengeSeconds: round.ChallengeSecondsRemaining,
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
