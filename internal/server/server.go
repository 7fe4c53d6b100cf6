// Package server exposes the Yboost HTTP API: the skin catalog, account
// registration and session handling, and the per-user skin collection CRUD,
// plus a WebSocket feed of collection-changed events.
package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yboost/yboost/internal/broadcast"
	"github.com/yboost/yboost/internal/config"
	"github.com/yboost/yboost/internal/version"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/database/models"
	"github.com/yboost/yboost/pkg/database/repository"
	"github.com/yboost/yboost/pkg/logging"
)

// CollectionStore is the durable multiset of owned skins, keyed by user.
// *repository.CollectionRepository implements it; tests use an in-memory fake.
type CollectionStore interface {
	AddMany(userID uuid.UUID, awards []repository.Award) error
	ListByUser(userID uuid.UUID) ([]models.OwnedSkin, error)
	Remove(userID uuid.UUID, skinID int) (int64, error)
}

// UserStore is the account storage needed by the auth routes.
type UserStore interface {
	Create(user *models.User) error
	GetByPseudo(pseudo string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
	PseudoTaken(pseudo string) (bool, error)
}

// Options wires a Server together.
type Options struct {
	LoggerFactory logging.LoggerFactory
	Users         UserStore
	Collection    CollectionStore
	Hub           *broadcast.Hub
	SessionSecret string
	Boosters      []config.Booster
	Catalog       *catalog.Catalog
	CatalogPath   string
	// PingDB checks store reachability for the health endpoint; may be nil.
	PingDB func() error
}

// Server holds the API state. The catalog pointer is swapped atomically on
// reload; request handlers always see a consistent snapshot.
type Server struct {
	log         logging.Logger
	users       UserStore
	collection  CollectionStore
	hub         *broadcast.Hub
	secret      []byte
	boosters    []config.Booster
	catalogPath string
	cat         atomic.Pointer[catalog.Catalog]
	storeOK     atomic.Bool
	pingDB      func() error
	upgrader    websocket.Upgrader
	startedAt   time.Time
}

func New(opts Options) *Server {
	s := &Server{
		log:         opts.LoggerFactory.CreateLogger("server"),
		users:       opts.Users,
		collection:  opts.Collection,
		hub:         opts.Hub,
		secret:      []byte(opts.SessionSecret),
		boosters:    opts.Boosters,
		catalogPath: opts.CatalogPath,
		pingDB:      opts.PingDB,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin policy is not enforced; auth happens via the
			// session cookie before the upgrade.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		startedAt: time.Now(),
	}
	if opts.Catalog != nil {
		s.cat.Store(opts.Catalog)
	} else {
		s.cat.Store(catalog.New(nil))
	}
	s.storeOK.Store(true)
	return s
}

// Catalog returns the current catalog snapshot.
func (s *Server) Catalog() *catalog.Catalog {
	return s.cat.Load()
}

// ReloadCatalog re-reads the catalog file and swaps it in. On failure the
// previous catalog stays active.
func (s *Server) ReloadCatalog() error {
	cat, err := catalog.Load(s.catalogPath)
	if err != nil {
		s.log.Error("catalog reload failed, keeping previous catalog", err, map[string]interface{}{
			"path": s.catalogPath,
		})
		return err
	}
	s.cat.Store(cat)
	s.log.Info("catalog reloaded", map[string]interface{}{
		"path":  s.catalogPath,
		"skins": cat.Len(),
	})
	return nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/skins", s.handleCatalog)
		api.GET("/boosters", s.handleBoosters)
		api.POST("/register", s.handleRegister)
		api.POST("/login", s.handleLogin)
		api.POST("/logout", s.handleLogout)
		api.GET("/session", s.handleSession)

		user := api.Group("/user", s.requireAuth())
		{
			user.GET("/skins", s.handleListSkins)
			user.POST("/skins", s.handleAddSkins)
			user.DELETE("/skins/:skinId", s.handleRemoveSkin)
		}
		api.POST("/stress-test", s.requireAuth(), s.handleStressTest)
	}

	r.GET("/ws", s.requireAuth(), s.handleWS)

	return r
}

// requestLogger logs each request through the zap-backed logger, the way the
// original piped morgan into its logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request", map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
	}
}

// markStore records the outcome of a store operation for the availability
// signal surfaced on reads and on /health.
func (s *Server) markStore(err error) {
	s.storeOK.Store(err == nil)
}

func (s *Server) handleHealth(c *gin.Context) {
	storeOK := s.storeOK.Load()
	if s.pingDB != nil {
		storeOK = s.pingDB() == nil
		s.storeOK.Store(storeOK)
	}
	status := http.StatusOK
	state := "healthy"
	if !storeOK {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":         state,
		"version":        version.Get().Version,
		"uptime":         time.Since(s.startedAt).String(),
		"storeAvailable": storeOK,
		"catalogSkins":   s.Catalog().Len(),
	})
}

// handleBoosters lists the configured pack definitions.
func (s *Server) handleBoosters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"boosters": s.boosters})
}
