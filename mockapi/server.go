package mockapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/apiclient/logger"
)

// Route paths served by the mock API.
const (
	LoginPath   = "/api/auth/login"
	RefreshPath = "/api/auth/refresh"
	ExpirePath  = "/api/auth/expire"
)

// Server is the mock API server.
type Server struct {
	cfg          Config
	log          *logger.Logger
	engine       *gin.Engine
	handler      http.Handler
	tokens       *tokenIssuer
	data         *dataset
	passwordHash []byte

	httpServer *http.Server
	listener   net.Listener

	refreshCalls atomic.Int64
	failRefresh  atomic.Bool

	mu    sync.Mutex
	gate  chan struct{}
	auths []string
}

// New creates a Server. Routes are registered but nothing is listening
// until Start is called.
func New(cfg Config, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("mockapi: hash password: %w", err)
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:          cfg,
		log:          logger.OrDefault(log).WithComponent("mockapi"),
		engine:       gin.New(),
		tokens:       newTokenIssuer(cfg.Secret, cfg.AccessTTL),
		data:         newDataset(),
		passwordHash: hash,
	}
	s.routes()

	// h2c lets HTTP/2 clients talk to the server without TLS.
	s.handler = h2c.NewHandler(s.engine, &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	})
	return s, nil
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestID(), requestLogger(s.log))

	auth := s.engine.Group("/api/auth")
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refresh)
	auth.POST("/expire", s.expire)

	api := s.engine.Group("/", s.bearer())
	api.GET("/users", s.listUsers)
	api.GET("/users/:id", s.getUser)
	api.POST("/users/:id/avatar", s.uploadAvatar)
	api.GET("/posts", s.listPosts)
	api.POST("/posts", s.createPost)
}

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Addr()
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mockapi failed to bind %s: %w", addr, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("mock API listening", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockapi shutdown error: %w", err)
	}
	s.log.Info("mock API stopped")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr()
}

// IssueTokens returns a valid access/refresh pair for subject without a login.
func (s *Server) IssueTokens(subject string) (access, refresh string, err error) {
	return s.tokens.issue(subject)
}

// Expire invalidates every outstanding access token and returns the new generation.
func (s *Server) Expire() int64 {
	gen := s.tokens.expire()
	s.log.Info("access tokens expired", logger.Fields("generation", gen))
	return gen
}

// SetFailRefresh makes every refresh attempt answer 401.
func (s *Server) SetFailRefresh(fail bool) {
	s.failRefresh.Store(fail)
}

// HoldRefresh blocks refresh requests until the returned release func is called.
func (s *Server) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gate == gate {
				s.gate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// RefreshCalls returns how many refresh requests have been received.
func (s *Server) RefreshCalls() int64 {
	return s.refreshCalls.Load()
}

// Authorizations returns the Authorization headers seen on protected routes, in order.
func (s *Server) Authorizations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.auths))
	copy(out, s.auths)
	return out
}

func (s *Server) refreshGate() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate
}

func (s *Server) recordAuthorization(header string) {
	s.mu.Lock()
	s.auths = append(s.auths, header)
	s.mu.Unlock()
}
