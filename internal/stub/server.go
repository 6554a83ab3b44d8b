// Package stub ships a small in-process double of the HealthPulse auth
// backend, used for local development and integration tests of the client.
package stub

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	ID           string
	Username     string
	PasswordHash []byte
}

// Server holds an in-memory user table and issues HS256 tokens.
type Server struct {
	mu         sync.RWMutex
	users      map[string]user
	signingKey []byte
	tokenTTL   time.Duration
}

func NewServer(signingKey []byte, tokenTTL time.Duration) *Server {
	return &Server{
		users:      make(map[string]user),
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
	}
}

// AddUser registers a user with a bcrypt-hashed password.
func (s *Server) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = user{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	return nil
}

func (s *Server) lookup(username string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

// Router builds the gin engine exposing the auth endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.handleLogin)
	r.GET("/auth/verify-token", s.handleVerify)

	return r
}
