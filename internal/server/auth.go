package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yboost/yboost/pkg/database/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionCookie = "yboost_session"
	sessionMaxAge = 7 * 24 * time.Hour
	bcryptCost    = 10

	ctxUserID = "userID"
	ctxPseudo = "pseudo"
)

type credentialsRequest struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID     string `json:"id"`
	Pseudo string `json:"pseudo"`
}

type sessionClaims struct {
	Pseudo string `json:"pseudo"`
	jwt.RegisteredClaims
}

func (s *Server) issueSession(c *gin.Context, userID uuid.UUID, pseudo string) error {
	claims := sessionClaims{
		Pseudo: pseudo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionMaxAge)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookie, token, int(sessionMaxAge.Seconds()), "/", "", false, true)
	return nil
}

func (s *Server) parseSession(c *gin.Context) (*sessionClaims, bool) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return nil, false
	}
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return &claims, true
}

// requireAuth rejects the request before any store access when no valid
// session is present.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := s.parseSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxPseudo, claims.Pseudo)
		c.Next()
	}
}

// currentUser reads the identity the auth middleware resolved.
func currentUser(c *gin.Context) (uuid.UUID, string) {
	return c.MustGet(ctxUserID).(uuid.UUID), c.GetString(ctxPseudo)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pseudo and password are required"})
		return
	}
	if req.Pseudo == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pseudo and password are required"})
		return
	}
	if len(req.Pseudo) < 3 || len(req.Pseudo) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pseudo must be between 3 and 20 characters"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}

	taken, err := s.users.PseudoTaken(req.Pseudo)
	if err != nil {
		s.log.Error("register lookup failed", err, map[string]interface{}{"pseudo": req.Pseudo})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "this pseudo is already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	user := &models.User{Pseudo: req.Pseudo, PasswordHash: string(hash)}
	if err := s.users.Create(user); err != nil {
		s.log.Error("register create failed", err, map[string]interface{}{"pseudo": req.Pseudo})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	if err := s.issueSession(c, user.ID, user.Pseudo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	s.log.Info("user registered", map[string]interface{}{"pseudo": user.Pseudo, "user_id": user.ID.String()})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    sessionUser{ID: user.ID.String(), Pseudo: user.Pseudo},
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Pseudo == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pseudo and password are required"})
		return
	}

	user, err := s.users.GetByPseudo(req.Pseudo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect pseudo or password"})
			return
		}
		s.log.Error("login lookup failed", err, map[string]interface{}{"pseudo": req.Pseudo})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect pseudo or password"})
		return
	}

	if err := s.issueSession(c, user.ID, user.Pseudo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	s.log.Info("user logged in", map[string]interface{}{"pseudo": user.Pseudo, "user_id": user.ID.String()})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    sessionUser{ID: user.ID.String(), Pseudo: user.Pseudo},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleSession resolves the token subject against the store, so a session
// for a deleted account reports anonymous instead of a ghost identity.
func (s *Server) handleSession(c *gin.Context) {
	claims, ok := s.parseSession(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		s.log.Error("session lookup failed", err, map[string]interface{}{"user_id": claims.Subject})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          sessionUser{ID: user.ID.String(), Pseudo: user.Pseudo},
	})
}
