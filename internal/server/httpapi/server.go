// Package httpapi exposes the mirror over HTTP: a login handshake, whole-
// document GET/PUT, a liveness probe and a websocket feed of updates.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvlab/settlement/internal/logging"
	"github.com/hvlab/settlement/internal/server/auth"
	"github.com/hvlab/settlement/internal/server/config"
	"github.com/hvlab/settlement/internal/server/documents"
)

// maxDocumentSize bounds a PUT body. Memo images are embedded base64, so
// documents can get large, but not this large.
const maxDocumentSize = 64 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	config *config.Config
	docs   *documents.Service
	hub    *Hub
	logger logging.Logger
}

func NewServer(c *config.Config, docs *documents.Service, logger logging.Logger) *Server {
	return &Server{
		config: c,
		docs:   docs,
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/login", s.login)
	r.GET("/api/ping", s.ping)

	authorized := r.Group("/api", s.requireToken)
	authorized.GET("/document", s.getDocument)
	authorized.PUT("/document", s.putDocument)
	authorized.GET("/ws", s.subscribe)

	return r
}

type loginRequest struct {
	AccessKey string `json:"access_key" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_key required"})
		return
	}

	// An empty configured hash leaves the door open for local demos.
	if s.config.AccessKeyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.config.AccessKeyHash), []byte(req.AccessKey)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access key"})
			return
		}
	} else {
		s.logger.Warn(c.Request.Context(), "login without a configured access key hash")
	}

	token, err := auth.GenerateToken(uuid.NewString(), []byte(s.config.TokenSecret), s.config.TokenValidity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireToken validates the bearer token and stores the client id in the
// gin context for downstream handlers.
func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	clientID, err := auth.GetClientIDFromToken(token, []byte(s.config.TokenSecret))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set("client_id", clientID)
	c.Next()
}

func (s *Server) getDocument(c *gin.Context) {
	body, err := s.docs.Load(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "document load failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	if body == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) putDocument(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := s.docs.Store(c.Request.Context(), body); err != nil {
		if errors.Is(err, documents.ErrInvalidBody) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error(c.Request.Context(), "document store failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failed"})
		return
	}

	s.hub.Broadcast(c.Request.Context(), body)
	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

func (s *Server) subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	s.hub.Add(conn)
	s.logger.Info(c.Request.Context(), "subscriber connected", "client", c.GetString("client_id"))

	// the read loop only watches for the peer going away
	go func() {
		defer func() {
			s.hub.Remove(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
