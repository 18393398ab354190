package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the registry over HTTP and websockets.
type Server struct {
	reg *Registry
	log *zap.Logger
}

func NewServer(reg *Registry, log *zap.Logger) *Server {
	return &Server{reg: reg, log: log}
}

type createTableRequest struct {
	Host string `json:"host" binding:"required"`
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/tables", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.reg.ListOpenTables())
	})
	r.GET("/tables/:id", func(c *gin.Context) {
		summary, err := s.reg.Table(c.Param("id"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	})
	// The host must already hold a live connection to receive table updates.
	r.POST("/tables", func(c *gin.Context) {
		var req createTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorView{Code: "bad_request", Message: err.Error()})
			return
		}
		id, err := s.reg.CreateTable(req.Host)
		if err != nil {
			s.writeError(c, err)
			return
		}
		summary, err := s.reg.Table(id)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	})
	r.GET("/ws", s.handleWS)
	return r
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrNotRegistered):
		status = http.StatusNotFound
	case errors.Is(err, ErrTableExists):
		status = http.StatusConflict
	}
	c.JSON(status, ErrorView{Code: errorCode(err), Message: err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
