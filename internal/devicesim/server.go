package devicesim

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/tinytelemetry/ftscope/internal/backend"
	"github.com/tinytelemetry/ftscope/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Server exposes a Device over the bench backend's HTTP API.
type Server struct {
	addr      string
	device    *Device
	logger    *zap.Logger
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new simulator server.
func NewServer(addr string, device *Device, logger *zap.Logger) *Server {
	if addr == "" {
		addr = model.DefaultSimAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		device:    device,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine serving the backend routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	r.GET("/api/health", s.handleHealth)
	r.GET(backend.PathConnect, s.handleConnect)
	r.GET(backend.PathDisconnect, s.handleDisconnect)
	r.GET(backend.PathReadSamples, s.handleReadSamples)
	r.GET(backend.PathTareLoadCell, s.handleTareLoadCell)
	r.GET(backend.PathTareHeiden, s.handleTareHeiden)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("[devicesim] serve failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound listen address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server and closes the device.
func (s *Server) Stop() error {
	s.cancel()
	if s.device.Connected() {
		if err := s.device.Disconnect(); err != nil {
			s.logger.Warn("[devicesim] closing device", zap.Error(err))
		}
	}
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[devicesim] request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestID", c.GetString("requestID")),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).String(),
		"connected": s.device.Connected(),
		"samples":   s.device.Samples(),
	})
}

func (s *Server) handleConnect(c *gin.Context) {
	name, err := s.device.Connect()
	if err != nil {
		s.logger.Error("[devicesim] connect failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.MessageReply{Message: "Failed to connect"})
		return
	}
	s.logger.Info("[devicesim] connected", zap.String("filename", name))
	c.JSON(http.StatusOK, model.ConnectReply{Message: model.ConnectSuccessMessage, Filename: name})
}

func (s *Server) handleDisconnect(c *gin.Context) {
	if err := s.device.Disconnect(); err != nil {
		s.logger.Error("[devicesim] disconnect failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.MessageReply{Message: "Internal server Error"})
		return
	}
	s.logger.Info("[devicesim] disconnected")
	c.JSON(http.StatusOK, model.MessageReply{Message: model.DisconnectedMessage})
}

func (s *Server) handleReadSamples(c *gin.Context) {
	write := c.Query("write") == "true"
	sample, err := s.device.Read(write)
	if err != nil {
		s.logger.Warn("[devicesim] read failed", zap.Error(err), zap.Bool("write", write))
		c.JSON(http.StatusInternalServerError, model.MessageReply{Message: "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, sample)
}

func (s *Server) handleTareLoadCell(c *gin.Context) {
	if err := s.device.TareLoadCell(); err != nil {
		s.logger.Warn("[devicesim] load cell tare failed", zap.Error(err))
		c.JSON(http.StatusOK, model.MessageReply{Message: "clipX tare unsuccessful"})
		return
	}
	c.JSON(http.StatusOK, model.MessageReply{Message: "clipX tare successful"})
}

func (s *Server) handleTareHeiden(c *gin.Context) {
	if err := s.device.TareHeiden(); err != nil {
		s.logger.Warn("[devicesim] encoder tare failed", zap.Error(err))
		c.JSON(http.StatusOK, model.MessageReply{Message: "heidenhain tare unsuccessful"})
		return
	}
	c.JSON(http.StatusOK, model.MessageReply{Message: "heidenhain tare successful"})
}
