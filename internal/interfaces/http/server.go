// Package http provides the HTTP adapter for the application layer.
// It is a thin layer translating requests into application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the server exposes
type Services struct {
	Approval    service.ApprovalService
	Case        service.CaseService
	Patient     service.PatientService
	Pathologist service.PathologistService
	Auth        service.AuthService
	Report      service.ReportService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	approvals := NewApprovalHandlers(s.services.Approval, s.logger)
	cases := NewCaseHandlers(s.services.Case, s.logger)
	patients := NewPatientHandlers(s.services.Patient, s.logger)
	pathologists := NewPathologistHandlers(s.services.Pathologist, s.logger)
	auth := NewAuthHandlers(s.services.Auth, s.logger)
	reports := NewReportHandlers(s.services.Report, s.logger)

	// Health check
	s.router.GET("/health", s.healthCheck)

	// Login is the only unauthenticated API route
	s.router.POST("/api/auth/login", auth.Login)

	api := s.router.Group("/api", authMiddleware(s.services.Auth))
	{
		api.POST("/approvals", approvals.Create)
		api.GET("/approvals", approvals.Search)
		api.GET("/approvals/:code", approvals.Get)
		api.POST("/approvals/:code/manage", approvals.Manage)
		api.POST("/approvals/:code/approve", requireRole(entity.RolePathologist, entity.RoleAdmin), approvals.Approve)
		api.POST("/approvals/:code/reject", requireRole(entity.RolePathologist, entity.RoleAdmin), approvals.Reject)
		api.PUT("/approvals/:code/tests", approvals.UpdateTests)
		api.DELETE("/approvals/:code", requireRole(entity.RoleAdmin), approvals.Delete)

		api.POST("/cases", cases.Create)
		api.GET("/cases", cases.List)
		api.GET("/cases/:code", cases.Get)
		api.POST("/cases/:code/assign", cases.AssignPathologist)
		api.POST("/cases/:code/sign", requireRole(entity.RolePathologist, entity.RoleAdmin), cases.Sign)

		api.POST("/patients", patients.Register)
		api.GET("/patients", patients.Search)
		api.GET("/patients/:id", patients.Get)
		api.PUT("/patients/:id", patients.Update)

		api.POST("/pathologists", requireRole(entity.RoleAdmin), pathologists.Register)
		api.GET("/pathologists", pathologists.List)

		api.GET("/reports/approvals/summary", reports.Summary)
		api.GET("/reports/approvals/register", reports.ExportRegister)
	}
}

// healthCheck handles GET /health
func (s *Server) healthCheck(c *gin.Context) {
	respondOK(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
