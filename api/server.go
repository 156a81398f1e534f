package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agroclima.app/config"
	apperrors "agroclima.app/errors"
	"agroclima.app/models"
	"agroclima.app/service"
)

// Server represents the HTTP server exposing the sync trigger surfaces
type Server struct {
	router      *gin.Engine
	config      *config.Config
	syncService service.ClimateSyncServiceInterface
}

// SyncResponse is the payload returned by the sync trigger surfaces
type SyncResponse struct {
	Success  bool                       `json:"success"`
	Message  string                     `json:"message"`
	Total    int                        `json:"total_usuarios"`
	Updated  int                        `json:"atualizados"`
	Errors   int                        `json:"erros"`
	Date     string                     `json:"data"`
	Outcomes []models.SubscriberOutcome `json:"detalhes,omitempty"`
}

// NewServer creates and configures a new HTTP server
func NewServer(config *config.Config, syncService service.ClimateSyncServiceInterface) *Server {
	router := gin.Default()

	server := &Server{
		router:      router,
		config:      config,
		syncService: syncService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/climate/sync", s.syncStatus)
		api.POST("/climate/sync", s.authorize, s.runSync)
		api.POST("/climate/sync/report", s.authorize, s.runSyncWithReport)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// authorize accepts either the scheduler's own invocation header or a
// shared-secret bearer token. Everything else is rejected before any work
// begins.
func (s *Server) authorize(c *gin.Context) {
	if c.GetHeader(s.config.Sync.CronHeaderName) != "" {
		c.Next()
		return
	}

	authHeader := c.GetHeader("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found && token == s.config.Sync.SharedSecret {
		c.Next()
		return
	}

	slog.Warn("Unauthorized sync trigger", "path", c.FullPath())
	s.handleError(c, apperrors.NewUnauthorizedError("missing or invalid authorization"))
	c.Abort()
}

func (s *Server) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "climate-sync",
		"status":      "ok",
		"description": "Sincroniza dados climáticos e índice de estresse térmico para todos os assinantes",
	})
}

func (s *Server) runSync(c *gin.Context) {
	s.handleSync(c, false)
}

func (s *Server) runSyncWithReport(c *gin.Context) {
	s.handleSync(c, true)
}

// handleSync is the single adapter both trigger surfaces share; the actual
// orchestration lives in the sync service.
func (s *Server) handleSync(c *gin.Context, detailed bool) {
	slog.Info("Sync triggered via HTTP", "detailed", detailed)

	summary, err := s.syncService.RunSync(c.Request.Context(), detailed)
	if err != nil {
		slog.Error("Sync run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to run climate sync",
		})
		return
	}

	c.JSON(http.StatusOK, SyncResponse{
		Success:  true,
		Message:  "Sincronização climática concluída",
		Total:    summary.Total,
		Updated:  summary.Updated,
		Errors:   summary.Errors,
		Date:     summary.Date,
		Outcomes: summary.Outcomes,
	})
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperrors.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case apperrors.UnauthorizedError:
			statusCode = http.StatusUnauthorized
			message = appErr.Message
		case apperrors.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case apperrors.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
