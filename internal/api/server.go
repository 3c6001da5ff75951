package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ytrecords/internal/models"
	"golang.org/x/exp/slog"
)

// Server represents the API server
type Server struct {
	router  *gin.Engine
	fetcher models.Fetcher
	store   models.SnapshotStore
	logger  *slog.Logger
}

// NewServer creates a new API server. store may be nil, in which case
// snapshots are not kept.
func NewServer(fetcher models.Fetcher, store models.SnapshotStore, allowedOrigins []string, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:  router,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}

	router.Use(server.logRequests)
	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	s.router.GET("/channel/:id", s.getChannel)
	s.router.GET("/channel/:id/raw", s.getChannelRaw)
	s.router.GET("/channel/:id/latest", s.getLatestChannel)
	s.router.GET("/channel/:id/compare/:other", s.compareChannels)

	s.router.GET("/video/:id", s.getVideo)
	s.router.GET("/playlist/:playlistId/video/:id", s.getPlaylistVideo)
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("request served",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start))
}

// getChannel handles requests to get channel by ID
func (s *Server) getChannel(c *gin.Context) {
	channel, err := models.NewChannel(c.Request.Context(), s.fetcher, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	if s.store != nil {
		if err := s.store.StoreChannel(channel); err != nil {
			s.logger.Error("failed to store channel snapshot", "channel", channel.ChannelID(), "error", err)
		}
	}

	c.JSON(http.StatusOK, channel.Export())
}

func (s *Server) getChannelRaw(c *gin.Context) {
	channel, err := models.NewChannel(c.Request.Context(), s.fetcher, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", channel.RawSnapshot())
}

func (s *Server) getLatestChannel(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store is not configured"})
		return
	}

	export, err := s.store.GetLatestChannel(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}

// compareChannels reports how two channels relate by subscriber count
func (s *Server) compareChannels(c *gin.Context) {
	ctx := c.Request.Context()

	channel, err := models.NewChannel(ctx, s.fetcher, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	other, err := models.NewChannel(ctx, s.fetcher, c.Param("other"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":             channel.Export(),
		"other":               other.Export(),
		"comparison":          channel.Compare(other),
		"combinedSubscribers": channel.CombinedSubscribers(other),
		"subscriberDelta":     channel.SubscriberDelta(other),
	})
}

func (s *Server) getVideo(c *gin.Context) {
	video, err := models.NewVideo(c.Request.Context(), s.fetcher, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (s *Server) getPlaylistVideo(c *gin.Context) {
	video, err := models.NewPlaylistVideo(c.Request.Context(), s.fetcher, c.Param("id"), c.Param("playlistId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, models.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
