package server

import (
	"fmt"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/config"
	handlers "github.com/SafeHarborHQ/SafeHarbor/pkg/handlers/http"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	// APIServer serves the moderation and event endpoints consumed by the
	// browser-side agents.
	APIServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("Starting API server")
	return s.router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	s.router.Use(recover.New())
	// The browser extension calls from arbitrary page origins.
	s.router.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	s.router.Post("/analyze-content", s.handlerTransport.AnalyzeContentHandler.Handle)
	s.router.Post("/analyze-batch", s.handlerTransport.AnalyzeBatchHandler.Handle)
	s.router.Post("/analyze-image", s.handlerTransport.AnalyzeImageHandler.Handle)
	s.router.Post("/analyze-image-nsfw", s.handlerTransport.AnalyzeImageNSFWHandler.Handle)

	s.router.Get("/flagged-events", s.handlerTransport.ListFlaggedEventsHandler.Handle)
	s.router.Post("/flagged-events", s.handlerTransport.CreateFlaggedEventHandler.Handle)

	s.router.Post("/activity-logs", s.handlerTransport.CreateActivityLogHandler.Handle)
	s.router.Post("/activity-logs/batch", s.handlerTransport.SyncActivityLogsHandler.Handle)
	s.router.Get("/activity-logs/:familyId", s.handlerTransport.ListActivityLogsHandler.Handle)

	s.router.Post("/track-blur-reveal", s.handlerTransport.TrackBlurRevealHandler.Handle)
	s.router.Get("/blur-reveals", s.handlerTransport.ListBlurRevealsHandler.Handle)
}

func (s *APIServer) Shutdown() error {
	return s.router.Shutdown()
}
