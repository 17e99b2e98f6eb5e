package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid json payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Analysis
	AnalyzeContentHandler   Handler
	AnalyzeBatchHandler     Handler
	AnalyzeImageHandler     Handler
	AnalyzeImageNSFWHandler Handler

	// Flagged events
	CreateFlaggedEventHandler Handler
	ListFlaggedEventsHandler  Handler

	// Activity logs
	CreateActivityLogHandler Handler
	SyncActivityLogsHandler  Handler
	ListActivityLogsHandler  Handler

	// Blur reveals
	TrackBlurRevealHandler Handler
	ListBlurRevealsHandler Handler
}
