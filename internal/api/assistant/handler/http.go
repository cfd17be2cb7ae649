package assistantHandler

import (
	assistantService "HomeFinder/internal/api/assistant/service"
	"HomeFinder/internal/middleware"
	"HomeFinder/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
	utils utils.IUtils,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validator,
		middleware:       middleware,
		assistantService: as,
		utils:            utils,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	assistant := srv.Group("/assistant")

	// Chat surfaces
	assistant.Post("/events", h.middleware.NewRateLimiter, h.ReceiveEvent)
	assistant.Use("/ws", wsMiddleware)
	assistant.Get("/ws", websocket.New(h.handleChatWebSocket))

	// Admin tooling
	assistant.Post("/parse", h.middleware.NewTokenMiddleware, h.ParseQuery)
	assistant.Post("/rank", h.middleware.NewTokenMiddleware, h.RankQuery)
	assistant.Get("/conversations/:user_id", h.middleware.NewTokenMiddleware, h.GetConversation)
}
