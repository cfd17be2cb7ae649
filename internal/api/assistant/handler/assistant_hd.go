package assistantHandler

import (
	"HomeFinder/internal/api/assistant"
	contextPkg "HomeFinder/pkg/context"
	"HomeFinder/pkg/handlerUtil"
	jwtPkg "HomeFinder/pkg/jwt"
	"HomeFinder/pkg/log"
	"HomeFinder/pkg/whatsapp"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// ReceiveEvent runs one chat event and answers with the replies instead of
// sending them to WhatsApp.
func (h *AssistantHandler) ReceiveEvent(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.EventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"event_id":   req.EventID,
		"event_type": req.Type,
	}).Debug("Processing chat event")

	recorder := whatsapp.NewRecorder()
	if err := h.assistantService.ProcessEvent(c, recorder, req.ToEvent()); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_event")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.EventResponse{
			Messages: recorder.Messages(),
		})
	}
}

func (h *AssistantHandler) ParseQuery(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.ParseQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	criteria := h.assistantService.ParseQuery(c, req.Utterance)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.ParseQueryResponse{
			Utterance: req.Utterance,
			Criteria:  criteria,
		})
	}
}

func (h *AssistantHandler) RankQuery(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.RankRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.assistantService.RankQuery(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "rank_query")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AssistantHandler) GetConversation(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	admin, err := jwtPkg.GetAdminLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	userID := ctx.Params("user_id")
	if userID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("user_id is required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"admin_id":   admin.ID,
	}).Info("Admin conversation lookup")

	conversation, err := h.assistantService.GetConversation(c, userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_conversation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.NewConversationResponse(conversation))
	}
}
