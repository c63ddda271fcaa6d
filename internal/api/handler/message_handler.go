package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// MessageHandler exposes the message router and history over REST.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send handles POST /api/messages. It returns once the message is stored;
// notifications and live pushes continue in the background.
//
// @Summary      Send a message to the counterparty
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  sendMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.messages.Submit(c.Request().Context(), ports.SubmitMessageInput{
		SenderID: actorID,
		Content:  req.Content,
		Kind:     req.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sendMessageResponse{
		Message:       "Message sent successfully",
		ID:            res.ID,
		ReceiverID:    res.ReceiverID,
		ReceiverEmail: res.ReceiverEmail,
		CreatedAt:     res.CreatedAt,
	})
}

// History handles GET /api/messages, newest first. Reconnecting clients use
// it to catch up on pushes they missed.
//
// @Summary      Message history
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (1-50)"
// @Success      200    {object}  messagesResponse
// @Failure      401    {object}  errorResponse
// @Failure      503    {object}  errorResponse
// @Router       /api/messages [get]
func (h *MessageHandler) History(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
	}

	views, err := h.messages.History(c.Request().Context(), actorID, limit)
	if err != nil {
		return err
	}
	items := make([]messageItem, 0, len(views))
	for _, v := range views {
		items = append(items, messageItem{
			ID:         v.ID,
			SenderID:   v.SenderID,
			ReceiverID: v.ReceiverID,
			Content:    v.Content,
			Type:       v.Kind,
			CreatedAt:  v.CreatedAt,
			SenderName: v.SenderDisplayName,
		})
	}
	return c.JSON(http.StatusOK, messagesResponse{Messages: items})
}
