package httpapi

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"guest-chat/domain"
	"guest-chat/errors"
	"guest-chat/services"
)

type handler struct {
	service services.IMembershipService
	log     *slog.Logger
}

type namePayload struct {
	Name string `json:"name" binding:"required"`
}

type createRoomPayload struct {
	Name      string `json:"name" binding:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

type joinRoomPayload struct {
	Code string `json:"code" binding:"required"`
}

type messagePayload struct {
	Text string `json:"text" binding:"required"`
}

type memberResponse struct {
	Name string `json:"name"`
}

type roomResponse struct {
	Name      string           `json:"name"`
	IsPrivate bool             `json:"isPrivate"`
	JoinCode  string           `json:"joinCode"`
	Members   []memberResponse `json:"members"`
}

type messageResponse struct {
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

func (h handler) chooseName(c *gin.Context) {
	var payload namePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or malformed payload"})
		return
	}
	guest, err := h.service.ChooseName(c.Request.Context(), sessionToken(c), payload.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": guest.Name})
}

func (h handler) hasName(c *gin.Context) {
	bound, err := h.service.HasName(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasName": bound})
}

func (h handler) createRoom(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or malformed payload"})
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), sessionToken(c), payload.Name, payload.IsPrivate)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h handler) joinRoom(c *gin.Context) {
	var payload joinRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or malformed payload"})
		return
	}
	room, err := h.service.JoinRoom(c.Request.Context(), sessionToken(c), payload.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h handler) currentRoom(c *gin.Context) {
	view, err := h.service.GetCurrentRoom(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusOK, gin.H{"room": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room": toRoomResponse(view.Room),
		"messages": lo.Map(view.Messages, func(m domain.Message, _ int) messageResponse {
			return messageResponse{Sender: m.SenderName, Text: m.Text, At: m.At}
		}),
	})
}

func (h handler) listRooms(c *gin.Context) {
	summaries, err := h.service.ListPublicRooms(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms": lo.Map(summaries, func(s domain.RoomSummary, _ int) gin.H {
			return gin.H{"name": s.Name, "isPrivate": s.IsPrivate, "joinCode": s.JoinCode}
		}),
	})
}

func (h handler) postMessage(c *gin.Context) {
	var payload messagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or malformed payload"})
		return
	}
	message, err := h.service.PostMessage(c.Request.Context(), sessionToken(c), payload.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Sender: message.SenderName, Text: message.Text, At: message.At})
}

func (h handler) endSession(c *gin.Context) {
	if err := h.service.EndSession(c.Request.Context(), sessionToken(c)); err != nil {
		h.fail(c, err)
		return
	}
	clearSession(c)
	c.Status(http.StatusNoContent)
}

func toRoomResponse(room domain.Room) roomResponse {
	return roomResponse{
		Name:      room.Name,
		IsPrivate: room.IsPrivate,
		JoinCode:  room.JoinCode,
		Members: lo.Map(room.Members, func(m domain.Member, _ int) memberResponse {
			return memberResponse{Name: m.Name}
		}),
	}
}

func (h handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrRoomNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrNameTaken),
		stderrors.Is(err, errors.ErrAlreadyBound):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrInvalidNameFormat),
		stderrors.Is(err, errors.ErrInvalidMessage),
		stderrors.Is(err, errors.ErrNotInRoom),
		stderrors.Is(err, errors.ErrNotAMember):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
