// Package httpapi is the thin transport over the membership coordinator:
// it resolves session tokens from cookies, decodes payloads and maps
// error kinds to status codes. No invariant logic lives here.
package httpapi

import (
	"log/slog"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"guest-chat/services"
	"guest-chat/sessions"
)

const sessionCookieName = "guestchat"

func NewRouter(service services.IMembershipService, manager sessions.IManager, secret []byte, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginsessions.Sessions(sessionCookieName, cookie.NewStore(secret)))
	router.Use(resolveSessionToken(manager))

	h := handler{service: service, log: log}
	api := router.Group("/api")
	api.POST("/name", h.chooseName)
	api.GET("/name", h.hasName)
	api.POST("/room", h.createRoom)
	api.GET("/room", h.currentRoom)
	api.POST("/room/join", h.joinRoom)
	api.GET("/rooms", h.listRooms)
	api.POST("/message", h.postMessage)
	api.DELETE("/session", h.endSession)
	return router
}
