package httpapi

import (
	"net/http"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guest-chat/sessions"
)

const tokenContextKey = "sessionToken"

// resolveSessionToken issues an opaque token into the cookie session on
// first contact and hands it to every handler. The coordinator never sees
// cookies, only the resolved token.
func resolveSessionToken(manager sessions.IManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := ginsessions.Default(c)
		token, _ := store.Get("token").(string)
		if token == "" {
			token = uuid.NewString()
			store.Set("token", token)
			if err := store.Save(); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session could not be saved"})
				return
			}
		}
		manager.Touch(token)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}

// clearSession drops the cookie-side state after the coordinator has
// invalidated the token.
func clearSession(c *gin.Context) {
	store := ginsessions.Default(c)
	store.Clear()
	_ = store.Save()
}
