package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"party_quiz/internal/game"
	"party_quiz/internal/utils"
)

// 上下文中的鍵
const (
	ContextPlayerID = "playerID"
	ContextRoomCode = "roomCode"
)

// AuthMiddleware 是一個 Gin 中間件，驗證玩家的 session token，
// 並確認 token 綁定的房間與路徑中的房間相同
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}

		if code := c.Param("code"); code != "" && game.NormalizeCode(code) != claims.RoomCode {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": game.ErrForbidden.Code})
			return
		}

		c.Set(ContextPlayerID, claims.PlayerID)
		c.Set(ContextRoomCode, claims.RoomCode)
		c.Next()
	}
}

// bearerToken 從 Authorization 頭讀取 token，瀏覽器的 WebSocket 無法設定標頭，改用 ?token=
func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

// PlayerID 回傳已驗證的玩家 ID
func PlayerID(c *gin.Context) string {
	return c.GetString(ContextPlayerID)
}
