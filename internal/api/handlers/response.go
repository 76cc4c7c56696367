package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"party_quiz/internal/game"
	"party_quiz/internal/service"
)

// statusByKind 將錯誤分類對應到 HTTP 狀態碼
var statusByKind = map[game.ErrorKind]int{
	game.KindAuthorization: http.StatusForbidden,
	game.KindPrecondition:  http.StatusConflict,
	game.KindValidation:    http.StatusBadRequest,
	game.KindConcurrency:   http.StatusConflict,
	game.KindNotFound:      http.StatusNotFound,
}

// respondError 將錯誤寫成 {ok:false, error:<code>}
func respondError(c *gin.Context, err error) {
	var domainErr *game.Error
	if errors.As(err, &domainErr) {
		status, ok := statusByKind[domainErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"ok": false, "error": domainErr.Code})
		return
	}

	if errors.Is(err, service.ErrSessionExpired) {
		c.JSON(http.StatusGone, gin.H{"ok": false, "error": "session_expired", "clearSession": true})
		return
	}

	log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
}
