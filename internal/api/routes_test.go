package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"party_quiz/internal/middleware"
	"party_quiz/internal/repository"
	repomodels "party_quiz/internal/repository/models"
	"party_quiz/internal/service"
	"party_quiz/internal/utils"
)

type apiResponse struct {
	OK           bool            `json:"ok"`
	Error        string          `json:"error"`
	ClearSession bool            `json:"clearSession"`
	Code         string          `json:"code"`
	PlayerID     string          `json:"playerId"`
	Token        string          `json:"token"`
	Room         json.RawMessage `json:"room"`
}

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewMemoryRepositories()
	err := repos.Round.Upsert(context.Background(), []repomodels.Round{
		{ID: "list-1", Category: "aufzaehlen", Name: "Starter", Data: datatypes.JSON(`{"question":"Nenne Starter","rows":2,"cols":2}`)},
	})
	require.NoError(t, err)

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	r := gin.New()
	SetupRoutes(r, service.NewServices(repos, service.Options{}), RouteOptions{
		Tokens:         tokens,
		RateLimiter:    limiter,
		PublicURL:      "https://quiz.example",
		AllowedOrigins: []string{"https://quiz.example"},
	})
	return &testServer{router: r}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestRoutes_RoomFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice","playerId":"alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, created.OK)
	assert.Equal(t, "alice", created.PlayerID)
	require.NotEmpty(t, created.Token)
	code := created.Code

	w, joined := s.do(t, http.MethodPost, "/api/rooms/"+strings.ToLower(code)+"/join", "", `{"name":"Bob"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(joined.PlayerID, "p_"))

	// 非主持人不能開始回合
	w, resp := s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", joined.Token, `{"type":"host:startRound","roundId":"list-1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_host", resp.Error)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", created.Token, `{"type":"host:startRound","roundId":"list-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.OK)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", joined.Token, `{"type":"aufzaehlen:add","text":"Bisasam"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Room), "Bisasam")

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", joined.Token, `{"type":"aufzaehlen:add","text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty", resp.Error)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", created.Token, `{"type":"host:reveal"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/commands", joined.Token, `{"type":"aufzaehlen:add","text":"Glumanda"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "locked", resp.Error)

	w, resp = s.do(t, http.MethodGet, "/api/rooms/"+code, joined.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Room), `"phase":"REVEAL"`)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/"+code+"/leave", created.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Room), `"hostId":"`+joined.PlayerID+`"`)
}

func TestRoutes_CommandErrors(t *testing.T) {
	s := newTestServer(t, nil)
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice"}`)
	path := "/api/rooms/" + created.Code + "/commands"

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown command", `{"type":"host:explode"}`, http.StatusBadRequest, "unknown_command"},
		{"malformed", `{"type":`, http.StatusBadRequest, "bad_command"},
		{"bad zone", `{"type":"trifft:place","itemId":"a","zone":"x"}`, http.StatusBadRequest, "bad_zone"},
		{"missing round", `{"type":"host:startRound","roundId":"nope"}`, http.StatusNotFound, "round_not_found"},
		{"not in round", `{"type":"host:lock"}`, http.StatusConflict, "bad_state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodPost, path, created.Token, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.OK)
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}

func TestRoutes_Auth(t *testing.T) {
	s := newTestServer(t, nil)
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice"}`)
	_, other := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Carol"}`)

	w, resp := s.do(t, http.MethodGet, "/api/rooms/"+created.Code, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", resp.Error)

	w, _ = s.do(t, http.MethodGet, "/api/rooms/"+created.Code, "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token 綁定的房間與路徑不同
	w, resp = s.do(t, http.MethodGet, "/api/rooms/"+created.Code, other.Token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", resp.Error)

	w, _ = s.do(t, http.MethodGet, "/api/rooms/"+created.Code+"?token="+created.Token, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_Rejoin(t *testing.T) {
	s := newTestServer(t, nil)
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice","playerId":"alice"}`)

	w, resp := s.do(t, http.MethodPost, "/api/rooms/"+created.Code+"/rejoin", "", `{"name":"Alice","playerId":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", resp.PlayerID)
	assert.NotEmpty(t, resp.Token)

	w, resp = s.do(t, http.MethodPost, "/api/rooms/GONE2/rejoin", "", `{"name":"Alice","playerId":"alice"}`)
	assert.Equal(t, http.StatusGone, w.Code)
	assert.False(t, resp.OK)
	assert.True(t, resp.ClearSession)
}

// 玩家身分由客戶端保存，join 對任何傳入的 playerId 都簽發 token
func TestRoutes_JoinTrustsClientPlayerID(t *testing.T) {
	s := newTestServer(t, nil)
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice","playerId":"alice"}`)

	w, joined := s.do(t, http.MethodPost, "/api/rooms/"+created.Code+"/join", "", `{"name":"Alice","playerId":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", joined.PlayerID)
	assert.Contains(t, string(joined.Room), `"hostId":"alice"`)

	w, resp := s.do(t, http.MethodPost, "/api/rooms/"+created.Code+"/commands", joined.Token, `{"type":"host:startRound","roundId":"list-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.OK)
}

func TestRoutes_WebSocketRejectsForeignOrigin(t *testing.T) {
	s := newTestServer(t, nil)
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+created.Code+"/ws?token="+created.Token, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "https://evil.example")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_QRCode(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := s.do(t, http.MethodGet, "/api/rooms/abcde/qr", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestRoutes_Rounds(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := s.do(t, http.MethodGet, "/api/rounds", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"rounds":{"aufzaehlen":[{"id":"list-1","name":"Starter"}]}}`, w.Body.String())

	w, resp := s.do(t, http.MethodGet, "/api/rounds/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "round_not_found", resp.Error)
}

func TestRoutes_NotFoundAndHealth(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(t, http.MethodGet, "/api/nothing-here", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp.Error)

	w, _ = s.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_RateLimit(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(0.001, 2))
	_, created := s.do(t, http.MethodPost, "/api/rooms", "", `{"name":"Alice"}`)

	path := "/api/rooms/" + created.Code
	w, _ := s.do(t, http.MethodGet, path, created.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, path, created.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := s.do(t, http.MethodGet, path, created.Token, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", resp.Error)
}
