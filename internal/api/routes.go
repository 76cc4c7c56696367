package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party_quiz/internal/api/handlers"
	"party_quiz/internal/middleware"
	"party_quiz/internal/service"
	"party_quiz/internal/utils"
)

// RouteOptions 是路由需要的外部設定
type RouteOptions struct {
	Tokens         *utils.TokenManager
	RateLimiter    *middleware.RateLimiter
	PublicURL      string
	AllowedOrigins []string
}

func SetupRoutes(r *gin.Engine, services *service.Services, opts RouteOptions) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.Session, opts.Tokens, opts.PublicURL)
	commandHandler := handlers.NewCommandHandler(services.Game)
	roundHandler := handlers.NewRoundHandler(services.Round)
	wsHandler := handlers.NewWebSocketHandler(services.Session, services.WebSocket, opts.AllowedOrigins)

	limiter := opts.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(0, 0)
	}

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not_found"})
	})

	// 公開路由
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// 回合內容
		api.GET("/rounds", roundHandler.ListRounds)
		api.GET("/rounds/:id", roundHandler.GetRound)

		// 房間參與，回傳 session token
		public := api.Group("/rooms")
		public.Use(limiter.Middleware())
		public.POST("", roomHandler.CreateRoom)
		public.POST("/:code/join", roomHandler.JoinRoom)
		public.POST("/:code/rejoin", roomHandler.RejoinRoom)
		public.GET("/:code/qr", roomHandler.RoomQRCode)
	}

	// 需要驗證的路由
	authorized := api.Group("/rooms/:code")
	authorized.Use(middleware.AuthMiddleware(opts.Tokens), limiter.Middleware())
	{
		authorized.GET("", roomHandler.GetRoom)
		authorized.POST("/leave", roomHandler.LeaveRoom)
		authorized.POST("/commands", commandHandler.ExecuteCommand)

		// WebSocket 連接點
		authorized.GET("/ws", wsHandler.HandleWebSocket)
	}
}
