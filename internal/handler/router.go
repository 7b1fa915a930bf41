package handler

import (
	"gamebets/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(db, rdb, cfg)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 游戏相关
		games := api.Group("/games")
		{
			games.GET("", h.ListGames)
			games.POST("", h.AddGame)
			games.DELETE("/:id", h.DeleteGame)
		}

		// 客户相关
		customers := api.Group("/customers")
		{
			customers.GET("", h.ListCustomers)
			customers.POST("", h.AddCustomer)
			customers.DELETE("/:id", h.DeleteCustomer)
		}

		// 投注相关
		bets := api.Group("/bets")
		{
			bets.GET("", h.ListBets)
			bets.GET("/:id", h.GetBet)
			bets.POST("", h.AddBet)
			bets.DELETE("", h.DeleteBets)
		}

		// 汇总与号码矩阵
		api.GET("/summary", h.CustomerSummary)
		api.GET("/grid", h.GridBets)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
