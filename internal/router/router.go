package router

import (
	"kindtrail/internal/handlers"
	"kindtrail/internal/middleware"
	"kindtrail/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps 路由依赖的服务
type Deps struct {
	Users    *services.UserService
	Stories  *services.StoryService
	Prize    *services.PrizeService
	Winners  *services.WinnerService
	Payments *services.PaymentService
	Geocoder *services.Geocoder
	Captcha  *services.CaptchaService
	Images   *services.ImageStore
	PriceID  string
	SiteURL  string
}

// RegisterRoutes expects the session middleware to be installed on r.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.LoadUser(d.Users))

	// Handlers
	homeHandler := handlers.NewHomeHandler(d.Stories, d.Prize, d.Captcha)
	authHandler := handlers.NewAuthHandler(d.Users, d.Captcha, homeHandler)
	storyHandler := handlers.NewStoryHandler(d.Stories, d.Images)
	contestHandler := handlers.NewContestHandler(d.Stories, d.Prize, d.Winners)
	mapHandler := handlers.NewMapHandler(d.Stories, d.Geocoder)
	paymentHandler := handlers.NewPaymentHandler(d.Payments, d.PriceID)
	userHandler := handlers.NewUserHandler(d.Users)
	imageHandler := handlers.NewImageHandler(d.Images)
	seoHandler := handlers.NewSEOHandler(d.Stories, d.SiteURL)

	// 公共路由 (Public Routes)
	r.GET("/", homeHandler.Home)                         // 首页 - 奖池与随机引言
	r.GET("/stories", storyHandler.List)                 // 故事列表
	r.GET("/stories/:id", storyHandler.Detail)           // 故事详情与评论
	r.POST("/stories/:id/comment", storyHandler.Comment) // 发表评论（可匿名）
	r.GET("/archive", contestHandler.Archive)            // 往期获奖故事
	r.GET("/winner", contestHandler.Winner)              // 运行月度评选
	r.GET("/leaderboard", contestHandler.Leaderboard)    // 用户排行榜
	r.GET("/map", mapHandler.Map)                        // 故事地图
	r.GET("/map.json", mapHandler.MapJSON)               // 地图标记 JSON
	r.GET("/u/:username", userHandler.Profile)           // 用户主页
	r.GET("/img/:name", imageHandler.Serve)              // 故事配图
	r.GET("/success", paymentHandler.Success)            // 支付成功回调
	r.POST("/login", authHandler.Login)                  // 登录（未知用户名自动注册）
	r.GET("/logout", authHandler.Logout)                 // 退出登录
	r.GET("/robots.txt", seoHandler.RobotsTxt)           // robots.txt
	r.GET("/sitemap.xml", seoHandler.SitemapXML)         // sitemap
	r.GET("/feed.xml", seoHandler.RSSFeed)               // RSS feed
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))     // Prometheus 指标

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/submit", storyHandler.ShowSubmit)      // 发布/编辑故事页面
		authorized.POST("/submit", storyHandler.Submit)         // 提交故事
		authorized.GET("/drafts", storyHandler.Drafts)          // 我的草稿
		authorized.POST("/cheer/:id", storyHandler.Cheer)       // cheer 故事
		authorized.POST("/upload", imageHandler.Upload)         // 上传配图
		authorized.POST("/subscribe", paymentHandler.Subscribe) // 订阅支付
	}
}
