package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/maheshrc27/vizora/configs"
	"github.com/maheshrc27/vizora/internal/api/handlers"
	"github.com/maheshrc27/vizora/internal/api/middleware"
	"github.com/maheshrc27/vizora/internal/service"
)

type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Posts     service.PostService
	Settings  service.SettingsService
	Compose   service.ComposeService
	Publish   service.PublishService
	Assistant service.Assistant
	Insights  service.InsightsService
}

// NewApp builds the HTTP application. metrics is served on /metrics when set.
func NewApp(cfg config.Config, s Services, metrics http.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    service.MaxMediaBytes * 4,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error(err.Error(), "path", c.Path())
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	if cfg.Environment != "test" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	auth := handlers.NewAuthHandler(cfg, s.Auth)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(s.Users)
	api.Get("/user/info", user.GetUserInfo)

	platform := handlers.NewPlatformHandler(s.Users)
	api.Get("/accounts", platform.ListSocialAccounts)
	api.Post("/accounts/connect", platform.ConnectPlatform)

	settings := handlers.NewSettingsHandler(s.Settings)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	post := handlers.NewPostHandler(s.Posts)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/remove", post.RemovePost)
	api.Post("/posts/confirm", post.ConfirmPost)

	compose := handlers.NewComposeHandler(s.Compose)
	api.Post("/compose", compose.Open)
	api.Get("/compose/:id", compose.Get)
	api.Delete("/compose/:id", compose.Close)
	api.Post("/compose/:id/platforms", compose.SelectPlatforms)
	api.Post("/compose/:id/content", compose.SetContent)
	api.Post("/compose/:id/media", compose.AddMedia)
	api.Post("/compose/:id/media/remove", compose.RemoveMedia)
	api.Post("/compose/:id/schedule", compose.SetSchedule)
	api.Post("/compose/:id/next", compose.Next)
	api.Post("/compose/:id/back", compose.Back)
	api.Post("/compose/:id/draft", compose.SaveDraft)
	api.Post("/compose/:id/publish", compose.Publish)
	api.Post("/compose/:id/captions", compose.SuggestCaptions)
	api.Post("/compose/:id/captions/apply", compose.ApplyCaption)
	api.Get("/compose/:id/preview", compose.Preview)

	ai := handlers.NewAIHandler(s.Assistant, s.Settings)
	api.Post("/ai/captions", ai.GenerateCaptions)
	api.Post("/ai/image-captions", ai.GenerateFromImage)
	api.Post("/ai/chat", ai.Chat)
	api.Post("/ai/analyze-image", ai.AnalyzeImage)
	api.Post("/ai/hashtags", ai.GenerateHashtags)
	api.Get("/ai/post-times", ai.PostTimes)
	api.Get("/ai/status", ai.Status)

	publish := handlers.NewPublishHandler(s.Publish)
	api.Post("/publish", publish.Publish)
	api.Post("/publish/prepare", publish.PrepareManualPost)

	insights := handlers.NewInsightsHandler(s.Insights)
	api.Get("/dashboard", insights.Dashboard)
	api.Get("/calendar", insights.Calendar)
	api.Get("/analytics", insights.Analytics)

	return app
}
