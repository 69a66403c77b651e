package bootstrap

import (
	"lumenra-be/internal/config"
	"lumenra-be/internal/controller"
	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/pkg/mailer"
	"lumenra-be/internal/pkg/serverutils"
	"lumenra-be/internal/pkg/token"
	"lumenra-be/internal/repository/unitofwork"
	"lumenra-be/internal/service"
	"lumenra-be/pkg/llm/huggingface"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	AiController   controller.IAiController

	// Middleware
	AuthMiddleware fiber.Handler

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	tokenService := token.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// 2. Event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	otpPublisher := service.NewOtpPublisher(cfg.App.OtpTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.OtpTopic, emailService, sysLogger)

	// 3. Completion provider
	llmProvider := huggingface.NewHuggingFaceProvider(
		cfg.Ai.APIKey,
		cfg.Ai.BaseURL,
		cfg.Ai.Model,
	)

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokenService, otpPublisher, sysLogger)
	aiService := service.NewAiService(uowFactory, llmProvider, sysLogger)

	return &Container{
		AuthController:  controller.NewAuthController(authService, sysLogger),
		AiController:    controller.NewAiController(aiService, sysLogger),
		AuthMiddleware:  serverutils.NewAuthMiddleware(tokenService, uowFactory),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
