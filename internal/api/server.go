package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/astralshopid/astral-api/docs"
	v1 "github.com/astralshopid/astral-api/internal/api/handler/v1"
	"github.com/astralshopid/astral-api/internal/api/middleware"
	"github.com/astralshopid/astral-api/internal/config"
	"github.com/astralshopid/astral-api/internal/pubsub"
	"github.com/astralshopid/astral-api/internal/repository"
	"github.com/astralshopid/astral-api/internal/repository/dao"
	"github.com/astralshopid/astral-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	userRepo        *repository.UserRepository
	messageRepo     *repository.MessageRepository
	itemRepo        *repository.ItemRepository
	transactionRepo *repository.TransactionRepository
	configRepo      *repository.StoreConfigRepository
	settlementRepo  *repository.SettlementRepository
	notifier        *service.Notifier
	userSvc         *service.UserService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.initRepositories(db)

	s.MountMiddlewares()

	authHandler := s.initAuthHandler()
	userHandler := s.initUserHandler()
	itemHandler := s.initItemHandler()
	messageHandler := s.initMessageHandler()
	settlementHandler := s.initSettlementHandler()
	configHandler := s.initStoreConfigHandler()
	chatHandler := s.initChatHandler()
	s.MountHandlers(authHandler, userHandler, itemHandler, messageHandler, settlementHandler, configHandler, chatHandler)

	return s
}

// initRepositories builds the shared persistence layer and the push notifier.
// The notifier is a singleton so every handler publishes to the same broker.
func (s *Server) initRepositories(db *gorm.DB) {
	userDAO := dao.NewUserDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	itemDAO := dao.NewItemDAO(db)
	transactionDAO := dao.NewTransactionDAO(db)
	configDAO := dao.NewStoreConfigDAO(db)
	settlementDAO := dao.NewSettlementDAO(db, itemDAO, configDAO, transactionDAO, messageDAO)

	s.userRepo = repository.NewUserRepository(userDAO)
	s.messageRepo = repository.NewMessageRepository(messageDAO)
	s.itemRepo = repository.NewItemRepository(itemDAO)
	s.transactionRepo = repository.NewTransactionRepository(transactionDAO)
	s.configRepo = repository.NewStoreConfigRepository(configDAO)
	s.settlementRepo = repository.NewSettlementRepository(settlementDAO)

	conversationSvc := service.NewConversationService(s.messageRepo, s.userRepo, s.Config.API.AdminUserID)
	s.notifier = service.NewNotifier(pubsub.NewBroker(), s.messageRepo, conversationSvc)
	s.userSvc = service.NewUserService(s.userRepo)
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	svc := service.NewAuthService(s.userRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler() *v1.UserHandler {
	access := service.NewAccessService(s.userRepo, s.notifier)
	handler := v1.NewUserHandler(s.userSvc, access)

	return handler
}

func (s *Server) initItemHandler() *v1.ItemHandler {
	svc := service.NewInventoryService(s.itemRepo)
	handler := v1.NewItemHandler(svc, s.userSvc)

	return handler
}

func (s *Server) initMessageHandler() *v1.MessageHandler {
	svc := service.NewMessageService(s.messageRepo, s.userRepo, s.itemRepo, s.notifier, s.Config.API.AdminUserID)
	conversationSvc := service.NewConversationService(s.messageRepo, s.userRepo, s.Config.API.AdminUserID)
	handler := v1.NewMessageHandler(svc, conversationSvc, s.userSvc)

	return handler
}

func (s *Server) initSettlementHandler() *v1.SettlementHandler {
	svc := service.NewSettlementService(
		s.settlementRepo,
		s.itemRepo,
		s.configRepo,
		s.transactionRepo,
		s.messageRepo,
		s.userRepo,
		s.notifier,
		s.Config.API.AdminUserID,
	)
	handler := v1.NewSettlementHandler(svc, s.userSvc)

	return handler
}

func (s *Server) initStoreConfigHandler() *v1.StoreConfigHandler {
	svc := service.NewStoreConfigService(s.configRepo, s.transactionRepo, s.itemRepo)
	handler := v1.NewStoreConfigHandler(svc, s.userSvc)

	return handler
}

func (s *Server) initChatHandler() *v1.ChatHandler {
	handler := v1.NewChatHandler(s.notifier, s.userSvc, s.Config.API.AdminUserID)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))

	timeout := time.Duration(s.Config.API.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s.Router.Use(middleware.Timeout(timeout))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	itemHandler *v1.ItemHandler,
	messageHandler *v1.MessageHandler,
	settlementHandler *v1.SettlementHandler,
	configHandler *v1.StoreConfigHandler,
	chatHandler *v1.ChatHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/blocked", userHandler.HandleGetBlockedUsers)
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.POST("/users/:userID/block", userHandler.HandleBlockUser)
		authed.POST("/users/:userID/unblock", userHandler.HandleUnblockUser)

		authed.GET("/items", itemHandler.HandleGetItems)
		authed.GET("/items/:itemID", itemHandler.HandleGetItem)
		authed.POST("/items", itemHandler.HandleCreateItem)
		authed.PUT("/items/:itemID", itemHandler.HandleUpdateItem)
		authed.DELETE("/items/:itemID", itemHandler.HandleDeleteItem)
		authed.PUT("/items/:itemID/stock", itemHandler.HandleSetStock)

		authed.POST("/messages", messageHandler.HandleSendMessage)
		authed.POST("/messages/:messageID/read", messageHandler.HandleMarkMessageRead)
		authed.POST("/orders", messageHandler.HandlePlaceOrder)
		authed.GET("/conversations", messageHandler.HandleGetConversations)
		authed.GET("/conversations/:userID", messageHandler.HandleGetConversation)
		authed.DELETE("/conversations/:userID", messageHandler.HandleDeleteConversation)

		authed.POST("/settlements", settlementHandler.HandleSettle)

		authed.GET("/store/config", configHandler.HandleGetConfig)
		authed.PUT("/store/config", configHandler.HandleUpdateConfig)
		authed.GET("/store/transactions", configHandler.HandleGetTransactions)
		authed.GET("/store/stats", configHandler.HandleGetStats)

		authed.GET("/ws/conversations/:userID", chatHandler.HandleConversationSocket)
		authed.GET("/ws/roster", chatHandler.HandleRosterSocket)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "AstralShop API"
	docs.SwaggerInfo.Description = "Storefront messaging, inventory and settlement API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
