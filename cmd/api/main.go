package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizroom-api/internal/config"
	"github.com/yourusername/quizroom-api/internal/handler"
	"github.com/yourusername/quizroom-api/internal/middleware"
	pgRepo "github.com/yourusername/quizroom-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizroom-api/internal/repository/redis"
	"github.com/yourusername/quizroom-api/internal/service"
	"github.com/yourusername/quizroom-api/internal/service/roommanager"
	ws "github.com/yourusername/quizroom-api/internal/websocket"
	"github.com/yourusername/quizroom-api/pkg/auth"
	"github.com/yourusername/quizroom-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	topicRepo := pgRepo.NewTopicRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	roomRepo := pgRepo.NewRoomRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	achievementRepo := pgRepo.NewAchievementRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем WebSocket-хаб
	wsHub := ws.NewHub()
	go wsHub.Run()

	wsManager := ws.NewManager(wsHub)

	// Координатор игровых комнат
	gameConfig := roommanager.DefaultConfig()
	if cfg.Game.PostStartDelaySec > 0 {
		gameConfig.PostStartDelay = time.Duration(cfg.Game.PostStartDelaySec) * time.Second
	}
	if cfg.Game.AllAnsweredGraceSec > 0 {
		gameConfig.AllAnsweredGrace = time.Duration(cfg.Game.AllAnsweredGraceSec) * time.Second
	}
	if cfg.Game.MaxQuestions > 0 {
		gameConfig.MaxQuestions = cfg.Game.MaxQuestions
	}
	if cfg.Game.ResultsTTLHrs > 0 {
		gameConfig.ResultsTTL = time.Duration(cfg.Game.ResultsTTLHrs) * time.Hour
	}

	coordinator := roommanager.NewRoomCoordinator(&roommanager.Dependencies{
		RoomRepo:        roomRepo,
		ParticipantRepo: participantRepo,
		QuestionRepo:    questionRepo,
		TopicRepo:       topicRepo,
		UserRepo:        userRepo,
		AchievementRepo: achievementRepo,
		CacheRepo:       cacheRepo,
		Hub:             wsHub,
		Config:          gameConfig,
	})

	// Сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo, achievementRepo)
	gameManager, err := service.NewGameManager(roomRepo, participantRepo, questionRepo, topicRepo, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize GameManager: %v", err)
		os.Exit(1)
	}

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	gameHandler := handler.NewGameHandler(gameManager, coordinator)
	wsHandler := handler.NewWSHandler(wsHub, wsManager, coordinator, jwtService, cfg.WebSocket.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	// Настройка CORS
	corsOrigins := cfg.WebSocket.AllowedOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.LimitByIP(middleware.DefaultAuthRateLimitConfig()))
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/ws-ticket", authHandler.GetWSTicket)
			}
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.GET("/me/achievements", userHandler.GetAchievements)
		}

		// Лидерборд и каталог тем (публичные маршруты)
		api.GET("/leaderboard", userHandler.GetLeaderboard)
		api.GET("/topics", gameHandler.GetTopics)

		// Игровые комнаты
		games := api.Group("/games")
		{
			games.GET("", gameHandler.ListRooms)
			games.GET("/:code", gameHandler.GetRoom)
			games.GET("/:code/lobby", gameHandler.GetLobby)
			games.GET("/:code/results", gameHandler.GetResults)

			authedGames := games.Group("")
			authedGames.Use(authMiddleware.RequireAuth())
			{
				// Создание комнат лимитируется отдельно от auth
				createLimit := rateLimiter.LimitByIP(middleware.RoomCreateRateLimitConfig())
				authedGames.POST("", createLimit, gameHandler.CreateRoom)
				authedGames.POST("/solo", createLimit, gameHandler.CreateSoloRoom)
			}
		}
	}

	// WebSocket маршрут
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем хаб, активные соединения закрываются
	wsHub.Close()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
