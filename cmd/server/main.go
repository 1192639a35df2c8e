package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/cache"
	"github.com/yukikurage/promanage-api/internal/config"
	"github.com/yukikurage/promanage-api/internal/database"
	"github.com/yukikurage/promanage-api/internal/handlers"
	"github.com/yukikurage/promanage-api/internal/repository"
	"github.com/yukikurage/promanage-api/internal/router"
	"github.com/yukikurage/promanage-api/internal/services"
)

// stores bundles the repositories of the selected backend with its closer.
type stores struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	close func(ctx context.Context) error
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	analyticsCache, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "promanage:", cfg.AnalyticsCacheTTL)
	if err != nil {
		log.Printf("Redis unavailable at %s, analytics cache disabled: %v", cfg.RedisAddr, err)
		analyticsCache = nil
	}

	// Initialize services
	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authService := services.NewAuthService(st.users, tokens, hasher)
	taskService := services.NewTaskService(st.tasks, analyticsCache, loc)
	aiService := services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)

	r := gin.New()
	router.Register(r, cfg, tokens, taskService, authHandler, taskHandler)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s (store=%s, base path=%s)", cfg.ServerPort, cfg.DBDriver, cfg.APIBasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"promanage-api": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				// In-flight requests must drain before their store goes away.
				err := server.Shutdown(ctx)
				err = errors.Join(err, st.close(ctx))
				return errors.Join(err, analyticsCache.Close())
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// openStores connects the backend selected by DB_DRIVER and prepares its schema.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, err
		}
		return &stores{
			users: repository.NewMongoUserRepository(db),
			tasks: repository.NewMongoTaskRepository(db),
			close: client.Disconnect,
		}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return &stores{
		users: repository.NewUserRepository(db),
		tasks: repository.NewTaskRepository(db),
		close: func(context.Context) error {
			return database.Close(db)
		},
	}, nil
}
