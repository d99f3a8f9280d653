package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/database/contacts"
	"bookstore/internal/database/users"
	http_controllers "bookstore/internal/http"
	"bookstore/internal/importer"
	"bookstore/internal/scheduler"
	"bookstore/internal/tasks"
	"bookstore/internal/thumbnails"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookstore v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	mirror, err := thumbnails.NewMirror(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize thumbnail mirror: %v", err)
	}

	bookRepo := books.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	contactRepo := contacts.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	hasAdmins, err := userRepo.HasUsers()
	if err == nil && !hasAdmins {
		log.Printf("No administrators found. Run 'create-admin' to enable the admin API.")
	}

	// Background task queue for thumbnail refetches.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefetchThumbnailsQueue(bookRepo, mirror),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Optional scheduled re-import of the feed.
	var importScheduler *scheduler.ImportScheduler
	if cfg.ImportSync.Enabled {
		imp := importer.New(db, mirror)
		importScheduler = scheduler.NewImportScheduler(imp, cfg.Parser.SourceFile, cfg.ImportSync.Schedule)
		if err := importScheduler.Start(); err != nil {
			log.Fatalf("Failed to start import scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:     db,
		Books:        bookRepo,
		Categories:   categoryRepo,
		Contacts:     contactRepo,
		Users:        userRepo,
		TaskClient:   taskClient,
		UploadsDir:   cfg.Uploads.Dir,
		ItemsPerPage: cfg.Catalog.ItemsPerPage,
		ContactEmail: cfg.Contact.Email,
		Version:      version,
	})

	onShutdown := func(ctx context.Context) {
		if importScheduler != nil {
			importScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
