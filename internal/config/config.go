package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Parser
		Uploads
		Catalog
		Contact
		ImportSync
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Parser struct {
		SourceFile string // JSON feed consumed by the import-books command
	}
	Uploads struct {
		Dir string // Mirrored thumbnails live under <Dir>/thumbnails
	}
	Catalog struct {
		ItemsPerPage int
	}
	Contact struct {
		Email string // Recipient announced for incoming contact messages
	}
	ImportSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("parser_source_file", DefaultSourceFile)
	v.SetDefault("uploads_dir", DefaultUploadsDir)
	v.SetDefault("app_items_per_page", 10)
	v.SetDefault("contact_email", "")

	// Scheduled re-import defaults
	v.SetDefault("import_sync_enabled", false)
	v.SetDefault("import_sync_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults. Retry and timeout policy is fixed per queue.
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Parser: Parser{
			SourceFile: v.GetString("PARSER_SOURCE_FILE"),
		},
		Uploads: Uploads{
			Dir: v.GetString("UPLOADS_DIR"),
		},
		Catalog: Catalog{
			ItemsPerPage: v.GetInt("APP_ITEMS_PER_PAGE"),
		},
		Contact: Contact{
			Email: v.GetString("CONTACT_EMAIL"),
		},
		ImportSync: ImportSync{
			Enabled:  v.GetBool("IMPORT_SYNC_ENABLED"),
			Schedule: v.GetString("IMPORT_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
