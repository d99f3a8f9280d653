package tasks

import (
	"context"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"bookstore/internal/database/books"
	"bookstore/internal/thumbnails"
)

// RefetchThumbnailsTask re-mirrors thumbnails for books that know their
// remote URL but have no local image, e.g. after download failures during a
// feed import.
type RefetchThumbnailsTask struct{}

// Config returns the queue configuration for thumbnail refetch tasks.
func (t RefetchThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refetch_thumbnails",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefetchThumbnailsProcessor creates a processor that walks books with
// missing images and retries the download through the shared mirror.
// Individual download failures are logged and skipped, matching the
// best-effort contract of the import pipeline.
func RefetchThumbnailsProcessor(repo *books.Repository, mirror *thumbnails.Mirror) backlite.QueueProcessor[RefetchThumbnailsTask] {
	return func(ctx context.Context, task RefetchThumbnailsTask) error {
		missing, err := repo.FindMissingThumbnails()
		if err != nil {
			return err
		}

		var fetched, failed int
		for _, book := range missing {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			localPath, err := mirror.MirrorURL(book.ThumbnailURL)
			if err != nil {
				failed++
				log.Printf("[TASK] thumbnail refetch failed for book %d (%s): %v", book.ID, book.Title, err)
				continue
			}
			if err := repo.UpdateImagePath(book.ID, localPath); err != nil {
				return err
			}
			fetched++
		}

		log.Printf("[TASK] Thumbnail refetch done: %d fetched, %d failed, %d candidates", fetched, failed, len(missing))
		return nil
	}
}

// NewRefetchThumbnailsQueue creates a backlite queue for thumbnail refetches.
func NewRefetchThumbnailsQueue(repo *books.Repository, mirror *thumbnails.Mirror) backlite.Queue {
	return backlite.NewQueue(RefetchThumbnailsProcessor(repo, mirror))
}
