// Package importer implements the category-aware book import pipeline:
// JSON feed ingestion, category reconciliation, ISBN-keyed upsert and
// best-effort thumbnail mirroring. All writes are staged in memory and
// committed in a single transaction at the end of the run.
package importer

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"bookstore/internal/database"
	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/entities"
	"bookstore/internal/thumbnails"
)

// The original feed dumps carry ISO-8601 timestamps with a colon-less zone
// offset, which RFC3339 rejects, so several layouts are tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// Result summarizes one import run.
type Result struct {
	Processed         int      // Feed records staged (non-empty title)
	Created           int      // Records that produced a new book
	NewCategories     []string // Display names of categories created this run
	DefaultCreated    bool     // Whether the default category had to be created
	DateParseFailures int      // Records whose publish date could not be parsed
	ImageFailures     int      // Records whose thumbnail download failed
}

// Importer runs the import pipeline against one database.
type Importer struct {
	db         *database.Database
	books      *books.Repository
	categories *categories.Repository
	mirror     *thumbnails.Mirror
}

func New(db *database.Database, mirror *thumbnails.Mirror) *Importer {
	return &Importer{
		db:         db,
		books:      books.NewRepository(db.DB),
		categories: categories.NewRepository(db.DB),
		mirror:     mirror,
	}
}

type stagedBook struct {
	book       *entities.Book
	categories []*entities.Category
}

// Run executes the full pipeline: load feed, reconcile categories, stage one
// upsert per record, then commit the whole batch atomically. Feed and commit
// errors are fatal; date-parse and image failures are counted and skipped.
func (imp *Importer) Run(sourcePath string) (*Result, error) {
	records, err := LoadFeed(sourcePath)
	if err != nil {
		return nil, err
	}

	existing, err := imp.categories.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	rec := Reconcile(records, existing)

	result := &Result{
		NewCategories:  rec.CreatedNames,
		DefaultCreated: rec.DefaultCreated,
	}

	var staged []stagedBook
	for _, record := range records {
		// Only a truly empty title skips; whitespace-only titles import as-is.
		if record.Title == "" {
			continue
		}

		book, isNew, err := imp.resolveBook(record.ISBN)
		if err != nil {
			return nil, err
		}
		if isNew {
			result.Created++
		}

		imp.applyFields(book, record, result)

		staged = append(staged, stagedBook{
			book:       book,
			categories: resolveCategories(record, rec),
		})
		result.Processed++
	}

	if err := imp.commit(rec.Created, staged); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	return result, nil
}

// resolveBook finds an existing book by ISBN, or constructs a new one.
// Records without an ISBN always insert; re-importing them duplicates.
func (imp *Importer) resolveBook(isbn string) (*entities.Book, bool, error) {
	if isbn == "" {
		return &entities.Book{}, true, nil
	}

	book, err := imp.books.FindByISBN(isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.Book{}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up ISBN %s: %w", isbn, err)
	}
	return book, false, nil
}

// applyFields overwrites the book's scalar fields from the feed record.
// Every field is replaced on each run; there is no partial merge.
func (imp *Importer) applyFields(book *entities.Book, record FeedRecord, result *Result) {
	book.Title = record.Title
	book.ISBN = record.ISBN
	book.PageCount = record.PageCount

	book.Status = record.Status
	if book.Status == "" {
		book.Status = entities.DefaultStatus
	}

	book.Authors = record.Authors
	if book.Authors == nil {
		book.Authors = []string{}
	}

	if record.PublishedDate != nil && record.PublishedDate.Date != "" {
		if parsed, ok := parsePublishedDate(record.PublishedDate.Date); ok {
			book.PublishedDate = &parsed
		} else {
			// Unparseable date leaves the field untouched.
			result.DateParseFailures++
		}
	}

	if record.ThumbnailURL != "" {
		book.ThumbnailURL = record.ThumbnailURL
		localPath, err := imp.mirror.MirrorURL(record.ThumbnailURL)
		if err != nil {
			result.ImageFailures++
			log.Printf("thumbnail download failed for %q: %v", record.Title, err)
		} else {
			book.ImagePath = localPath
		}
	}
}

// resolveCategories maps the record's category names through the
// reconciliation, deduplicating by normalized name within the record. A
// record resolving to nothing gets the default category as its sole one.
func resolveCategories(record FeedRecord, rec *Reconciliation) []*entities.Category {
	var attached []*entities.Category
	used := make(map[string]bool)

	for _, name := range record.Categories {
		clean := strings.TrimSpace(name)
		if clean == "" {
			continue
		}

		normalized := NormalizeCategoryName(clean)
		if used[normalized] {
			continue
		}

		category, ok := rec.ByNormalized[normalized]
		if !ok {
			// Reconcile covers every feed name, but fall back defensively.
			category = rec.Default
		}
		attached = append(attached, category)
		used[normalized] = true
	}

	if len(attached) == 0 {
		attached = []*entities.Category{rec.Default}
	}
	return attached
}

// commit writes the whole staged batch in one transaction: new categories
// first so their IDs exist, then each book and its category associations.
func (imp *Importer) commit(newCategories []*entities.Category, staged []stagedBook) error {
	return imp.db.DB.Transaction(func(tx *gorm.DB) error {
		for _, category := range newCategories {
			if err := tx.Create(category).Error; err != nil {
				return err
			}
		}

		for _, s := range staged {
			if s.book.ID == 0 {
				if err := tx.Omit("Categories").Create(s.book).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Omit("Categories").Save(s.book).Error; err != nil {
					return err
				}
			}

			if err := tx.Model(s.book).Association("Categories").Replace(s.categories); err != nil {
				return err
			}
		}
		return nil
	})
}

func parsePublishedDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
