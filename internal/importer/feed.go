package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// FeedDate is the nested date wrapper used by the feed: {"$date": "..."}.
type FeedDate struct {
	Date string `json:"$date"`
}

// FeedRecord is one book object in the import source.
type FeedRecord struct {
	Title         string    `json:"title"`
	ISBN          string    `json:"isbn"`
	PageCount     *int      `json:"pageCount"`
	Status        string    `json:"status"`
	Authors       []string  `json:"authors"`
	Categories    []string  `json:"categories"`
	PublishedDate *FeedDate `json:"publishedDate"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
}

// LoadFeed reads and parses the JSON feed. A missing file or malformed JSON
// aborts the import before any writes are attempted.
func LoadFeed(path string) ([]FeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	var records []FeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return records, nil
}
