// Package scheduler re-runs the feed import on a cron schedule.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"bookstore/internal/importer"
)

// ImportScheduler periodically re-imports the configured feed file. Runs are
// serialized: a tick that fires while an import is still going is skipped.
type ImportScheduler struct {
	importer   *importer.Importer
	sourceFile string
	schedule   string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewImportScheduler(imp *importer.Importer, sourceFile, schedule string) *ImportScheduler {
	return &ImportScheduler{
		importer:   imp,
		sourceFile: sourceFile,
		schedule:   schedule,
		cron:       cron.New(),
	}
}

// Start registers the cron entry and begins scheduling.
func (s *ImportScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runImport); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("Import scheduler: started with schedule %q for %s", s.schedule, s.sourceFile)
	return nil
}

// Stop halts scheduling and waits for a running import to finish.
func (s *ImportScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("Import scheduler: stopped")
}

func (s *ImportScheduler) runImport() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		log.Printf("Import scheduler: previous run still in progress, skipping")
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	result, err := s.importer.Run(s.sourceFile)
	if err != nil {
		log.Printf("Import scheduler: import failed: %v", err)
		return
	}
	log.Printf("Import scheduler: imported %d books (%d new)", result.Processed, result.Created)
}
