package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/importer"
	"bookstore/internal/thumbnails"
)

// ImportBooksCommand runs the JSON feed import. It takes no flags: the
// source path comes from PARSER_SOURCE_FILE with a local fallback.
type ImportBooksCommand struct {
	cfg *config.Config
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{cfg: config.NewConfig()}
}

func (cmd *ImportBooksCommand) Run() error {
	fmt.Println("Book Import")
	fmt.Println("===========")

	sourceFile, err := filepath.Abs(cmd.cfg.Parser.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	fmt.Printf("Source: %s\n", sourceFile)

	db, err := database.NewDatabase(cmd.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	mirror, err := thumbnails.NewMirror(cmd.cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize thumbnail mirror: %w", err)
	}

	result, err := importer.New(db, mirror).Run(sourceFile)
	if err != nil {
		return err
	}

	if len(result.NewCategories) > 0 {
		fmt.Printf("\nCreated categories: %s\n", strings.Join(result.NewCategories, ", "))
	}
	if result.DefaultCreated {
		fmt.Printf("Created default category: %q\n", importer.DefaultCategoryName)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Books processed: %d\n", result.Processed)
	fmt.Printf("New books: %d\n", result.Created)
	if result.DateParseFailures > 0 {
		fmt.Printf("Unparseable publish dates (field skipped): %d\n", result.DateParseFailures)
	}
	if result.ImageFailures > 0 {
		fmt.Printf("Failed thumbnail downloads (book kept without image): %d\n", result.ImageFailures)
	}

	fmt.Println("\nImport complete!")
	return nil
}
