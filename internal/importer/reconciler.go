package importer

import (
	"strings"

	"bookstore/internal/entities"
)

// DefaultCategoryName is attached to books that resolve to no category.
const DefaultCategoryName = "Новинки"

// Reconciliation is the outcome of diffing the feed's category names against
// the persisted set. Newly required categories are staged with a zero ID and
// only written when the import batch commits.
type Reconciliation struct {
	// ByNormalized maps normalized names to categories, persisted or staged.
	ByNormalized map[string]*entities.Category

	// Default is the guaranteed fallback category.
	Default *entities.Category

	// Created lists staged categories pending creation, default included.
	Created []*entities.Category

	// CreatedNames holds the deduplicated display names of newly staged
	// categories (without the default), in feed order, for operator output.
	CreatedNames []string

	// DefaultCreated reports whether the default category had to be staged.
	DefaultCreated bool
}

// Reconcile builds the normalized-name lookup for an import run. Persisted
// categories take priority; a feed name whose normalized form is absent is
// staged as a new category using the first-seen original spelling, Title
// Cased.
func Reconcile(records []FeedRecord, existing []entities.Category) *Reconciliation {
	// Unique normalized names from the feed, first-seen spelling wins.
	fromFeed := make(map[string]string)
	var order []string
	for _, record := range records {
		for _, name := range record.Categories {
			clean := strings.TrimSpace(name)
			if clean == "" {
				continue
			}
			normalized := NormalizeCategoryName(clean)
			if _, seen := fromFeed[normalized]; !seen {
				fromFeed[normalized] = clean
				order = append(order, normalized)
			}
		}
	}

	byNormalized := make(map[string]*entities.Category, len(existing))
	for i := range existing {
		byNormalized[NormalizeCategoryName(existing[i].Name)] = &existing[i]
	}

	rec := &Reconciliation{ByNormalized: byNormalized}

	seenNames := make(map[string]bool)
	for _, normalized := range order {
		if _, exists := byNormalized[normalized]; exists {
			continue
		}
		category := &entities.Category{Name: TitleCaseName(fromFeed[normalized])}
		byNormalized[normalized] = category
		rec.Created = append(rec.Created, category)
		if !seenNames[category.Name] {
			seenNames[category.Name] = true
			rec.CreatedNames = append(rec.CreatedNames, category.Name)
		}
	}

	defaultNormalized := NormalizeCategoryName(DefaultCategoryName)
	if def, exists := byNormalized[defaultNormalized]; exists {
		rec.Default = def
	} else {
		def := &entities.Category{Name: DefaultCategoryName}
		byNormalized[defaultNormalized] = def
		rec.Created = append(rec.Created, def)
		rec.Default = def
		rec.DefaultCreated = true
	}

	return rec
}
