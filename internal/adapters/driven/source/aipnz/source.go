// Package aipnz lists AIP New Zealand documents from the publication's
// category pages.
package aipnz

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DescriptorSource = (*Source)(nil)

// Page layout selectors.
const (
	fileInfoSelector   = "div.file-info"
	blockTitleSelector = "div.home__block-title"
	supplementSelector = "li.home__popular-amendment-item"

	// supplementsBlockTitle heads the home page block listing supplements.
	supplementsBlockTitle = "Additional documents"
)

// PageFetcher retrieves a page body by locator.
type PageFetcher interface {
	Page(ctx context.Context, locator string) (io.ReadCloser, error)
}

// Source lists descriptors by scraping category pages.
type Source struct {
	pages PageFetcher
	order domain.SupplementOrder
}

// New creates a source reading pages through fetcher.
// order controls the ordering of supplement descriptors.
func New(fetcher PageFetcher, order domain.SupplementOrder) *Source {
	if !order.IsValid() {
		order = domain.SupplementOrderSource
	}
	return &Source{pages: fetcher, order: order}
}

// List returns the descriptors on the category's page in page order.
func (s *Source) List(ctx context.Context, cat domain.Category) ([]domain.Descriptor, error) {
	logger.Info("Retrieving %s documents from %q", cat.ID, cat.Query)

	body, err := s.pages.Page(ctx, cat.Query)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", cat.ID, err)
	}

	if cat.ID == domain.CategorySUP {
		descs, err := supplements(doc)
		if err != nil {
			return nil, err
		}
		if s.order == domain.SupplementOrderEffective {
			descs = domain.OrderByEffectiveDate(descs)
		}
		return descs, nil
	}
	return descriptors(doc.Find(fileInfoSelector)), nil
}

// supplements returns the entries of the "Additional documents" block.
func supplements(doc *goquery.Document) ([]domain.Descriptor, error) {
	block := doc.Find(blockTitleSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == supplementsBlockTitle
	}).First()
	if block.Length() == 0 {
		return nil, fmt.Errorf("%w: %q block", domain.ErrNotFound, supplementsBlockTitle)
	}
	return descriptors(block.Parent().Find(supplementSelector)), nil
}

// descriptors turns each entry's first link into a descriptor.
// Entries without a link are skipped.
func descriptors(entries *goquery.Selection) []domain.Descriptor {
	descs := make([]domain.Descriptor, 0, entries.Length())
	entries.Each(func(_ int, entry *goquery.Selection) {
		a := entry.Find("a").First()
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			logger.Debug("Skipping entry without a link: %q", collapse(entry.Text()))
			return
		}
		descs = append(descs, domain.Descriptor{
			DisplayName: collapse(a.Text()),
			Locator:     href,
		})
	})
	return descs
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
