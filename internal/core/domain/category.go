package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// CategoryID identifies one section of the publication.
type CategoryID string

// Known categories, in bundle order.
const (
	CategoryGEN CategoryID = "GEN"
	CategoryENR CategoryID = "ENR"
	CategoryAD  CategoryID = "AD"
	CategorySUP CategoryID = "SUP"
)

// LabelStyle selects how bookmark labels are built for a category.
type LabelStyle int

const (
	// LabelPrefixed labels bookmarks "<CATEGORY> <display name>".
	LabelPrefixed LabelStyle = iota

	// LabelBare labels bookmarks with the display name only.
	LabelBare
)

// String returns the label style name.
func (s LabelStyle) String() string {
	if s == LabelBare {
		return "bare"
	}
	return "prefixed"
}

// NamingStyle selects how local file names are derived from descriptors.
type NamingStyle int

const (
	// NameFromLocator uses the final path segment of the locator.
	NameFromLocator NamingStyle = iota

	// NameFromDisplayName uses the sanitised display name.
	NameFromDisplayName
)

// String returns the naming style name.
func (s NamingStyle) String() string {
	if s == NameFromDisplayName {
		return "display-name"
	}
	return "locator"
}

// Category is one row of the category table.
// All per-category behaviour is driven from these fields.
type Category struct {
	// ID is the category identifier.
	ID CategoryID

	// Query is the category page locator passed to the descriptor source.
	Query string

	// Dir is the local subdirectory name under the target directory.
	Dir string

	// Label selects the bookmark label convention.
	Label LabelStyle

	// Naming selects the local file naming convention.
	Naming NamingStyle

	// Volatile categories have their subdirectory wiped before every run.
	Volatile bool
}

// DefaultCategories returns the fixed category table in bundle order.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryGEN, Query: "/document-category/General-GEN", Dir: "GEN"},
		{ID: CategoryENR, Query: "/document-category/En-route-ENR", Dir: "ENR"},
		{ID: CategoryAD, Query: "/document-category/Aerodromes-AD1", Dir: "AD"},
		{
			ID:       CategorySUP,
			Query:    "",
			Dir:      "SUP",
			Label:    LabelBare,
			Naming:   NameFromDisplayName,
			Volatile: true,
		},
	}
}

// FindCategory returns the category with the given id from cats.
func FindCategory(cats []Category, id CategoryID) (Category, error) {
	for _, c := range cats {
		if strings.EqualFold(string(c.ID), string(id)) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
}

// BookmarkLabel returns the bundle bookmark label for d.
func (c Category) BookmarkLabel(d Descriptor) string {
	if c.Label == LabelBare {
		return d.DisplayName
	}
	return string(c.ID) + " " + d.DisplayName
}

// FileName returns the local file name for d within the category directory.
func (c Category) FileName(d Descriptor) (string, error) {
	if c.Naming == NameFromDisplayName {
		return displayFileName(d.DisplayName)
	}
	return locatorFileName(d.Locator)
}

// locatorFileName returns the final path segment of a locator.
func locatorFileName(locator string) (string, error) {
	p := locator
	if u, err := url.Parse(locator); err == nil {
		p = u.EscapedPath()
	}
	name := path.Base(p)
	if strings.HasSuffix(p, "/") || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: no file name in locator %q", ErrInvalidInput, locator)
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if strings.ContainsAny(name, `/\`) || name == ".." {
		return "", fmt.Errorf("%w: unsafe file name in locator %q", ErrInvalidInput, locator)
	}
	return name, nil
}

// displayFileName turns a display name into a safe file name with a .pdf extension.
func displayFileName(name string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	clean = strings.Trim(clean, ". ")
	if clean == "" {
		return "", fmt.Errorf("%w: empty display name", ErrInvalidInput)
	}
	if !strings.EqualFold(path.Ext(clean), ".pdf") {
		clean += ".pdf"
	}
	return clean, nil
}
