package entity

import (
	"fmt"
	"strings"
	"time"
)

// ResourceCategory tags articles and document assets. Only the five values below are valid.
type ResourceCategory string

const (
	CategoryDevelopment  ResourceCategory = "development"
	CategoryDesign       ResourceCategory = "design"
	CategoryMarketing    ResourceCategory = "marketing"
	CategoryProductivity ResourceCategory = "productivity"
	CategoryBusiness     ResourceCategory = "business"
)

var categories = []ResourceCategory{
	CategoryDevelopment,
	CategoryDesign,
	CategoryMarketing,
	CategoryProductivity,
	CategoryBusiness,
}

// Categories returns the valid categories in display order.
func Categories() []ResourceCategory {
	out := make([]ResourceCategory, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the enumerated categories.
func (c ResourceCategory) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseResourceCategory normalizes s (trim, lower-case) and checks it against the enumeration.
func ParseResourceCategory(s string) (ResourceCategory, error) {
	c := ResourceCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category must be one of %s", strings.Join(categoryNames(), ", ")),
		}
	}
	return c, nil
}

func categoryNames() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return names
}

// Article is a curated link to an external resource.
type Article struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary"`
	URL         string           `json:"url"`
	Image       string           `json:"image"`
	Author      string           `json:"author"`
	Category    ResourceCategory `json:"category"`
	PublishedAt time.Time        `json:"publishedAt"`
}

// DocumentAsset is a downloadable file (template, guide, checklist).
type DocumentAsset struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	FileURL     string           `json:"fileUrl"`
	Format      string           `json:"format"`
	SizeBytes   int64            `json:"sizeBytes"`
	Category    ResourceCategory `json:"category"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// FilterArticles returns the articles tagged with c. An empty category keeps everything.
func FilterArticles(articles []Article, c ResourceCategory) []Article {
	if c == "" {
		return articles
	}
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

// FilterDocuments returns the documents tagged with c. An empty category keeps everything.
func FilterDocuments(docs []DocumentAsset, c ResourceCategory) []DocumentAsset {
	if c == "" {
		return docs
	}
	out := make([]DocumentAsset, 0, len(docs))
	for _, d := range docs {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
