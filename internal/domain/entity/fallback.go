package entity

import "time"

// Fallback records are served whenever the upstream API is not configured or
// does not answer with a usable payload. Each constructor returns a fresh copy
// so callers may modify the result.

var fallbackEpoch = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

// FallbackHello returns the offline banner.
func FallbackHello() HelloMessage {
	return HelloMessage{
		Title:   "Welcome to Ressourcefy",
		Message: "Discover and share the best resources for your projects.",
		Status:  "offline",
		Image:   "/images/hello.svg",
	}
}

// FallbackUsers returns the three demo users.
func FallbackUsers() []User {
	return []User{
		{
			ID:        "1",
			Name:      "Alice Martin",
			Email:     "alice@ressourcefy.dev",
			Image:     "/images/avatars/alice.png",
			CreatedAt: fallbackEpoch,
		},
		{
			ID:        "2",
			Name:      "Bastien Leroy",
			Email:     "bastien@ressourcefy.dev",
			Image:     "/images/avatars/bastien.png",
			CreatedAt: fallbackEpoch.AddDate(0, 1, 0),
		},
		{
			ID:        "3",
			Name:      "Chloé Dubois",
			Email:     "chloe@ressourcefy.dev",
			Image:     "/images/avatars/chloe.png",
			CreatedAt: fallbackEpoch.AddDate(0, 2, 0),
		},
	}
}

// FallbackArticles returns one demo article per category.
func FallbackArticles() []Article {
	return []Article{
		{
			ID:          "a-1",
			Title:       "Getting started with Go modules",
			Summary:     "A practical tour of versioned dependencies.",
			URL:         "https://go.dev/blog/using-go-modules",
			Image:       "/images/articles/go-modules.png",
			Author:      "Ressourcefy",
			Category:    CategoryDevelopment,
			PublishedAt: fallbackEpoch,
		},
		{
			ID:          "a-2",
			Title:       "Design systems in practice",
			Summary:     "How teams keep interfaces consistent at scale.",
			URL:         "https://www.designsystems.com/",
			Image:       "/images/articles/design-systems.png",
			Author:      "Ressourcefy",
			Category:    CategoryDesign,
			PublishedAt: fallbackEpoch,
		},
		{
			ID:          "a-3",
			Title:       "Content marketing fundamentals",
			Summary:     "Plan, publish and measure content that converts.",
			URL:         "https://contentmarketinginstitute.com/",
			Image:       "/images/articles/content-marketing.png",
			Author:      "Ressourcefy",
			Category:    CategoryMarketing,
			PublishedAt: fallbackEpoch,
		},
		{
			ID:          "a-4",
			Title:       "Deep work for busy teams",
			Summary:     "Protect focus time without missing what matters.",
			URL:         "https://todoist.com/productivity-methods",
			Image:       "/images/articles/deep-work.png",
			Author:      "Ressourcefy",
			Category:    CategoryProductivity,
			PublishedAt: fallbackEpoch,
		},
		{
			ID:          "a-5",
			Title:       "Writing a lean business plan",
			Summary:     "A one-page plan you will actually update.",
			URL:         "https://www.sba.gov/business-guide/plan-your-business/write-your-business-plan",
			Image:       "/images/articles/business-plan.png",
			Author:      "Ressourcefy",
			Category:    CategoryBusiness,
			PublishedAt: fallbackEpoch,
		},
	}
}

// FallbackDocuments returns the demo document assets.
func FallbackDocuments() []DocumentAsset {
	return []DocumentAsset{
		{
			ID:          "d-1",
			Title:       "Code review checklist",
			Description: "Questions to ask before approving a change.",
			FileURL:     "/files/code-review-checklist.pdf",
			Format:      "pdf",
			SizeBytes:   182_400,
			Category:    CategoryDevelopment,
			UpdatedAt:   fallbackEpoch,
		},
		{
			ID:          "d-2",
			Title:       "Brand guidelines template",
			Description: "Logo, palette and typography in one place.",
			FileURL:     "/files/brand-guidelines.fig",
			Format:      "fig",
			SizeBytes:   2_048_000,
			Category:    CategoryDesign,
			UpdatedAt:   fallbackEpoch,
		},
		{
			ID:          "d-3",
			Title:       "Editorial calendar",
			Description: "A quarterly planning spreadsheet.",
			FileURL:     "/files/editorial-calendar.xlsx",
			Format:      "xlsx",
			SizeBytes:   64_512,
			Category:    CategoryMarketing,
			UpdatedAt:   fallbackEpoch,
		},
	}
}

// PlaceholderUser supplies values for fields missing from an upstream user record.
func PlaceholderUser() User {
	return User{
		Name:      "Anonymous",
		Image:     "/images/avatars/placeholder.png",
		CreatedAt: fallbackEpoch,
	}
}

// PlaceholderArticle supplies values for fields missing from an upstream article record.
func PlaceholderArticle() Article {
	return Article{
		Title:       "Untitled resource",
		Image:       "/images/articles/placeholder.png",
		Author:      "Unknown author",
		PublishedAt: fallbackEpoch,
	}
}

// PlaceholderDocument supplies values for fields missing from an upstream document record.
func PlaceholderDocument() DocumentAsset {
	return DocumentAsset{
		Title:     "Untitled document",
		Format:    "pdf",
		UpdatedAt: fallbackEpoch,
	}
}
