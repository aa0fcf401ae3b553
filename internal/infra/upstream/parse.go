package upstream

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ressourcefy/internal/domain/entity"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errEmptyPayload   = errors.New("empty payload")
)

// record reads one JSON object and remembers whether any requested field was missing.
type record struct {
	r       gjson.Result
	missing bool
}

// get returns the first present path, or the zero Result after marking the record incomplete.
func (rec *record) get(paths ...string) gjson.Result {
	for _, p := range paths {
		if v := rec.r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	rec.missing = true
	return gjson.Result{}
}

// str returns the first non-blank string or number among paths. Objects and
// arrays are skipped, so "author" holding {"id":1} does not leak raw JSON.
func (rec *record) str(def string, paths ...string) string {
	for _, p := range paths {
		v := rec.r.Get(p)
		if v.Type != gjson.String && v.Type != gjson.Number {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	rec.missing = true
	return def
}

func (rec *record) timestamp(def time.Time, paths ...string) time.Time {
	v := rec.get(paths...)
	if !v.Exists() {
		return def
	}
	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		rec.missing = true
		return def
	}
	return t.UTC()
}

func (rec *record) number(def int64, paths ...string) int64 {
	v := rec.get(paths...)
	if !v.Exists() {
		return def
	}
	if v.Type != gjson.Number {
		rec.missing = true
		return def
	}
	return v.Int()
}

// listOf locates the item array in a list payload. Accepted shapes are a bare
// array, {"data": [...]} and {"<name>": [...]}.
func listOf(body []byte, name string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array(), nil
	}
	if !root.IsObject() {
		return nil, errInvalidPayload
	}
	for _, key := range []string{"data", name} {
		if v := root.Get(key); v.IsArray() {
			return v.Array(), nil
		}
	}
	return nil, errEmptyPayload
}

// parseHello merges the upstream greeting over the fallback greeting.
func parseHello(body []byte) (entity.HelloMessage, bool, error) {
	if !gjson.ValidBytes(body) {
		return entity.HelloMessage{}, false, errInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if root.Get("data").IsObject() {
		root = root.Get("data")
	}
	if !root.IsObject() {
		return entity.HelloMessage{}, false, errInvalidPayload
	}

	def := entity.FallbackHello()
	rec := &record{r: root}
	hello := entity.HelloMessage{
		Title:   rec.str(def.Title, "title", "heading"),
		Message: rec.str(def.Message, "message", "description"),
		Status:  rec.str(def.Status, "status"),
		Image:   rec.str(def.Image, "image", "imageUrl"),
	}
	return hello, rec.missing, nil
}

func parseUsers(body []byte) ([]entity.User, bool, error) {
	items, err := listOf(body, "users")
	if err != nil {
		return nil, false, err
	}

	def := entity.PlaceholderUser()
	partial := false
	users := make([]entity.User, 0, len(items))
	for _, item := range items {
		rec := &record{r: item}
		id := rec.str("", "id")
		if id == "" || !item.IsObject() {
			partial = true
			continue
		}
		users = append(users, entity.User{
			ID:        id,
			Name:      rec.str(def.Name, "name", "fullName"),
			Email:     rec.str(def.Email, "email"),
			Image:     rec.str(def.Image, "image", "avatar"),
			CreatedAt: rec.timestamp(def.CreatedAt, "createdAt", "created_at"),
		})
		partial = partial || rec.missing
	}
	if len(users) == 0 {
		return nil, false, errEmptyPayload
	}
	return users, partial, nil
}

func parseArticles(body []byte) ([]entity.Article, bool, error) {
	items, err := listOf(body, "articles")
	if err != nil {
		return nil, false, err
	}

	def := entity.PlaceholderArticle()
	partial := false
	articles := make([]entity.Article, 0, len(items))
	for _, item := range items {
		rec := &record{r: item}
		id := rec.str("", "id")
		category, catErr := entity.ParseResourceCategory(rec.str("", "category"))
		if id == "" || catErr != nil || !item.IsObject() {
			partial = true
			continue
		}
		articles = append(articles, entity.Article{
			ID:          id,
			Title:       rec.str(def.Title, "title", "name"),
			Summary:     rec.str(def.Summary, "summary", "description"),
			URL:         rec.str(def.URL, "url", "link"),
			Image:       rec.str(def.Image, "image", "thumbnail"),
			Author:      rec.str(def.Author, "author.name", "author"),
			Category:    category,
			PublishedAt: rec.timestamp(def.PublishedAt, "publishedAt", "published_at"),
		})
		partial = partial || rec.missing
	}
	if len(articles) == 0 {
		return nil, false, errEmptyPayload
	}
	return articles, partial, nil
}

func parseDocuments(body []byte) ([]entity.DocumentAsset, bool, error) {
	items, err := listOf(body, "documents")
	if err != nil {
		return nil, false, err
	}

	def := entity.PlaceholderDocument()
	partial := false
	docs := make([]entity.DocumentAsset, 0, len(items))
	for _, item := range items {
		rec := &record{r: item}
		id := rec.str("", "id")
		category, catErr := entity.ParseResourceCategory(rec.str("", "category"))
		if id == "" || catErr != nil || !item.IsObject() {
			partial = true
			continue
		}
		docs = append(docs, entity.DocumentAsset{
			ID:          id,
			Title:       rec.str(def.Title, "title", "name"),
			Description: rec.str(def.Description, "description", "summary"),
			FileURL:     rec.str(def.FileURL, "fileUrl", "file_url", "url"),
			Format:      strings.ToLower(rec.str(def.Format, "format")),
			SizeBytes:   rec.number(def.SizeBytes, "sizeBytes", "size_bytes", "size"),
			Category:    category,
			UpdatedAt:   rec.timestamp(def.UpdatedAt, "updatedAt", "updated_at"),
		})
		partial = partial || rec.missing
	}
	if len(docs) == 0 {
		return nil, false, errEmptyPayload
	}
	return docs, partial, nil
}
