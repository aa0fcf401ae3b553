package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ressourcefy/internal/domain/entity"
)

func TestListOf(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr error
	}{
		{name: "bare array", body: `[{"id":"1"},{"id":"2"}]`, want: 2},
		{name: "data wrapper", body: `{"data":[{"id":"1"}]}`, want: 1},
		{name: "named wrapper", body: `{"users":[{"id":"1"}]}`, want: 1},
		{name: "object without list", body: `{"count":0}`, wantErr: errEmptyPayload},
		{name: "scalar", body: `42`, wantErr: errInvalidPayload},
		{name: "broken", body: `[{"id":`, wantErr: errInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := listOf([]byte(tt.body), "users")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestParseHello_DataWrapper(t *testing.T) {
	hello, partial, err := parseHello([]byte(`{"data":{"title":"T","description":"D","status":"ok","imageUrl":"/x.png"}}`))
	require.NoError(t, err)
	assert.False(t, partial)
	assert.Equal(t, "T", hello.Title)
	assert.Equal(t, "D", hello.Message)
	assert.Equal(t, "/x.png", hello.Image)
}

func TestParseHello_MissingStatusFromFallback(t *testing.T) {
	hello, partial, err := parseHello([]byte(`{"title":"T","message":"M","image":"/i.png"}`))
	require.NoError(t, err)
	assert.True(t, partial)
	assert.Equal(t, entity.FallbackHello().Status, hello.Status)
	assert.Equal(t, "T", hello.Title)
}

func TestParseHello_RejectsArray(t *testing.T) {
	_, _, err := parseHello([]byte(`[1,2]`))
	assert.ErrorIs(t, err, errInvalidPayload)
}

func TestParseDocuments(t *testing.T) {
	docs, partial, err := parseDocuments([]byte(`{"documents":[
		{"id":"d","name":"Guide","description":"g","file_url":"/g.pdf","format":"PDF","size":1024,"category":"design","updated_at":"2025-05-05T05:05:05Z"},
		{"id":"e","title":"Brief","category":"business","sizeBytes":"big"}
	]}`))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.True(t, partial)

	assert.Equal(t, "Guide", docs[0].Title)
	assert.Equal(t, "/g.pdf", docs[0].FileURL)
	assert.Equal(t, "pdf", docs[0].Format)
	assert.Equal(t, int64(1024), docs[0].SizeBytes)
	assert.Equal(t, entity.CategoryDesign, docs[0].Category)

	placeholder := entity.PlaceholderDocument()
	assert.Equal(t, placeholder.Format, docs[1].Format)
	assert.Zero(t, docs[1].SizeBytes)
	assert.Equal(t, placeholder.UpdatedAt, docs[1].UpdatedAt)
}

func TestParseArticles_BadTimestampIsPartial(t *testing.T) {
	articles, partial, err := parseArticles([]byte(`[{"id":"1","title":"t","summary":"s","url":"u","image":"i","author":"a","category":"marketing","publishedAt":"yesterday"}]`))
	require.NoError(t, err)
	assert.True(t, partial)
	assert.Equal(t, entity.PlaceholderArticle().PublishedAt, articles[0].PublishedAt)
}

func TestParseArticles_Author(t *testing.T) {
	articles, partial, err := parseArticles([]byte(`[
		{"id":"1","author":{"name":"Grace"},"category":"design"},
		{"id":"2","author":"Linus","category":"design"},
		{"id":"3","author":{"id":1},"category":"design"}
	]`))
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.True(t, partial)

	assert.Equal(t, "Grace", articles[0].Author)
	assert.Equal(t, "Linus", articles[1].Author)
	assert.Equal(t, entity.PlaceholderArticle().Author, articles[2].Author)
}
