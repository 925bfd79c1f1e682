package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlist/model"
)

func validStudio() *model.Studio {
	return &model.Studio{
		Name:        "Epic Designs",
		Description: "Passionate team of 4 designers",
		Projects:    57,
		Years:       8,
		Price:       "$$",
		Phones:      []string{"+91-984532853"},
	}
}

func TestFileCatalog_MissingFile(t *testing.T) {
	c := NewFileCatalog(filepath.Join(t.TempDir(), "listings.json"))
	listings, err := c.Listings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFileCatalog_AddListing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "listings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"listings":[{"id":"a","name":"Alpha"}],"shortlisted":["a"]}`), 0644))

	c := NewFileCatalog(path)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	created, err := c.AddListing(context.Background(), validStudio())
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, defaultRating, created.Rating)
	assert.Equal(t, "2025-01-02T03:04:05.000000", created.CreatedAt)

	listings, err := c.Listings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "a", listings[0].ID)
	assert.Equal(t, created.ID, listings[1].ID)

	// 原文件中的 shortlisted 字段保留
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var file catalogFile
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, []string{"a"}, file.Shortlisted)
}

func TestFileCatalog_ReadsNaiveTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listings":[
		{"id":"1","name":"Lamsa","created_at":"2026-10-19T12:30:00.123456"},
		{"id":"2","name":"Studio Pixel","created_at":"2026-10-19T12:30:00Z"},
		{"id":"3","name":"Epic Designs"}
	],"shortlisted":[]}`), 0644))

	listings, err := NewFileCatalog(path).Listings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "2026-10-19T12:30:00.123456", listings[0].CreatedAt)
	assert.Empty(t, listings[2].CreatedAt)
}

func TestFileCatalog_AddListingValidation(t *testing.T) {
	c := NewFileCatalog(filepath.Join(t.TempDir(), "listings.json"))

	cases := map[string]func(*model.Studio){
		"name":        func(s *model.Studio) { s.Name = "" },
		"description": func(s *model.Studio) { s.Description = "" },
		"projects":    func(s *model.Studio) { s.Projects = 0 },
		"years":       func(s *model.Studio) { s.Years = 0 },
		"price":       func(s *model.Studio) { s.Price = "" },
		"phones":      func(s *model.Studio) { s.Phones = nil },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			s := validStudio()
			mutate(s)
			_, err := c.AddListing(context.Background(), s)
			require.ErrorIs(t, err, ErrInvalidListing)
			assert.Contains(t, err.Error(), field)
		})
	}

	_, err := c.AddListing(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidListing)
}

func TestFileCatalog_KeepsExplicitRating(t *testing.T) {
	c := NewFileCatalog(filepath.Join(t.TempDir(), "listings.json"))
	s := validStudio()
	s.Rating = 4.5

	created, err := c.AddListing(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 4.5, created.Rating)
}
