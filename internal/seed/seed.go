// Package seed loads starter content from a YAML file into empty collections.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
)

type File struct {
	Projects  []content.Project   `yaml:"projects"`
	Blogs     []content.BlogPost  `yaml:"blogs"`
	Education []content.Education `yaml:"education"`
}

type Result struct {
	Projects  int `json:"projects"`
	Blogs     int `json:"blogs"`
	Education int `json:"education"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and fills in derived defaults.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i := range f.Projects {
		if f.Projects[i].Slug == "" {
			f.Projects[i].Slug = content.Slugify(f.Projects[i].Title)
		}
	}
	for i := range f.Blogs {
		b := &f.Blogs[i]
		if b.Slug == "" {
			b.Slug = content.Slugify(b.Title)
		}
		if b.Author == "" {
			b.Author = content.DefaultAuthor
		}
	}
	for i := range f.Education {
		e := &f.Education[i]
		if e.Slug == "" {
			e.Slug = content.Slugify(e.Degree + " " + e.Institution)
		}
	}
	return &f, nil
}

// Collections are the seed targets. Any content.Collection works, local or remote.
type Collections struct {
	Projects  content.Collection[content.Project]
	Blogs     content.Collection[content.BlogPost]
	Education content.Collection[content.Education]
}

// Apply inserts each section of f into its collection when that collection is
// empty. Non-empty collections are left untouched.
func Apply(ctx context.Context, f *File, c Collections) (Result, error) {
	var res Result
	var err error

	if res.Projects, err = into(ctx, "projects", c.Projects, f.Projects); err != nil {
		return res, err
	}
	if res.Blogs, err = into(ctx, "blogs", c.Blogs, f.Blogs); err != nil {
		return res, err
	}
	if res.Education, err = into(ctx, "education", c.Education, f.Education); err != nil {
		return res, err
	}
	return res, nil
}

func into[T any](ctx context.Context, name string, coll content.Collection[T], items []T) (int, error) {
	if coll == nil || len(items) == 0 {
		return 0, nil
	}
	existing, err := coll.List(ctx, content.Query{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", name, err)
	}
	if len(existing) > 0 {
		logger.Debug("seed skipped, collection not empty", "collection", name)
		return 0, nil
	}

	for i, item := range items {
		if _, err := coll.Insert(ctx, item); err != nil {
			return i, fmt.Errorf("seed %s #%d: %w", name, i, err)
		}
	}
	logger.Info("seeded collection", "collection", name, "rows", len(items))
	return len(items), nil
}
