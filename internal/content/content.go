// Package content holds the portfolio's entities and the collection contract
// shared by the database store, the HTTP client and the view/admin controllers.
package content

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultAuthor is credited on blog posts that name no author.
const DefaultAuthor = "Zach Kordas-Potter"

// Query narrows a list fetch. Ordering is fixed per collection.
type Query struct {
	Limit       int
	Category    string
	ExcludeSlug string
}

// Collection is the remote collection API: select-all with filter and order,
// select-by-slug, insert, update-by-id and delete-by-id.
type Collection[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	BySlug(ctx context.Context, slug string) (T, error)
	Insert(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Entity is implemented by pointers to the three content types.
type Entity interface {
	TableName() string
	Key() int64
	SetKey(id int64)
	// ListOrder is the ORDER BY clause applied to list queries.
	ListOrder() string
}

type Project struct {
	ID               int64     `gorm:"primaryKey" json:"id" yaml:"-"`
	Slug             string    `gorm:"uniqueIndex;not null" json:"slug" yaml:"slug"`
	Title            string    `json:"title" yaml:"title"`
	Description      string    `json:"description" yaml:"description"`
	Technologies     List      `json:"technologies" yaml:"technologies"`
	Image            string    `json:"image" yaml:"image"`
	FeaturedImage    string    `json:"featured_image" yaml:"featured_image"`
	Gallery          List      `json:"gallery" yaml:"gallery"`
	LiveURL          string    `json:"live_url" yaml:"live_url"`
	GithubURL        string    `json:"github_url" yaml:"github_url"`
	Client           string    `json:"client" yaml:"client"`
	Year             string    `json:"year" yaml:"year"`
	Role             string    `json:"role" yaml:"role"`
	Challenge        string    `json:"challenge" yaml:"challenge"`
	Solution         string    `json:"solution" yaml:"solution"`
	NextProjectSlug  string    `json:"next_project_slug" yaml:"next_project_slug"`
	NextProjectTitle string    `json:"next_project_title" yaml:"next_project_title"`
	CreatedAt        time.Time `gorm:"index" json:"created_at" yaml:"-"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"-"`
}

func (Project) TableName() string { return "projects" }
func (p *Project) Key() int64 { return p.ID }
func (p *Project) SetKey(id int64) { p.ID = id }
func (*Project) ListOrder() string { return "created_at DESC, id DESC" }

// NextProject returns the linked follow-up project, if both link fields are set.
func (p Project) NextProject() (slug, title string, ok bool) {
	if p.NextProjectSlug == "" || p.NextProjectTitle == "" {
		return "", "", false
	}
	return p.NextProjectSlug, p.NextProjectTitle, true
}

type BlogPost struct {
	ID        int64     `gorm:"primaryKey" json:"id" yaml:"-"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug" yaml:"slug"`
	Title     string    `json:"title" yaml:"title"`
	Excerpt   string    `json:"excerpt" yaml:"excerpt"`
	Content   string    `json:"content" yaml:"content"`
	Image     string    `json:"image" yaml:"image"`
	Date      string    `json:"date" yaml:"date"`
	Category  string    `gorm:"index" json:"category" yaml:"category"`
	Author    string    `json:"author" yaml:"author"`
	MediumURL string    `json:"medium_url" yaml:"medium_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

func (BlogPost) TableName() string { return "blogs" }
func (b *BlogPost) Key() int64 { return b.ID }
func (b *BlogPost) SetKey(id int64) { b.ID = id }
func (*BlogPost) ListOrder() string { return "created_at DESC, id DESC" }

// Body is the HTML shown on the post page; posts without content fall back to the excerpt.
func (b BlogPost) Body() string {
	if b.Content != "" {
		return b.Content
	}
	return b.Excerpt
}

type Education struct {
	ID          int64     `gorm:"primaryKey" json:"id" yaml:"-"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug" yaml:"slug"`
	Degree      string    `json:"degree" yaml:"degree"`
	Institution string    `json:"institution" yaml:"institution"`
	Location    string    `json:"location" yaml:"location"`
	StartDate   string    `json:"start_date" yaml:"start_date"`
	EndDate     string    `json:"end_date" yaml:"end_date"`
	GPA         string    `gorm:"column:gpa" json:"gpa" yaml:"gpa"`
	Description string    `json:"description" yaml:"description"`
	OrderIndex  int       `gorm:"index" json:"order_index" yaml:"order_index"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

func (Education) TableName() string { return "education" }
func (e *Education) Key() int64 { return e.ID }
func (e *Education) SetKey(id int64) { e.ID = id }
func (*Education) ListOrder() string { return "order_index ASC, start_date DESC, id ASC" }

// Period renders the date range, with an open end shown as Present.
func (e Education) Period() string {
	end := e.EndDate
	if end == "" {
		end = "Present"
	}
	if e.StartDate == "" {
		return end
	}
	return e.StartDate + " - " + end
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
