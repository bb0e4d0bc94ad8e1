package admin

import (
	"github.com/Zachkp/portfolio/internal/content"
)

// ProjectDraft is the editable projection of a project. List fields are
// edited as comma separated text.
type ProjectDraft struct {
	Title            string `yaml:"title"`
	Slug             string `yaml:"slug"`
	Description      string `yaml:"description"`
	Technologies     string `yaml:"technologies"`
	Image            string `yaml:"image"`
	FeaturedImage    string `yaml:"featured_image"`
	Gallery          string `yaml:"gallery"`
	LiveURL          string `yaml:"live_url"`
	GithubURL        string `yaml:"github_url"`
	Client           string `yaml:"client"`
	Year             string `yaml:"year"`
	Role             string `yaml:"role"`
	Challenge        string `yaml:"challenge"`
	Solution         string `yaml:"solution"`
	NextProjectSlug  string `yaml:"next_project_slug"`
	NextProjectTitle string `yaml:"next_project_title"`
}

var Projects = Shape[content.Project, ProjectDraft]{
	Name:     "project",
	Noun:     "project",
	Defaults: func() ProjectDraft { return ProjectDraft{} },
	Edit: func(p content.Project) ProjectDraft {
		return ProjectDraft{
			Title:            p.Title,
			Slug:             p.Slug,
			Description:      p.Description,
			Technologies:     p.Technologies.Join(),
			Image:            p.Image,
			FeaturedImage:    p.FeaturedImage,
			Gallery:          p.Gallery.Join(),
			LiveURL:          p.LiveURL,
			GithubURL:        p.GithubURL,
			Client:           p.Client,
			Year:             p.Year,
			Role:             p.Role,
			Challenge:        p.Challenge,
			Solution:         p.Solution,
			NextProjectSlug:  p.NextProjectSlug,
			NextProjectTitle: p.NextProjectTitle,
		}
	},
	Record: func(d ProjectDraft) content.Project {
		slug := d.Slug
		if slug == "" {
			slug = content.Slugify(d.Title)
		}
		return content.Project{
			Title:            d.Title,
			Slug:             slug,
			Description:      d.Description,
			Technologies:     content.SplitList(d.Technologies),
			Image:            d.Image,
			FeaturedImage:    d.FeaturedImage,
			Gallery:          content.SplitList(d.Gallery),
			LiveURL:          d.LiveURL,
			GithubURL:        d.GithubURL,
			Client:           d.Client,
			Year:             d.Year,
			Role:             d.Role,
			Challenge:        d.Challenge,
			Solution:         d.Solution,
			NextProjectSlug:  d.NextProjectSlug,
			NextProjectTitle: d.NextProjectTitle,
		}
	},
	ID: func(p content.Project) int64 { return p.ID },
}

type BlogDraft struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Excerpt   string `yaml:"excerpt"`
	Content   string `yaml:"content"`
	Image     string `yaml:"image"`
	Date      string `yaml:"date"`
	Category  string `yaml:"category"`
	Author    string `yaml:"author"`
	MediumURL string `yaml:"medium_url"`
}

var Blogs = Shape[content.BlogPost, BlogDraft]{
	Name:     "blog",
	Noun:     "blog post",
	Defaults: func() BlogDraft { return BlogDraft{Author: content.DefaultAuthor} },
	Edit: func(b content.BlogPost) BlogDraft {
		author := b.Author
		if author == "" {
			author = content.DefaultAuthor
		}
		return BlogDraft{
			Title:     b.Title,
			Slug:      b.Slug,
			Excerpt:   b.Excerpt,
			Content:   b.Content,
			Image:     b.Image,
			Date:      b.Date,
			Category:  b.Category,
			Author:    author,
			MediumURL: b.MediumURL,
		}
	},
	Record: func(d BlogDraft) content.BlogPost {
		slug := d.Slug
		if slug == "" {
			slug = content.Slugify(d.Title)
		}
		return content.BlogPost{
			Title:     d.Title,
			Slug:      slug,
			Excerpt:   d.Excerpt,
			Content:   d.Content,
			Image:     d.Image,
			Date:      d.Date,
			Category:  d.Category,
			Author:    d.Author,
			MediumURL: d.MediumURL,
		}
	},
	ID: func(b content.BlogPost) int64 { return b.ID },
}

type EducationDraft struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Location    string `yaml:"location"`
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
	GPA         string `yaml:"gpa"`
	Description string `yaml:"description"`
	OrderIndex  int    `yaml:"order_index"`
	Slug        string `yaml:"slug"`
}

var Education = Shape[content.Education, EducationDraft]{
	Name:     "education",
	Noun:     "education entry",
	Defaults: func() EducationDraft { return EducationDraft{} },
	Edit: func(e content.Education) EducationDraft {
		return EducationDraft{
			Degree:      e.Degree,
			Institution: e.Institution,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			GPA:         e.GPA,
			Description: e.Description,
			OrderIndex:  e.OrderIndex,
			Slug:        e.Slug,
		}
	},
	Record: func(d EducationDraft) content.Education {
		slug := d.Slug
		if slug == "" {
			slug = content.Slugify(d.Degree + " " + d.Institution)
		}
		return content.Education{
			Degree:      d.Degree,
			Institution: d.Institution,
			Location:    d.Location,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			GPA:         d.GPA,
			Description: d.Description,
			OrderIndex:  d.OrderIndex,
			Slug:        slug,
		}
	},
	ID: func(e content.Education) int64 { return e.ID },
}
