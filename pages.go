package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/Zachkp/portfolio/internal/view"
)

const (
	homeProjects = 4
	homePosts    = 3
	relatedPosts = 3
)

// render adds the navigation every page shares.
func (s *site) render(c *gin.Context, status int, name string, data gin.H) {
	path := c.Request.URL.Path
	data["menu"] = nav.Menu(path)
	data["footer"] = nav.Footer(path)
	data["year"] = time.Now().Year()
	c.HTML(status, name, data)
}

func (s *site) failed(c *gin.Context, err error) {
	logger.Error("failed to load page", "path", c.Request.URL.Path, "error", err)
	s.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Error",
		"message": view.MessageFailed,
		"retry":   c.Request.URL.RequestURI(),
	})
}

func (s *site) notFound(c *gin.Context, back string) {
	s.render(c, http.StatusNotFound, "not-found.html", gin.H{
		"title":   "Not Found",
		"message": view.MessageNotFound,
		"back":    back,
	})
}

func (s *site) setupPageRoutes(r gin.IRouter) {
	r.GET(nav.MustPath("home"), s.home)
	r.GET(nav.MustPath("projects"), s.projects)
	r.GET("/projects/:slug", s.project)
	r.GET(nav.MustPath("blog"), s.blog)
	r.GET("/blog/:slug", s.post)
	r.GET(nav.MustPath("education"), s.education)
	r.GET("/privacy", func(c *gin.Context) {
		s.render(c, http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})
}

func (s *site) home(c *gin.Context) {
	ctx := c.Request.Context()
	projects := view.NewList[content.Project](s.store.Projects()).Mount(ctx, content.Query{Limit: homeProjects})
	if projects.Phase == view.PhaseError {
		s.failed(c, projects.Err)
		return
	}
	posts := view.NewList[content.BlogPost](s.store.Blogs()).Mount(ctx, content.Query{Limit: homePosts})
	if posts.Phase == view.PhaseError {
		s.failed(c, posts.Err)
		return
	}

	s.render(c, http.StatusOK, "index.html", gin.H{
		"title":    "Home",
		"tagline":  Tagline,
		"aboutMe":  AboutMe,
		"skills":   Skills,
		"projects": projects.Items,
		"posts":    posts.Items,
	})
}

func (s *site) projects(c *gin.Context) {
	st := view.NewList[content.Project](s.store.Projects()).Mount(c.Request.Context(), content.Query{})
	if st.Phase == view.PhaseError {
		s.failed(c, st.Err)
		return
	}
	s.render(c, http.StatusOK, "projects.html", gin.H{
		"title":    "Projects",
		"projects": st.Items,
	})
}

func (s *site) project(c *gin.Context) {
	st := view.NewDetail[content.Project](s.store.Projects()).Show(c.Request.Context(), c.Param("slug"))
	switch {
	case st.NotFound():
		s.notFound(c, nav.MustPath("projects"))
		return
	case st.Phase == view.PhaseError:
		s.failed(c, st.Err)
		return
	}

	data := gin.H{
		"title":   st.Item.Title,
		"project": st.Item,
	}
	if slug, title, ok := st.Item.NextProject(); ok {
		data["nextHref"] = nav.MustPath("project", slug)
		data["nextTitle"] = title
	}
	s.render(c, http.StatusOK, "project.html", data)
}

func (s *site) blog(c *gin.Context) {
	q := content.Query{Category: c.Query("category")}
	st := view.NewList[content.BlogPost](s.store.Blogs()).Mount(c.Request.Context(), q)
	if st.Phase == view.PhaseError {
		s.failed(c, st.Err)
		return
	}
	s.render(c, http.StatusOK, "blog.html", gin.H{
		"title":    "Blog",
		"posts":    st.Items,
		"category": q.Category,
	})
}

func (s *site) post(c *gin.Context) {
	ctx := c.Request.Context()
	st := view.NewDetail[content.BlogPost](s.store.Blogs()).Show(ctx, c.Param("slug"))
	switch {
	case st.NotFound():
		s.notFound(c, nav.MustPath("blog"))
		return
	case st.Phase == view.PhaseError:
		s.failed(c, st.Err)
		return
	}
	post := st.Item

	var related []content.BlogPost
	if post.Category != "" {
		rel := view.NewList[content.BlogPost](s.store.Blogs()).Mount(ctx, content.Query{
			Category:    post.Category,
			ExcludeSlug: post.Slug,
			Limit:       relatedPosts,
		})
		if rel.Phase == view.PhaseError {
			// The post itself loaded; render it without the sidebar.
			logger.Warn("failed to load related posts", "slug", post.Slug, "error", rel.Err)
		}
		related = rel.Items
	}

	s.render(c, http.StatusOK, "post.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"body":    post.Body(),
		"related": related,
	})
}

func (s *site) education(c *gin.Context) {
	st := view.NewList[content.Education](s.store.Education()).Mount(c.Request.Context(), content.Query{})
	if st.Phase == view.PhaseError {
		s.failed(c, st.Err)
		return
	}
	s.render(c, http.StatusOK, "education.html", gin.H{
		"title":     "Education",
		"education": st.Items,
	})
}
