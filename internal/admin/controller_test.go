package admin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/view"
)

// fakeCollection records every call made by the controller.
type fakeCollection struct {
	items []content.Project

	listCalls  int
	inserted   []content.Project
	updated    map[int64]content.Project
	deleted    []int64
	failInsert error
	failDelete error
	failUpdate error
}

func (f *fakeCollection) List(ctx context.Context, q content.Query) ([]content.Project, error) {
	f.listCalls++
	out := make([]content.Project, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeCollection) BySlug(ctx context.Context, slug string) (content.Project, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Project{}, content.ErrNotFound
}

func (f *fakeCollection) Insert(ctx context.Context, p content.Project) (content.Project, error) {
	if f.failInsert != nil {
		return content.Project{}, f.failInsert
	}
	f.inserted = append(f.inserted, p)
	p.ID = int64(len(f.items) + 1)
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeCollection) Update(ctx context.Context, id int64, p content.Project) (content.Project, error) {
	if f.failUpdate != nil {
		return content.Project{}, f.failUpdate
	}
	if f.updated == nil {
		f.updated = map[int64]content.Project{}
	}
	f.updated[id] = p
	return p, nil
}

func (f *fakeCollection) Delete(ctx context.Context, id int64) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type recorder struct {
	prompts []string
	alerts  []string
	answer  bool
}

func (r *recorder) Confirm(prompt string) bool {
	r.prompts = append(r.prompts, prompt)
	return r.answer
}

func (r *recorder) Alert(msg string) {
	r.alerts = append(r.alerts, msg)
}

func newProjects(t *testing.T, coll *fakeCollection, rec *recorder) *Controller[content.Project, ProjectDraft] {
	t.Helper()
	c := New[content.Project, ProjectDraft](coll, Projects, rec, rec)
	st := c.Refresh(context.Background())
	require.Equal(t, view.PhaseReady, st.Phase)
	coll.listCalls = 0
	return c
}

func TestSaveAfterBeginCreate(t *testing.T) {
	coll := &fakeCollection{}
	rec := &recorder{}
	c := newProjects(t, coll, rec)

	c.BeginCreate()
	assert.Equal(t, ModeCreating, c.Draft().Mode)

	fields := c.Fields()
	fields.Title = "A"
	fields.Slug = "a"
	c.Set(fields)

	require.NoError(t, c.Save(context.Background()))

	require.Len(t, coll.inserted, 1, "exactly one insert")
	assert.Equal(t, "A", coll.inserted[0].Title)
	assert.Equal(t, "a", coll.inserted[0].Slug)
	assert.Equal(t, 1, coll.listCalls, "exactly one re-fetch")
	assert.Equal(t, ModeNone, c.Draft().Mode)
	assert.Equal(t, ProjectDraft{}, c.Fields(), "fields reset to defaults")
	assert.Len(t, c.List().Items, 1)
	assert.Empty(t, rec.alerts)
}

func TestEditThenCancelLeavesListUntouched(t *testing.T) {
	coll := &fakeCollection{items: []content.Project{
		{ID: 1, Slug: "one", Title: "One", Technologies: content.List{"Go"}},
		{ID: 2, Slug: "two", Title: "Two"},
	}}
	rec := &recorder{}
	c := newProjects(t, coll, rec)

	before := c.List()
	c.BeginEdit(before.Items[0])
	assert.Equal(t, ModeEditing, c.Draft().Mode)
	assert.Equal(t, int64(1), c.Draft().TargetID)
	assert.Equal(t, "Go", c.Fields().Technologies)

	c.Cancel()

	assert.True(t, reflect.DeepEqual(before, c.List()))
	assert.Equal(t, ModeNone, c.Draft().Mode)
	assert.Zero(t, coll.listCalls)
	assert.Empty(t, coll.inserted)
	assert.Empty(t, coll.updated)
	assert.Empty(t, coll.deleted)
}

func TestSaveEditUpdatesByID(t *testing.T) {
	coll := &fakeCollection{items: []content.Project{
		{ID: 5, Slug: "five", Technologies: content.List{"Go", "gin"}},
	}}
	c := newProjects(t, coll, &recorder{})

	c.BeginEdit(coll.items[0])
	f := c.Fields()
	f.Technologies = "Go, , htmx ,"
	c.Set(f)
	require.NoError(t, c.Save(context.Background()))

	require.Contains(t, coll.updated, int64(5))
	assert.Equal(t, content.List{"Go", "htmx"}, coll.updated[5].Technologies)
	assert.Equal(t, 1, coll.listCalls)
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	coll := &fakeCollection{failInsert: &content.TransportError{Op: "insert projects", Err: errors.New("boom")}}
	rec := &recorder{}
	c := newProjects(t, coll, rec)

	c.BeginCreate()
	c.Set(ProjectDraft{Title: "A", Slug: "a"})
	err := c.Save(context.Background())

	var transport *content.TransportError
	assert.ErrorAs(t, err, &transport)
	require.Len(t, rec.alerts, 1)
	assert.Equal(t, "Error saving project: insert projects: boom", rec.alerts[0])
	assert.Equal(t, ModeCreating, c.Draft().Mode)
	assert.Equal(t, "A", c.Fields().Title)
	assert.Zero(t, coll.listCalls)
}

func TestSaveWithoutDraft(t *testing.T) {
	coll := &fakeCollection{}
	c := newProjects(t, coll, &recorder{})

	assert.ErrorIs(t, c.Save(context.Background()), ErrNothingToSave)
	assert.Empty(t, coll.inserted)
}

func TestRemoveDeclined(t *testing.T) {
	coll := &fakeCollection{items: []content.Project{{ID: 7, Slug: "seven"}}}
	rec := &recorder{answer: false}
	c := newProjects(t, coll, rec)
	before := c.List()

	ok, err := c.Remove(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, coll.deleted, "zero delete calls")
	assert.Zero(t, coll.listCalls)
	assert.Equal(t, before, c.List())
	assert.Equal(t, []string{"Are you sure you want to delete this project?"}, rec.prompts)
}

func TestRemoveAccepted(t *testing.T) {
	coll := &fakeCollection{items: []content.Project{{ID: 7, Slug: "seven"}}}
	rec := &recorder{answer: true}
	c := newProjects(t, coll, rec)

	ok, err := c.Remove(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{7}, coll.deleted, "exactly one delete with id 7")
	assert.Equal(t, 1, coll.listCalls, "followed by one re-fetch")
}

func TestRemoveFailureLeavesListUnchanged(t *testing.T) {
	coll := &fakeCollection{
		items:      []content.Project{{ID: 7, Slug: "seven"}},
		failDelete: content.ErrNotFound,
	}
	rec := &recorder{answer: true}
	c := newProjects(t, coll, rec)
	before := c.List()

	ok, err := c.Remove(context.Background(), 7)
	assert.False(t, ok)
	assert.ErrorIs(t, err, content.ErrNotFound)
	assert.Equal(t, before, c.List())
	assert.Zero(t, coll.listCalls)
	require.Len(t, rec.alerts, 1)
	assert.Contains(t, rec.alerts[0], "Error deleting project")
}

func TestBeginCreateDiscardsPreviousDraft(t *testing.T) {
	c := New[content.BlogPost, BlogDraft](nil, Blogs, ConfirmFunc(func(string) bool { return true }), AlertFunc(func(string) {}))

	c.BeginCreate()
	c.Set(BlogDraft{Title: "unsaved"})
	c.BeginCreate()

	assert.Equal(t, BlogDraft{Author: content.DefaultAuthor}, c.Fields())
}

func TestSetIgnoredWithoutDraft(t *testing.T) {
	c := New[content.Education, EducationDraft](nil, Education, nil, nil)

	c.Set(EducationDraft{Degree: "BSc"})
	assert.Equal(t, EducationDraft{}, c.Fields())
}

func TestSaveDerivesMissingSlug(t *testing.T) {
	coll := &fakeCollection{}
	rec := &recorder{}
	c := newProjects(t, coll, rec)

	c.BeginCreate()
	c.Set(ProjectDraft{Title: "Mail TUI"})
	require.NoError(t, c.Save(context.Background()))

	require.Len(t, coll.inserted, 1)
	assert.Equal(t, "mail-tui", coll.inserted[0].Slug)
}

func TestRecordKeepsTypedSlug(t *testing.T) {
	assert.Equal(t, "custom", Projects.Record(ProjectDraft{Title: "Mail TUI", Slug: "custom"}).Slug)
	assert.Equal(t, "hello-world", Blogs.Record(BlogDraft{Title: "Hello, World!"}).Slug)
	assert.Equal(t, "kept", Blogs.Record(BlogDraft{Title: "Hello", Slug: "kept"}).Slug)
}
