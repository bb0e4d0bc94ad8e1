package content

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, List{"Go", "HTMX", "Tailwind CSS"}, SplitList(" Go, HTMX ,,Tailwind CSS, "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}

func TestListJoin(t *testing.T) {
	assert.Equal(t, "Go, gin", List{"Go", "gin"}.Join())
	assert.Equal(t, "", List(nil).Join())
	assert.Equal(t, List{"a", "b"}, SplitList(List{"a", "b"}.Join()))
}

func TestListValueScan(t *testing.T) {
	v, err := List{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = List(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l List
	require.NoError(t, l.Scan(`["x","y"]`))
	assert.Equal(t, List{"x", "y"}, l)

	require.NoError(t, l.Scan([]byte(`["z"]`)))
	assert.Equal(t, List{"z"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "bachelor-of-computer-science-wgu", Slugify("Bachelor of Computer Science, WGU"))
	assert.Equal(t, "go-htmx", Slugify("  Go + HTMX!! "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestEducationPeriod(t *testing.T) {
	assert.Equal(t, "2019 - 2023", Education{StartDate: "2019", EndDate: "2023"}.Period())
	assert.Equal(t, "2022 - Present", Education{StartDate: "2022"}.Period())
}

func TestBlogPostBody(t *testing.T) {
	assert.Equal(t, "<p>full</p>", BlogPost{Content: "<p>full</p>", Excerpt: "short"}.Body())
	assert.Equal(t, "short", BlogPost{Excerpt: "short"}.Body())
}

func TestProjectNextProject(t *testing.T) {
	_, _, ok := Project{NextProjectSlug: "mail"}.NextProject()
	assert.False(t, ok)

	slug, title, ok := Project{NextProjectSlug: "mail", NextProjectTitle: "Mail TUI"}.NextProject()
	assert.True(t, ok)
	assert.Equal(t, "mail", slug)
	assert.Equal(t, "Mail TUI", title)
}

func TestTransportErrorUnwrap(t *testing.T) {
	err := &TransportError{Op: "list projects", Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "list projects: unexpected EOF", err.Error())
}
