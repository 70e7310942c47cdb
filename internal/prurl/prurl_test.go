package prurl

import (
	"strings"
	"testing"

	"github.com/pders01/prlink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zodForm() models.FormState {
	return models.FormState{
		Org:        "colinhacks",
		Repo:       "zod",
		BaseBranch: "main",
		HeadBranch: "dev",
		Title:      "Add feature",
		Mode:       models.ModeBody,
		Body:       "Hello world",
	}
}

func TestDeriveIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		clear func(f *models.FormState)
	}{
		{"missing org", func(f *models.FormState) { f.Org = "" }},
		{"missing repo", func(f *models.FormState) { f.Repo = "" }},
		{"missing base", func(f *models.FormState) { f.BaseBranch = "" }},
		{"missing head", func(f *models.FormState) { f.HeadBranch = "" }},
		{"empty form", func(f *models.FormState) { *f = models.NewFormState() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := zodForm()
			tt.clear(&f)

			u, ok := Derive(f)
			assert.False(t, ok)
			assert.Empty(t, u)
		})
	}
}

func TestDeriveBody(t *testing.T) {
	u, ok := Derive(zodForm())
	require.True(t, ok)
	assert.Equal(t, "https://github.com/colinhacks/zod/compare/main...dev?expand=1&title=Add+feature&body=Hello+world", u)
}

func TestDeriveTemplate(t *testing.T) {
	f := zodForm()
	f.Mode = models.ModeTemplate
	f.Template = "custom_template.md"

	u, ok := Derive(f)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/colinhacks/zod/compare/main...dev?expand=1&title=Add+feature&template=custom_template.md", u)
	assert.NotContains(t, u, "body=")
}

func TestDeriveModeExclusive(t *testing.T) {
	f := zodForm()
	f.Template = "custom_template.md"
	f.Body = "Hello world"

	f.Mode = models.ModeBody
	u, ok := Derive(f)
	require.True(t, ok)
	assert.Contains(t, u, "&body=Hello+world")
	assert.NotContains(t, u, "template=")

	f.Mode = models.ModeTemplate
	u, ok = Derive(f)
	require.True(t, ok)
	assert.Contains(t, u, "&template=custom_template.md")
	assert.NotContains(t, u, "body=")
}

func TestDeriveOptionalFields(t *testing.T) {
	f := zodForm()
	f.Title = ""
	f.Body = ""

	u, ok := Derive(f)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/colinhacks/zod/compare/main...dev?expand=1", u)

	f.Mode = models.ModeTemplate
	u, ok = Derive(f)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/colinhacks/zod/compare/main...dev?expand=1", u)
}

func TestDeriveTitleEncoding(t *testing.T) {
	f := zodForm()
	f.Title = "fix: a&b = c?"
	f.Body = ""

	u, ok := Derive(f)
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(u, "title="))
	assert.True(t, strings.HasSuffix(u, "&title=fix%3A+a%26b+%3D+c%3F"), u)
}

func TestDeriveMultilineBody(t *testing.T) {
	f := zodForm()
	f.Title = ""
	f.Body = "# Some cool PR\n\nThis is a **very** cool PR."

	u, ok := Derive(f)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/colinhacks/zod/compare/main...dev?expand=1&body=%23+Some+cool+PR%0A%0AThis+is+a+%2A%2Avery%2A%2A+cool+PR.", u)
}

func TestDerivePathEscaping(t *testing.T) {
	tests := []struct {
		name string
		base string
		head string
		want string
	}{
		{
			name: "slashes in branch kept",
			base: "main",
			head: "feature/login",
			want: "https://github.com/colinhacks/zod/compare/main...feature/login?expand=1",
		},
		{
			name: "hash escaped",
			base: "release#2",
			head: "dev",
			want: "https://github.com/colinhacks/zod/compare/release%232...dev?expand=1",
		},
		{
			name: "space escaped",
			base: "main",
			head: "my branch",
			want: "https://github.com/colinhacks/zod/compare/main...my%20branch?expand=1",
		},
		{
			name: "question mark escaped",
			base: "main",
			head: "why?",
			want: "https://github.com/colinhacks/zod/compare/main...why%3F?expand=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := zodForm()
			f.Title = ""
			f.Body = ""
			f.BaseBranch = tt.base
			f.HeadBranch = tt.head

			u, ok := Derive(f)
			require.True(t, ok)
			assert.Equal(t, tt.want, u)
		})
	}
}

func TestDeriveDeterministic(t *testing.T) {
	f := zodForm()
	first, _ := Derive(f)
	for i := 0; i < 10; i++ {
		u, _ := Derive(f)
		assert.Equal(t, first, u)
	}
}

func TestDeriveUnreachableMode(t *testing.T) {
	f := zodForm()
	f.Mode = "markdown"

	assert.PanicsWithValue(t, models.UnreachableModeError{Mode: "markdown"}, func() {
		Derive(f)
	})
}

func TestDeriveIncompleteSkipsModeCheck(t *testing.T) {
	f := models.FormState{Mode: "bogus"}
	assert.NotPanics(t, func() {
		_, ok := Derive(f)
		assert.False(t, ok)
	})
}

func TestBookmarkTitle(t *testing.T) {
	f := zodForm()
	assert.Equal(t, "PR: Add feature", BookmarkTitle(f))

	f.Title = ""
	assert.Equal(t, "PR", BookmarkTitle(f))
}
