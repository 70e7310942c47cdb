// Package prurl derives GitHub compare URLs that open the "new pull request"
// page with the title and content prefilled.
package prurl

import (
	"net/url"
	"strings"

	"github.com/pders01/prlink/internal/models"
)

// BaseURL is the GitHub web root every derived URL starts with
const BaseURL = "https://github.com"

// Content is the pull request content selected by the form mode. The set
// of variants is closed to this package.
type Content interface {
	encode(q *query)
}

// TemplateContent asks GitHub to prefill the body from a template file
type TemplateContent struct {
	Filename string
}

func (c TemplateContent) encode(q *query) {
	if c.Filename != "" {
		q.add("template", c.Filename)
	}
}

// BodyContent prefills the body with raw markdown
type BodyContent struct {
	Markdown string
}

func (c BodyContent) encode(q *query) {
	if c.Markdown != "" {
		q.add("body", c.Markdown)
	}
}

// ContentOf maps a form's mode onto its content variant. A mode outside the
// closed set panics with models.UnreachableModeError.
func ContentOf(f models.FormState) Content {
	switch f.Mode {
	case models.ModeTemplate:
		return TemplateContent{Filename: f.Template}
	case models.ModeBody:
		return BodyContent{Markdown: f.Body}
	}
	panic(models.UnreachableModeError{Mode: f.Mode})
}

// Derive builds the compare URL for a form. ok is false while any of the
// org, repo, base or head fields is empty.
func Derive(f models.FormState) (u string, ok bool) {
	if !f.Complete() {
		return "", false
	}

	var b strings.Builder
	b.WriteString(BaseURL)
	b.WriteByte('/')
	b.WriteString(url.PathEscape(f.Org))
	b.WriteByte('/')
	b.WriteString(url.PathEscape(f.Repo))
	b.WriteString("/compare/")
	b.WriteString(escapeBranch(f.BaseBranch))
	b.WriteString("...")
	b.WriteString(escapeBranch(f.HeadBranch))

	q := &query{}
	q.add("expand", "1")
	if f.Title != "" {
		q.add("title", f.Title)
	}
	ContentOf(f).encode(q)

	b.WriteByte('?')
	b.WriteString(q.encode())

	return b.String(), true
}

// BookmarkTitle is the link text used when the URL is dragged to bookmarks
func BookmarkTitle(f models.FormState) string {
	if f.Title == "" {
		return "PR"
	}
	return "PR: " + f.Title
}

// escapeBranch escapes each segment of a branch name, keeping "/" so that
// names like feature/login resolve on GitHub.
func escapeBranch(branch string) string {
	segments := strings.Split(branch, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

type param struct {
	key, value string
}

// query keeps parameters in insertion order; url.Values sorts by key
type query struct {
	params []param
}

func (q *query) add(key, value string) {
	q.params = append(q.params, param{key: key, value: value})
}

func (q *query) encode() string {
	parts := make([]string, 0, len(q.params))
	for _, p := range q.params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}
