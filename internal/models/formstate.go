package models

import (
	"errors"
	"fmt"
)

// Mode selects which pull request content field is sent to GitHub
type Mode string

const (
	ModeTemplate Mode = "template"
	ModeBody     Mode = "body"
)

// DefaultMode is the mode a fresh form starts in
const DefaultMode = ModeBody

// ErrInvalidMode is returned when user input names an unknown mode
var ErrInvalidMode = errors.New("invalid mode")

// Modes lists every valid mode in display order
func Modes() []Mode {
	return []Mode{ModeTemplate, ModeBody}
}

// ParseMode converts user input into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTemplate, ModeBody:
		return Mode(s), nil
	case "":
		return DefaultMode, nil
	}
	return "", fmt.Errorf("%w: %q (must be: template, body)", ErrInvalidMode, s)
}

// UnreachableModeError is raised when a Mode outside the closed set reaches
// URL derivation. It always indicates a bug, never bad user input.
type UnreachableModeError struct {
	Mode Mode
}

func (e UnreachableModeError) Error() string {
	return fmt.Sprintf("unreachable mode: %q", string(e.Mode))
}

// FormState holds every field that drives pull request URL derivation
type FormState struct {
	Org        string `json:"org"`
	Repo       string `json:"repo"`
	BaseBranch string `json:"base_branch"`
	HeadBranch string `json:"head_branch"`
	Title      string `json:"title,omitempty"`
	Mode       Mode   `json:"mode"`
	Template   string `json:"template,omitempty"`
	Body       string `json:"body,omitempty"`
}

// NewFormState returns an empty form in the default mode
func NewFormState() FormState {
	return FormState{Mode: DefaultMode}
}

// Missing returns the names of required fields that are still empty
func (f FormState) Missing() []string {
	var missing []string
	if f.Org == "" {
		missing = append(missing, "org")
	}
	if f.Repo == "" {
		missing = append(missing, "repo")
	}
	if f.BaseBranch == "" {
		missing = append(missing, "base")
	}
	if f.HeadBranch == "" {
		missing = append(missing, "head")
	}
	return missing
}

// Complete reports whether all four endpoint fields are set
func (f FormState) Complete() bool {
	return len(f.Missing()) == 0
}
