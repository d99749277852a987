package domain

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validator decides whether a value is structurally fit to be cached or served.
type Validator[T any] interface {
	Validate(v T) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc[T any] func(v T) error

func (f ValidatorFunc[T]) Validate(v T) error {
	return f(v)
}

// Section is one heading of an outline.
type Section struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Outline is the planned structure of a piece of content.
type Outline struct {
	Title    string    `json:"title"`
	Keyword  string    `json:"keyword,omitempty"`
	Sections []Section `json:"sections"`
}

// Content is a generated article ready to publish.
type Content struct {
	Title           string `json:"title"`
	HTMLBody        string `json:"html_body"`
	MetaDescription string `json:"meta_description,omitempty"`
	Keyword         string `json:"keyword,omitempty"`
}

var ErrMissingSections = errors.New("sections are required")

func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
	)
}

// Validate checks the outline has a title and a present, well-formed section list.
// An empty section list is allowed; a nil one is not.
func (o Outline) Validate() error {
	if o.Sections == nil {
		return validation.Errors{"sections": ErrMissingSections}
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.Title, validation.Required),
		validation.Field(&o.Sections),
	)
}

// Validate checks the content has a title and a body.
func (c Content) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.HTMLBody, validation.Required),
	)
}

// OutlineValidator validates outlines with Outline.Validate.
var OutlineValidator Validator[Outline] = ValidatorFunc[Outline](func(o Outline) error { return o.Validate() })

// ContentValidator validates content with Content.Validate.
var ContentValidator Validator[Content] = ValidatorFunc[Content](func(c Content) error { return c.Validate() })
