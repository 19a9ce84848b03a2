// Package locale resolves the viewer's locale and formats dates by its
// conventions.
package locale

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supported lists the locales with a known date layout.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Japanese,
	language.BrazilianPortuguese,
}

// Numeric date-only layouts.
var dateLayouts = map[language.Tag]string{
	language.AmericanEnglish:     "1/2/2006",
	language.BritishEnglish:      "02/01/2006",
	language.German:              "2.1.2006",
	language.French:              "02/01/2006",
	language.Spanish:             "2/1/2006",
	language.Japanese:            "2006/1/2",
	language.BrazilianPortuguese: "02/01/2006",
}

// Option is a selectable locale.
type Option struct {
	Tag    string
	Label  string
	Active bool
}

// Parse returns the supported locale named by s.
func Parse(s string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return language.Und, false
	}
	for _, t := range supported {
		if t == tag {
			return t, true
		}
	}
	return language.Und, false
}

// Options returns the supported locales labelled in their own language.
func Options(active language.Tag) []Option {
	opts := make([]Option, 0, len(supported))
	for _, tag := range supported {
		label := display.Self.Name(tag)
		if label == "" {
			label = tag.String()
		}
		opts = append(opts, Option{
			Tag:    tag.String(),
			Label:  label,
			Active: tag == active,
		})
	}
	return opts
}

// Resolver picks a locale per request and formats dates in a fixed zone.
type Resolver struct {
	fallback language.Tag
	matcher  language.Matcher
	tags     []language.Tag
	location *time.Location
}

// NewResolver returns a Resolver falling back to the named locale and
// rendering dates in the named IANA time zone.
func NewResolver(fallback, timeZone string) (*Resolver, error) {
	tag, ok := Parse(fallback)
	if !ok {
		return nil, errors.Errorf("unsupported locale %q", fallback)
	}

	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading time zone %q", timeZone)
	}

	// The matcher falls back to its first tag.
	tags := []language.Tag{tag}
	for _, t := range supported {
		if t != tag {
			tags = append(tags, t)
		}
	}

	r := Resolver{
		fallback: tag,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		location: loc,
	}
	return &r, nil
}

// Fallback returns the locale used when nothing else matches.
func (r *Resolver) Fallback() language.Tag {
	return r.fallback
}

// Resolve picks the locale for a viewer: an explicit preference first,
// then the Accept-Language header.
func (r *Resolver) Resolve(preference, acceptLanguage string) language.Tag {
	if tag, ok := Parse(preference); ok {
		return tag
	}

	accept := strings.TrimSpace(acceptLanguage)
	if accept == "" {
		return r.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return r.fallback
	}

	_, index, confidence := r.matcher.Match(prefs...)
	if confidence == language.No {
		return r.fallback
	}
	return r.tags[index]
}

// FormatDate renders the date part of t by the conventions of tag.
func (r *Resolver) FormatDate(tag language.Tag, t time.Time) string {
	layout, ok := dateLayouts[tag]
	if !ok {
		layout = dateLayouts[r.fallback]
	}
	return t.In(r.location).Format(layout)
}
