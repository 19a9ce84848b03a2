package main

import (
	"html/template"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tullo/userlist/internal/locale"
	"github.com/tullo/userlist/internal/userlist"
)

// templateData holds the dynamic data passed to the html templates.
type templateData struct {
	CSRFToken   string
	CurrentYear int
	Flash       string
	Locale      string
	Locales     []locale.Option
	UserList    *userListData
	Version     string
}

type userListData struct {
	Phase userlist.Phase
	Error string
	Rows  []userRow
}

// Failed reports whether only the error line is rendered.
func (d *userListData) Failed() bool {
	return d.Phase == userlist.Failed
}

// Pending reports whether the fetch has not resolved yet.
func (d *userListData) Pending() bool {
	return d.Phase == userlist.Idle || d.Phase == userlist.Loading
}

type userRow struct {
	ID      string
	Name    string
	Email   string
	Created string
}

func newTemplateCache(dir string) (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	// all 'page' templates for the application
	pages, err := filepath.Glob(filepath.Join(dir, "*.page.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, errors.Errorf("no page templates found in %s", dir)
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).ParseFiles(page)
		if err != nil {
			return nil, err
		}

		// add the 'layout' templates to the template set
		ts, err = ts.ParseGlob(filepath.Join(dir, "*.layout.tmpl"))
		if err != nil {
			return nil, err
		}

		// add the 'partial' templates to the template set
		ts, err = ts.ParseGlob(filepath.Join(dir, "*.partial.tmpl"))
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}
