package main

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/justinas/nosurf"
	"github.com/tullo/userlist/internal/locale"
	"golang.org/x/text/language"
)

func newClient() *http.Client {
	var client http.Client
	t := http.DefaultTransport.(*http.Transport)
	client.Transport = t.Clone()
	return &client
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	// go one step back in the stack trace to get the file name and line number
	app.log.Output(2, trace)

	// when running in debug mode,
	// write detailed errors and stack traces to the http response
	if app.debug {
		http.Error(w, trace, http.StatusInternalServerError)
		return
	}

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) addDefaultData(td *templateData, r *http.Request) *templateData {
	if td == nil {
		td = &templateData{}
	}
	td.CurrentYear = time.Now().Year()
	td.Version = build

	// add CSRF token to the template data
	td.CSRFToken = nosurf.Token(r)

	// retrieve the value for the flash key and delete the key in one step
	// add flash message to the template data
	td.Flash = app.session.PopString(r, "flash")

	// add the shared viewer locale to the template data
	tag := app.viewerLocale(r)
	td.Locale = tag.String()
	td.Locales = locale.Options(tag)

	return td
}

// viewerLocale returns the locale bound to the request by provide.
func (app *application) viewerLocale(r *http.Request) language.Tag {
	tag, ok := r.Context().Value(contextKeyLocale).(language.Tag)
	if !ok {
		// key not found in ctx, or value was not a tag
		return app.locales.Fallback()
	}
	return tag
}

func (app *application) render(w http.ResponseWriter, r *http.Request, name string, data *templateData) {
	ts, ok := app.templateCache[name]
	if !ok {
		app.serverError(w, fmt.Errorf("the template %s does not exist", name))
		app.SignalShutdown()
		return
	}

	// stage 1: write template into buffer
	buf := new(bytes.Buffer)
	err := ts.Execute(buf, app.addDefaultData(data, r))
	if err != nil {
		app.serverError(w, err)
		return
	}

	// stage 2: write rendered content
	buf.WriteTo(w)
}
