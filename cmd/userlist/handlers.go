package main

import (
	"context"
	"net/http"

	"github.com/tullo/userlist/internal/locale"
	"github.com/tullo/userlist/internal/userlist"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"
)

// invalidDate is shown for creation timestamps that do not parse.
const invalidDate = "Invalid Date"

func ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// home mounts a user list view for the lifetime of the request and renders
// whatever state the one-shot fetch committed.
func (app *application) home(w http.ResponseWriter, r *http.Request) {

	// Bound the fetch, a slow user service renders as an error.
	ctx, cancel := context.WithTimeout(r.Context(), app.fetchTimeout)
	defer cancel()

	ctx, span := otel.Tracer("userlist").Start(ctx, "home")
	defer span.End()

	view := userlist.New(app.users)
	view.Mount(ctx)
	defer view.Unmount()

	// Wait on the request context only: the fetch itself gives up at the
	// deadline and commits that failure.
	if err := view.Wait(r.Context()); err != nil {
		span.AddEvent("Client Gone")
		app.log.Printf("home: request ended before users arrived: %v", err)
		return
	}

	state := view.Snapshot()
	span.SetAttributes(
		attribute.String("phase", state.Phase.String()),
		attribute.Int("users", len(state.Users)),
	)
	span.AddEvent("Render Home Page")

	app.render(w, r, "home.page.tmpl", &templateData{
		UserList: app.newUserListData(state, app.viewerLocale(r)),
	})
}

// setLocale stores the viewer's locale preference in the session.
func (app *application) setLocale(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	tag, ok := locale.Parse(r.PostForm.Get("locale"))
	if !ok {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	app.session.Put(r, "locale", tag.String())
	app.session.Put(r, "flash", "Language preference saved.")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// newUserListData turns view state into rows formatted for the viewer.
func (app *application) newUserListData(state userlist.State, tag language.Tag) *userListData {
	data := userListData{
		Phase: state.Phase,
		Error: state.Err,
	}
	if state.Phase == userlist.Failed {
		return &data
	}

	data.Rows = make([]userRow, 0, len(state.Users))
	for _, u := range state.Users {
		created := invalidDate
		if t, err := u.Created(); err == nil {
			created = app.locales.FormatDate(tag, t)
		}
		data.Rows = append(data.Rows, userRow{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Created: created,
		})
	}

	return &data
}
