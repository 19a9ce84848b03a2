package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {

	// 'standard' middleware used for every request
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	// middleware specific to our dynamic application routes
	dynamicMiddleware := alice.New(app.session.Enable, app.noSurf, app.provide)

	mux := pat.New()
	mux.Get("/", dynamicMiddleware.ThenFunc(app.home))
	mux.Post("/locale", dynamicMiddleware.ThenFunc(app.setLocale))

	mux.Get("/ping", http.HandlerFunc(ping))

	fileServer := http.FileServer(http.Dir("./ui/static/"))
	mux.Get("/static/", http.StripPrefix("/static", fileServer))

	// standardMiddleware ↔ servemux ↔ dynamicMiddleware ↔ app handler
	return standardMiddleware.Then(mux)
}
