package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/justinas/nosurf"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")

		next.ServeHTTP(w, r)
	})
}

// noSurf uses a customized CSRF cookie with the Secure, Path and HttpOnly flags set
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.ExemptPaths("/ping")
	csrfHandler.SetBaseCookie(http.Cookie{
		Domain:   "",
		HttpOnly: true,
		MaxAge:   24 * 60 * 60, // 24 hours
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Secure:   app.useTLS, // for transport over https
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		app.log.Println("CSRF failure:", nosurf.Reason(r))
	}))

	return csrfHandler
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.log.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())

		next.ServeHTTP(w, r)
	})
}

// recoverPanic recovers the panic and logs the cause
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// called last on the way up in the middleware chain while Go unwinds the stack
		defer func() {
			// check if there has been a panic or not
			if err := recover(); err != nil {
				// trigger the Go server to automatically close the current connection
				// after a response has been sent.
				w.Header().Set("Connection", "close")
				// format error with default textual representation
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// provide establishes the context shared by every page of the
// application: the viewer's locale, from the session preference or the
// Accept-Language header.
func (app *application) provide(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		preference := app.session.GetString(r, "locale")
		tag := app.locales.Resolve(preference, r.Header.Get("Accept-Language"))

		// add key/value pair to the request context - to be used further down the chain
		ctx := context.WithValue(r.Context(), contextKeyLocale, tag)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
