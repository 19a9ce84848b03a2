package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golangcollege/sessions"
	"github.com/pkg/errors"
	"github.com/tullo/conf"
	"github.com/tullo/userlist/internal/locale"
	"github.com/tullo/userlist/internal/user"
	"github.com/tullo/userlist/internal/userlist"
	"github.com/tullo/userlist/tracer"
)

// build is the git version of this application. It is set using build flags in the makefile.
var build = "develop"

// the key must be unexported type to avoid collisions
type contextKey string

const contextKeyLocale = contextKey("locale")

// define the interfaces inline to keep the code simple
type application struct {
	debug         bool
	fetchTimeout  time.Duration
	locales       *locale.Resolver
	log           *log.Logger
	session       *sessions.Session
	shutdown      chan os.Signal
	templateCache map[string]*template.Template
	useTLS        bool
	users         userlist.Fetcher
}

// SignalShutdown is used to gracefully shutdown the app when an integrity
// issue is identified.
func (a *application) SignalShutdown() {
	select {
	case a.shutdown <- syscall.SIGSTOP:
	default:
	}
}

func main() {
	if err := run(); err != nil {
		log.Printf("error: %s", err)
		os.Exit(1)
	}
}

func run() error {

	// =========================================================================
	// Configuration

	// session secret (should be 32 bytes long) is used to encrypt and authenticate session cookies
	// e.g. 'openssl rand -base64 32'

	var cfg struct {
		conf.Version
		Web struct {
			Host            string        `conf:"default::4200"`
			DebugMode       bool          `conf:"default:false"`
			EnableTLS       bool          `conf:"default:false"`
			SessionSecret   string        `conf:"noprint,default:M+ZrbJjvTLvXOvihe+Rjlr/ccfGjmFReGtLcV7gSufg="`
			TemplateDir     string        `conf:"default:./ui/html/"`
			IdleTimeout     time.Duration `conf:"default:1m"`
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			ShutdownTimeout time.Duration `conf:"default:5s"`
		}
		Users struct {
			BaseURL      string        `conf:"default:http://localhost:8080"`
			FetchTimeout time.Duration `conf:"default:5s"`
		}
		Locale struct {
			Default  string `conf:"default:en-US"`
			TimeZone string `conf:"default:UTC"`
		}
		Zipkin struct {
			ReporterURI string
			ServiceName string  `conf:"default:userlist"`
			Probability float64 `conf:"default:0.05"`
		}
	}
	cfg.Version.Version = build
	cfg.Version.Description = "copyright information here"

	if err := conf.Parse(os.Args[1:], "USERLIST", &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, err := conf.Usage("USERLIST", &cfg)
			if err != nil {
				return errors.Wrap(err, "generating usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "error: parsing config")
	}

	if len(cfg.Web.SessionSecret) == 0 {
		return errors.New("session secret cannot be empty")
	}

	// =========================================================================
	// Start Web Application

	log := log.New(os.Stdout, "USERLIST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	log.Printf("main: Started : Application initializing : version %q", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return errors.Wrap(err, "generating config for output")
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Tracing Support

	if cfg.Zipkin.ReporterURI != "" {
		log.Println("main: Initializing zipkin tracing support")

		shutdownTracer, err := tracer.Init(cfg.Zipkin.ServiceName, cfg.Zipkin.ReporterURI, cfg.Zipkin.Probability, log)
		if err != nil {
			return errors.Wrap(err, "starting tracer")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				log.Printf("main: Tracer shutdown : %v", err)
			}
		}()
	}

	// initialize template cache
	templateCache, err := newTemplateCache(cfg.Web.TemplateDir)
	if err != nil {
		return errors.Wrap(err, "loading templates")
	}

	locales, err := locale.NewResolver(cfg.Locale.Default, cfg.Locale.TimeZone)
	if err != nil {
		return errors.Wrap(err, "configuring locales")
	}

	// sessions expire after 12 hours
	session := sessions.New([]byte(cfg.Web.SessionSecret))
	session.Lifetime = 12 * time.Hour
	// set the secure flag on session cookies and
	// serve all requests over https in production environment
	session.Secure = cfg.Web.EnableTLS
	session.SameSite = http.SameSiteStrictMode

	// make a channel to listen for an interrupt or terminate signal from the OS.
	// use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := &application{
		debug:         cfg.Web.DebugMode,
		fetchTimeout:  cfg.Users.FetchTimeout,
		locales:       locales,
		log:           log,
		session:       session,
		shutdown:      shutdown,
		templateCache: templateCache,
		useTLS:        cfg.Web.EnableTLS,
		users:         user.NewClient(cfg.Users.BaseURL, newClient()),
	}

	// use Go’s favored cipher suites (support for forward secrecy)
	// and elliptic curves that are performant under heavy loads
	tlsConfig := &tls.Config{
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         cfg.Web.Host,
		ErrorLog:     log,
		Handler:      app.routes(),
		TLSConfig:    tlsConfig,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Start the application listening for requests.
	go func() {
		log.Printf("Starting server on %s", cfg.Web.Host)
		if app.useTLS {
			serverErrors <- srv.ListenAndServeTLS("./tls/localhost/cert.pem", "./tls/localhost/key.pem")
			return
		}
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		log.Printf("main : %v : Start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Trigger graceful shutdown of the server, listeners.
		err := srv.Shutdown(ctx)
		if err != nil {
			log.Printf("main : Graceful shutdown did not complete in %v : %v", cfg.Web.ShutdownTimeout, err)
			err = srv.Close()
		}

		// Log the status of this shutdown.
		switch {
		case sig == syscall.SIGSTOP:
			return errors.New("integrity issue caused shutdown")
		case err != nil:
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}

	return nil
}
