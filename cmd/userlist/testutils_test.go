package main

import (
	"html"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golangcollege/sessions"
	"github.com/tullo/userlist/internal/locale"
	"github.com/tullo/userlist/internal/user"
)

// Capture the CSRF token value from the HTML page
var csrfTokenRX = regexp.MustCompile(`<input type='hidden' name='csrf_token' value='(.+)'>`)

func extractCSRFToken(t *testing.T, body []byte) string {
	// extract the token from the HTML body
	matches := csrfTokenRX.FindSubmatch(body)
	// expecting an array with at least two entries (matched pattern & captured data)
	if len(matches) < 2 {
		t.Fatal("No csrf token found in body")
	}

	// unescape the rendered and html escaped base64 encoded string value
	return html.UnescapeString(string(matches[1]))
}

// newTestApplication creates an application struct with mock loggers,
// reading users from the service at usersURL.
func newTestApplication(t *testing.T, usersURL string) *application {
	// Initialize template cache.
	templateCache, err := newTemplateCache("./../../ui/html/")
	if err != nil {
		t.Fatal(err)
	}

	locales, err := locale.NewResolver("en-US", "UTC")
	if err != nil {
		t.Fatal(err)
	}

	// Session manager instance that mirrors production settings.
	// Sample generation of secret bytes 'openssl rand -base64 32'.
	session := sessions.New([]byte("zBtjT1J8wWrvUCuEZf+YbBa41nKYlCKiNLeS5AGdmiQ="))
	// sessions expire after 12 hours
	session.Lifetime = 12 * time.Hour
	// Set the secure flag on session cookies.
	session.Secure = true
	// Mitigate cross site request forgry (CSRF).
	session.SameSite = http.SameSiteStrictMode

	// App struct instantiation using mocks for loggers.
	app := application{
		debug:         true,
		fetchTimeout:  2 * time.Second,
		locales:       locales,
		log:           log.New(io.Discard, "", 0),
		session:       session,
		shutdown:      make(chan os.Signal, 1),
		templateCache: templateCache,
		useTLS:        true,
		users:         user.NewClient(usersURL, newClient()),
	}

	return &app
}

// userService is a stub of the user listing API.
type userService struct {
	*httptest.Server
	calls int32
}

// newUserService answers every listing with status and body.
func newUserService(t *testing.T, status int, body string) *userService {
	us := userService{}
	us.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&us.calls, 1)
		if r.URL.Path != user.ListPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(us.Close)

	return &us
}

func (us *userService) requests() int {
	return int(atomic.LoadInt32(&us.calls))
}

type testServer struct {
	*httptest.Server
}

// newTestServer initalizes and returns a new instance of testServer
func newTestServer(t *testing.T, h http.Handler) *testServer {

	// spinup a https server for the duration of the test
	ts := httptest.NewUnstartedServer(h)
	ts.EnableHTTP2 = true
	ts.StartTLS()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	// add the cookie jar to the client, so that response cookies are stored
	// and then sent with subsequent requests
	ts.Client().Jar = jar

	// disabling the default behaviour for redirect-following for the client
	// returning the error forces it to immediately return the received response
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &testServer{ts}
}

// get performs a GET request to a given url path on the test server
func (ts *testServer) get(t *testing.T, urlPath string) (int, http.Header, []byte) {
	req, err := http.NewRequest(http.MethodGet, ts.URL+urlPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	return ts.clientDo(t, req)
}

// postForm sends a same-origin POST request to the test server
func (ts *testServer) postForm(t *testing.T, urlPath string, form url.Values) (int, http.Header, []byte) {
	req, err := http.NewRequest(http.MethodPost, ts.URL+urlPath, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", ts.URL)
	req.Header.Set("Referer", ts.URL+"/")

	return ts.clientDo(t, req)
}

func (ts *testServer) clientDo(t *testing.T, r *http.Request) (int, http.Header, []byte) {
	rs, err := ts.Client().Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatal(err)
	}

	return rs.StatusCode, rs.Header, body
}
