package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

// ListPath is the user listing endpoint relative to the service base URL.
const ListPath = "/api/v1/users"

// ErrListFailed is returned when the user service answers with a
// non-success status. The response body is not interpreted.
var ErrListFailed = errors.New("failed to retrieve user list")

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client reads users from the user service.
type Client struct {
	baseURL string
	doer    Doer
}

// NewClient constructs a Client for the service at baseURL.
func NewClient(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
	}
}

// List retrieves all users in the order the service returns them.
func (c *Client) List(ctx context.Context) ([]User, error) {
	url := c.baseURL + ListPath

	ctx, span := otel.Tracer("userlist/user").Start(ctx, "user.List")
	defer span.End()

	span.SetAttributes(attribute.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.SetStatus(codes.Error, "failure creating request")
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	// Do will handle the context level timeout.
	resp, err := c.doer.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failure sending request")
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("status code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, ErrListFailed
	}

	// Decode json response into users.
	span.AddEvent("Decode JSON Response")
	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failure decoding json")
		return nil, errors.WithStack(err)
	}
	if users == nil {
		users = []User{}
	}

	span.SetAttributes(attribute.Int("users", len(users)))
	return users, nil
}
