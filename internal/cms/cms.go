// Package cms publishes the ranked batter dataset to the headless CMS.
//
// A publish is three requests: a GraphQL mutation that stores the dataset on
// the batting document, a mutation that moves the document to PUBLISHED, and
// a GET to the front end's revalidate hook so the site rebuilds the page.
package cms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
	"github.com/pfrederiksen/mlb-batters/internal/logger"
)

// Timeout bounds each CMS request
const Timeout = 30 * time.Second

const updateMutation = `
mutation updateJSON($json: Json!) {
  updateBatting(data: {stats: $json}, where: {id: %q}) {
    id
    stats
  }
}`

const publishMutation = `
mutation publishJSON {
  publishBatting(where: {id: %q}, to: PUBLISHED) {
    id
  }
}`

// Config holds the CMS connection settings
type Config struct {
	Endpoint        string
	AuthToken       string
	RevalidateURL   string
	RevalidateToken string
	DocumentID      string
}

// Client publishes batter datasets to the CMS
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a CMS client
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Errors []graphQLError `json:"errors"`
}

type revalidateParams struct {
	Token string `url:"token"`
}

// Name identifies the CMS in logs
func (c *Client) Name() string {
	return "cms"
}

// Publish stores players on the batting document, publishes it and
// revalidates the front end. The first failing request aborts the publish.
func (c *Client) Publish(ctx context.Context, players []*batter.Player) error {
	if players == nil {
		players = []*batter.Player{}
	}

	update := graphQLRequest{
		Query:     fmt.Sprintf(updateMutation, c.cfg.DocumentID),
		Variables: map[string]interface{}{"json": players},
	}
	if err := c.mutate(ctx, "update", update); err != nil {
		return err
	}

	publish := graphQLRequest{Query: fmt.Sprintf(publishMutation, c.cfg.DocumentID)}
	if err := c.mutate(ctx, "publish", publish); err != nil {
		return err
	}

	return c.revalidate(ctx)
}

// mutate posts a GraphQL request and checks both the HTTP status and the
// GraphQL errors array
func (c *Client) mutate(ctx context.Context, name string, body graphQLRequest) error {
	s := c.base().
		Set("Authorization", "Bearer "+c.cfg.AuthToken).
		Post(c.cfg.Endpoint).
		BodyJSON(body)
	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("building %s mutation: %w", name, err)
	}

	var result, failure graphQLResponse
	resp, err := s.Do(req.WithContext(ctx), &result, &failure)
	if err != nil {
		return fmt.Errorf("%s mutation: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s mutation: unexpected status %d%s", name, resp.StatusCode, describe(failure.Errors))
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s mutation: graphql errors%s", name, describe(result.Errors))
	}

	logger.Debug("CMS mutation applied", logger.Fields{"mutation": name, "status": resp.StatusCode})
	return nil
}

func (c *Client) revalidate(ctx context.Context) error {
	s := c.base().
		Get(c.cfg.RevalidateURL).
		QueryStruct(revalidateParams{Token: c.cfg.RevalidateToken})
	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("building revalidate request: %w", err)
	}

	var result map[string]interface{}
	resp, err := s.Do(req.WithContext(ctx), &result, nil)
	if err != nil {
		return fmt.Errorf("revalidate: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidate: unexpected status %d", resp.StatusCode)
	}

	logger.Info("Revalidated front end", logger.Fields{"status": resp.StatusCode, "response": result})
	return nil
}

func (c *Client) base() *sling.Sling {
	return sling.New().Client(c.httpClient)
}

func describe(errs []graphQLError) string {
	if len(errs) == 0 {
		return ""
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return ": " + strings.Join(messages, "; ")
}
