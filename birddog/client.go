// Package birddog is a thin client for the BirdDog HR REST API. Each method
// maps to one endpoint: it builds the URL and body from its parameters,
// attaches the caller's access token, issues a single synchronous request and
// unwraps one field of the JSON response envelope. There is no retry,
// caching, or pagination; errors are surfaced to the caller unmodified.
package birddog

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/arcoro/birddoghr-go/internal/httpclient"
	"github.com/arcoro/birddoghr-go/pkg/utils"
)

const (
	// DefaultBaseURL is the production BirdDog HR API host.
	DefaultBaseURL = "https://api.birddoghr.com"
	// DefaultVersion is the API version segment. "v1" is accepted for
	// best-effort backward compatibility.
	DefaultVersion = "v2"

	// DefaultEmployeeDisposition is applied when EmployeeQuery.Disposition is empty.
	DefaultEmployeeDisposition = "incomplete"
	// DefaultSearchDateType is applied when EmployeeQuery.SearchDateType is empty.
	DefaultSearchDateType = "hiredate"

	// authScheme prefixes the access token in the Authorization header.
	authScheme = "BDToken"

	// searchDateLayout is the MM/dd/yyyy format the Employees endpoint expects.
	searchDateLayout = "01/02/2006"

	defaultTimeout = 30 * time.Second
)

// Client issues requests against the BirdDog HR REST API. It is immutable
// after construction and safe for concurrent use; callers supply a valid
// access token per call (see TokenSource for an optional cache).
type Client struct {
	logger     *zap.Logger
	baseURL    string
	version    string
	timeout    time.Duration
	httpClient *http.Client
	exec       *httpclient.Executor
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the API host (e.g. for a sandbox tenant).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
			baseURL = baseURL[:len(baseURL)-1]
		}
		c.baseURL = baseURL
	}
}

// WithVersion selects the API version segment ("v1" or "v2").
func WithVersion(version string) Option {
	return func(c *Client) { c.version = version }
}

// WithTimeout sets the per-request HTTP timeout. Ignored when a custom HTTP
// client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the default HTTP client entirely. The caller then
// owns transport concerns, including the TLS minimum version.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a BirdDog HR API client. The default transport
// enforces TLS 1.2 as a minimum, configured per client rather than
// process-wide.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:  zap.NewNop(),
		baseURL: DefaultBaseURL,
		version: DefaultVersion,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		}
	}
	c.exec = httpclient.New(c.logger, c.httpClient, "birddog")
	return c
}

// AcquireAccessToken exchanges credentials for a bearer-style access token.
// POST /{v}/accesstoken with body {apiKey, userName, password}; returns the
// response's token field verbatim. Renewal is the caller's responsibility —
// the token carries no expiry information.
func (c *Client) AcquireAccessToken(ctx context.Context, creds Credentials) (string, error) {
	payload := accessTokenRequest{
		APIKey:   creds.APIKey,
		UserName: creds.UserName,
		Password: creds.Password,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL("accesstoken", ""), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var resp accessTokenResponse
	if err := c.exec.DoJSON(req, "accesstoken", &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("birddog: accesstoken response carried no token")
	}

	c.logger.Info("birddog.token_acquired",
		zap.String("user", creds.UserName),
		zap.String("token", utils.MaskToken(resp.Token)))

	return resp.Token, nil
}

// ListJobCandidates fetches job candidates. NumDays is always sent (zero
// means unbounded); the disposition filter is honored and appended as "disp"
// when non-empty.
func (c *Client) ListJobCandidates(ctx context.Context, token string, query JobCandidateQuery) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("numdays", strconv.Itoa(query.NumDays))
	if query.Disposition != "" {
		q.Set("disp", query.Disposition)
	}

	var env candidatesEnvelope
	if err := c.getJSON(ctx, token, "JobCandidates", q.Encode(), &env); err != nil {
		return nil, err
	}
	return unwrap("JobCandidates", "candidates", env.Candidates)
}

// ListEmployees fetches onboarding applicants. Zero-value query fields fall
// back to disposition "incomplete", search date = today (MM/dd/yyyy) and
// search date type "hiredate".
func (c *Client) ListEmployees(ctx context.Context, token string, query EmployeeQuery) ([]json.RawMessage, error) {
	if query.Disposition == "" {
		query.Disposition = DefaultEmployeeDisposition
	}
	if query.SearchDate.IsZero() {
		query.SearchDate = time.Now()
	}
	if query.SearchDateType == "" {
		query.SearchDateType = DefaultSearchDateType
	}

	q := url.Values{}
	q.Set("disp", query.Disposition)
	q.Set("SearchDate", query.SearchDate.Format(searchDateLayout))
	q.Set("SearchDateType", query.SearchDateType)

	var env employeesEnvelope
	if err := c.getJSON(ctx, token, "Employees", q.Encode(), &env); err != nil {
		return nil, err
	}
	return unwrap("Employees", "employees", env.Employees)
}

// ListTalentUsers fetches talent-module users. An empty userName targets the
// all-users endpoint; a non-empty userName targets the single-user endpoint.
// Both variants unwrap the TalentUsers field.
func (c *Client) ListTalentUsers(ctx context.Context, token, userName string) ([]json.RawMessage, error) {
	var env talentUsersEnvelope
	if userName == "" {
		if err := c.getJSON(ctx, token, "TalentUsers", "", &env); err != nil {
			return nil, err
		}
		return unwrap("TalentUsers", "TalentUsers", env.TalentUsers)
	}

	q := url.Values{}
	q.Set("userName", userName)
	if err := c.getJSON(ctx, token, "TalentUser", q.Encode(), &env); err != nil {
		return nil, err
	}
	return unwrap("TalentUser", "TalentUsers", env.TalentUsers)
}

// ListEmployeeCertifications fetches certifications for one or more users.
// User names are encoded as userName[0]=a&userName[1]=b... in input order.
// The remote API reports certifications under the employees field.
func (c *Client) ListEmployeeCertifications(ctx context.Context, token string, userNames []string) ([]json.RawMessage, error) {
	if len(userNames) == 0 {
		return nil, fmt.Errorf("birddog: at least one user name is required")
	}

	var env employeesEnvelope
	if err := c.getJSON(ctx, token, "EmployeeCertification", indexedQuery("userName", userNames), &env); err != nil {
		return nil, err
	}
	return unwrap("EmployeeCertification", "employees", env.Employees)
}

// ListEmployeeLearningTranscripts fetches learning transcripts for one or
// more users, with the same indexed userName encoding as certifications.
func (c *Client) ListEmployeeLearningTranscripts(ctx context.Context, token string, userNames []string) ([]json.RawMessage, error) {
	if len(userNames) == 0 {
		return nil, fmt.Errorf("birddog: at least one user name is required")
	}

	var env transcriptsEnvelope
	if err := c.getJSON(ctx, token, "EmployeeLearningTranscript", indexedQuery("userName", userNames), &env); err != nil {
		return nil, err
	}
	return unwrap("EmployeeLearningTranscript", "transcripts", env.Transcripts)
}

// GetEmployeeDocument fetches one document by user, type and optional
// subtype. Unlike the list operations the whole response object is the
// payload, so it is returned without unwrapping.
func (c *Client) GetEmployeeDocument(ctx context.Context, token string, query DocumentQuery) (json.RawMessage, error) {
	if query.UserName == "" {
		return nil, fmt.Errorf("birddog: user name is required")
	}
	if query.DocumentType == "" {
		return nil, fmt.Errorf("birddog: document type is required")
	}

	q := url.Values{}
	q.Set("userName", query.UserName)
	q.Set("documentType", query.DocumentType)
	if query.DocumentSubType != "" {
		q.Set("documentSubType", query.DocumentSubType)
	}

	var doc json.RawMessage
	if err := c.getJSON(ctx, token, "GetEmployeeDocument", q.Encode(), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// unwrap returns the envelope's collection, or a decode error when the field
// is absent or null. A 2xx response that lacks the expected field must never
// pass for an empty result.
func unwrap(endpoint, field string, records *[]json.RawMessage) ([]json.RawMessage, error) {
	if records == nil {
		return nil, fmt.Errorf("birddog: decode %s response: missing field %q", endpoint, field)
	}
	return *records, nil
}

// getJSON performs an authenticated GET against one endpoint and decodes the
// JSON response into out.
func (c *Client) getJSON(ctx context.Context, token, endpoint, rawQuery string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, rawQuery), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authScheme+" "+token)

	return c.exec.DoJSON(req, endpoint, out)
}

// endpointURL joins base URL, version segment, endpoint path and an optional
// pre-encoded query string.
func (c *Client) endpointURL(endpoint, rawQuery string) string {
	u := c.baseURL + "/" + c.version + "/" + endpoint
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}
