package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/signgate/signgate/lib"
)

// Client talks to the sign request API. It is safe for concurrent use.
type Client struct {
	base       *http.Client
	httpClient *http.Client
	tokens     oauth2.TokenSource
	readKey    KeyReader
	baseURL    string
	userAgent  string
}

// New returns a client for the API described by conf.
func New(conf *Config, opts ...Option) (*Client, error) {
	c := *conf
	c.SetDefaults()
	cl := &Client{
		readKey:   os.ReadFile,
		baseURL:   strings.TrimSuffix(c.BaseURL, "/"),
		userAgent: "signgate/" + lib.Version,
	}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.base == nil {
		cl.base = &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: c.SkipTLSVerify},
			},
			Timeout: c.timeout(),
		}
	}
	if cl.tokens == nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, cl.base)
		ts, err := TokenSource(ctx, &c, cl.readKey)
		if err != nil {
			return nil, errors.Wrap(err, "unable to configure authentication")
		}
		cl.tokens = ts
	}
	cl.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: cl.tokens,
			Base:   cl.base.Transport,
		},
		Timeout: cl.base.Timeout,
	}
	return cl, nil
}

// do sends a request and decodes a successful response into out, if non-nil.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	_, err := c.send(ctx, method, path, body, out)
	return err
}

// send performs the request and returns the response status code.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "unable to encode request")
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeError(resp)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.Wrap(err, "unable to decode server response")
	}
	return resp.StatusCode, nil
}

func signRequestPath(id string, action ...string) string {
	p := "/sign_requests/" + url.PathEscape(id)
	for _, a := range action {
		p += "/" + a
	}
	return p
}

// CreateSignRequest creates a sign request and sends it to the signers.
func (c *Client) CreateSignRequest(ctx context.Context, r *lib.CreateSignRequest) (*lib.SignRequest, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sr := &lib.SignRequest{}
	if err := c.do(ctx, http.MethodPost, "/sign_requests", r.JSONObject(), sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// GetSignRequest returns the sign request with the given id.
func (c *Client) GetSignRequest(ctx context.Context, id string) (*lib.SignRequest, error) {
	sr := &lib.SignRequest{}
	if err := c.do(ctx, http.MethodGet, signRequestPath(id), nil, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// ListSignRequests returns one page of sign requests, starting at marker.
// A zero limit uses the server default.
func (c *Client) ListSignRequests(ctx context.Context, marker string, limit int) (*lib.SignRequestList, error) {
	q := url.Values{}
	if marker != "" {
		q.Set("marker", marker)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/sign_requests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	list := &lib.SignRequestList{}
	if err := c.do(ctx, http.MethodGet, path, nil, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CancelSignRequest cancels a sign request that has not been finished.
func (c *Client) CancelSignRequest(ctx context.Context, id string) (*lib.SignRequest, error) {
	sr := &lib.SignRequest{}
	if err := c.do(ctx, http.MethodPost, signRequestPath(id, "cancel"), nil, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// ResendSignRequest resends the sign request email to signers that have not
// signed yet.
// The API acknowledges a resend with 202 Accepted; any other success code is
// reported as an error.
func (c *Client) ResendSignRequest(ctx context.Context, id string) error {
	status, err := c.send(ctx, http.MethodPost, signRequestPath(id, "resend"), nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusAccepted {
		return errors.Errorf("unexpected status %d resending sign request %s", status, id)
	}
	return nil
}
