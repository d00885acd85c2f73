package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	kprof "github.com/termcurator/curate/cmd/curate/config/profiles"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/utils"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestId     = "X-Request-Id"
)

// CurateClient is a typed client of the term server.
type CurateClient interface {
	controller.EditService
	controller.WorkflowService
	controller.LogService

	// Authenticate signs in with a password.
	//
	// Returns
	//
	// - security.User: the user, with the auth token to be used for later requests.
	//
	// - error
	Authenticate(ctx context.Context, userName string, password string) (security.User, error)
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// create new client for Profile
//
// # Args
//
// - *kprof.Profile
//
// # Return
//
// - CurateClient: created client. Requests carry the token of the profile, if any.
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *kprof.Profile) (CurateClient, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	return &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		token:      prof.Token,
	}, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})
	return strings.Join(append([]string{c.api}, path...), "/")
}

// request builds a request to the term server.
//
// body is sent as is when it is a string, and as JSON otherwise.
func (c *client) request(
	ctx context.Context, method string, path []string, query url.Values, body any,
) (*http.Request, error) {
	var payload io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		payload = strings.NewReader(b)
		contentType = "text/plain"
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(buf)
		contentType = "application/json"
	}

	u := c.apipath(path...)
	if len(query) != 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestId, uuid.NewString())
	if c.token != "" {
		req.Header.Set(HeaderAuthorization, c.token)
	}
	return req, nil
}

func (c *client) do(
	ctx context.Context, method string, path []string, query url.Values, body any,
) (*http.Response, error) {
	req, err := c.request(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.httpclient.Do(req)
}

// getJson sends a request and decodes the JSON response into T.
func getJson[T any](
	ctx context.Context, c *client, method string, path []string, query url.Values, body any,
	messageFor func(status int) MessageFor,
) (T, error) {
	var zero T
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	var ret T
	if err := unmarshalJsonResponse(resp, &ret, messageFor(resp.StatusCode)); err != nil {
		return zero, err
	}
	return ret, nil
}

func getText(
	ctx context.Context, c *client, path []string, query url.Values,
	messageFor func(status int) MessageFor,
) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return unmarshalTextResponse(resp, messageFor(resp.StatusCode))
}

func post(
	ctx context.Context, c *client, path []string, query url.Values, body any,
	messageFor func(status int) MessageFor,
) error {
	resp, err := c.do(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return unmarshalResponseDiscardingPayload(resp, messageFor(resp.StatusCode))
}

// messages builds a MessageFor with the usual server error line.
func messages(on4xx string) func(status int) MessageFor {
	return func(status int) MessageFor {
		return MessageFor{
			Status4xx: on4xx,
			Status5xx: fmt.Sprintf("server error (status code = %d)", status),
		}
	}
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}
		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}
