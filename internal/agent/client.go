package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cya/models"
)

const apiPrefix = "/api/v1"

// ServerClient talks to the host API on behalf of a single host. Every
// request except registration carries the host's key as
// "Authorization: Token <key>".
type ServerClient struct {
	baseURL string
	host    string
	apiKey  string
	http    *http.Client
}

// NewServerClient creates a client for host against the server at baseURL.
func NewServerClient(baseURL, host, apiKey string) *ServerClient {
	return &ServerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		host:    host,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Register enlists the host. The request carries the plain key; the server
// stores only its hash.
func (c *ServerClient) Register(ctx context.Context, req models.RegisterHostRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/host/", false, req, nil)
}

// UpdateHost sends a partial update of the host's facts and, when
// req.Containers is set, its full container report.
func (c *ServerClient) UpdateHost(ctx context.Context, req models.UpdateHostRequest) error {
	return c.doJSON(ctx, http.MethodPatch, c.hostPath(), true, req, nil)
}

// DesiredState fetches the host together with the containers the server
// wants on it.
func (c *ServerClient) DesiredState(ctx context.Context) (models.Host, error) {
	var h models.Host
	err := c.doJSON(ctx, http.MethodGet, c.hostPath()+"?with_containers", true, nil, &h)
	return h, err
}

// ReportContainer tells the server what the host built for one container.
func (c *ServerClient) ReportContainer(ctx context.Context, name string, req models.UpdateContainerRequest) error {
	path := c.hostPath() + "container/" + url.PathEscape(name) + "/"
	return c.doJSON(ctx, http.MethodPatch, path, true, req, nil)
}

func (c *ServerClient) hostPath() string {
	return "/host/" + url.PathEscape(c.host) + "/"
}

// doJSON sends a JSON request and decodes a JSON response into out when
// out is non-nil.
func (c *ServerClient) doJSON(ctx context.Context, method, path string, auth bool, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, bodyReader)
	if err != nil {
		return err
	}
	if auth {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapServerError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// mapServerError converts an error response to a sentinel error.
func mapServerError(resp *http.Response) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	json.NewDecoder(resp.Body).Decode(&errResp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		if errResp.Message == "container not found" {
			return ErrContainerNotFound
		}
		return ErrHostNotFound
	case http.StatusConflict:
		return ErrHostExists
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", errResp.Message)
	default:
		return fmt.Errorf("server error %d: %s", resp.StatusCode, errResp.Message)
	}
}
