// Package gcs is a small Cloud Storage JSON API client scoped to the one
// bucket product images live in.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

const (
	requestTimeout = 30 * time.Second
	probeTimeout   = 5 * time.Second
	errBodyLimit   = 2 << 10
)

// ErrObjectNotFound is returned by Delete for names the bucket does not hold.
var ErrObjectNotFound = errors.New("gcs object not found")

// Object is the metadata of a stored image.
type Object struct {
	Name        string
	ContentType string
	Size        int64
	PublicURL   string
}

// endpoints are split out so tests can point the client at httptest.
type endpoints struct {
	api    string
	upload string
	public string
}

var googleEndpoints = endpoints{
	api:    "https://storage.googleapis.com/storage/v1",
	upload: "https://storage.googleapis.com/upload/storage/v1",
}

type Client struct {
	http   *http.Client
	bucket string
	urls   endpoints
	auth   accessTokenSource
}

// NewClient picks credentials (inline JSON, then a key file, then the
// metadata server) and probes the bucket before returning.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	bucket := strings.TrimSpace(cfg.BucketName)
	if bucket == "" {
		return nil, errors.New("gcs: bucket name is required")
	}
	hc := &http.Client{Timeout: requestTimeout}
	auth, err := credentialsFromConfig(hc, gcp)
	if err != nil {
		return nil, err
	}

	urls := googleEndpoints
	urls.public = strings.TrimRight(cfg.PublicBaseURL, "/")
	c := &Client{http: hc, bucket: bucket, urls: urls, auth: auth}

	if err := c.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs: bucket %q unreachable: %w", bucket, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", bucket), "image bucket ready")
	}
	return c, nil
}

func (c *Client) Bucket() string { return c.bucket }

// PublicURL is where browsers fetch object from. Slashes in the name are
// kept so folders survive in the path.
func (c *Client) PublicURL(object string) string {
	parts := strings.Split(object, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return c.urls.public + "/" + c.bucket + "/" + strings.Join(parts, "/")
}

func (c *Client) objectsURL(base string) string {
	return base + "/b/" + url.PathEscape(c.bucket) + "/o"
}

// Ping lists a single object to prove both credentials and bucket access.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.auth == nil {
		return errors.New("gcs: client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := c.send(ctx, http.MethodGet, c.objectsURL(c.urls.api)+"?maxResults=1", nil, "")
	if err != nil {
		return err
	}
	defer drain(res)
	if res.StatusCode != http.StatusOK {
		return responseError("list objects", res)
	}
	return nil
}

// Upload writes body to object with a single-request media upload.
func (c *Client) Upload(ctx context.Context, object, contentType string, body io.Reader) (Object, error) {
	if strings.TrimSpace(object) == "" {
		return Object{}, errors.New("gcs: object name is required")
	}
	query := url.Values{"uploadType": {"media"}, "name": {object}}
	res, err := c.send(ctx, http.MethodPost, c.objectsURL(c.urls.upload)+"?"+query.Encode(), body, contentType)
	if err != nil {
		return Object{}, err
	}
	defer drain(res)
	if res.StatusCode != http.StatusOK {
		return Object{}, responseError("upload", res)
	}

	// The JSON API reports size as a decimal string.
	var stored struct {
		Name        string `json:"name"`
		ContentType string `json:"contentType"`
		Size        string `json:"size"`
	}
	if err := json.NewDecoder(res.Body).Decode(&stored); err != nil {
		return Object{}, fmt.Errorf("gcs: decode upload response: %w", err)
	}
	size, _ := strconv.ParseInt(stored.Size, 10, 64)
	return Object{
		Name:        stored.Name,
		ContentType: stored.ContentType,
		Size:        size,
		PublicURL:   c.PublicURL(stored.Name),
	}, nil
}

func (c *Client) Delete(ctx context.Context, object string) error {
	if strings.TrimSpace(object) == "" {
		return errors.New("gcs: object name is required")
	}
	res, err := c.send(ctx, http.MethodDelete, c.objectsURL(c.urls.api)+"/"+url.PathEscape(object), nil, "")
	if err != nil {
		return err
	}
	defer drain(res)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrObjectNotFound
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	}
	return responseError("delete", res)
}

// Close exists so the client can sit in the shutdown list with other handles.
func (c *Client) Close() error { return nil }

func (c *Client) send(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Response, error) {
	bearer, err := c.auth.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: access token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, errBodyLimit))
	_ = res.Body.Close()
}

func responseError(op string, res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, errBodyLimit))
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return fmt.Errorf("gcs: %s: %s", op, res.Status)
	}
	return fmt.Errorf("gcs: %s: %s: %s", op, res.Status, detail)
}
