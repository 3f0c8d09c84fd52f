package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"image-publisher/internal/config"

	"github.com/dghubble/oauth1"
	"github.com/wb-go/wbf/zlog"
)

// Client talks to the v1.1 REST and media-upload endpoints with OAuth1
// request signing. Base URLs are configurable so tests can point it at a
// local server.
type Client struct {
	httpClient    *http.Client
	apiBaseURL    string
	uploadBaseURL string
	logger        *zlog.Zerolog
}

func NewClient(cfg config.TwitterConfig, logger *zlog.Zerolog) *Client {
	oauthConfig := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)

	return &Client{
		httpClient:    oauthConfig.Client(oauth1.NoContext, token),
		apiBaseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		uploadBaseURL: strings.TrimRight(cfg.UploadBaseURL, "/"),
		logger:        logger,
	}
}

// Authenticate verifies the configured credentials and returns the account's
// screen name.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/account/verify_credentials.json", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	var body struct {
		ScreenName string `json:"screen_name"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}

	return body.ScreenName, nil
}

// UploadMedia uploads the file at path and returns its media identifier.
// The endpoint takes multipart file content, which is why callers stage
// variants on disk first.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("media", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBaseURL+"/media/upload.json", pr)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var body struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}

	return body.MediaIDString, nil
}

// CreatePost publishes one status referencing the given media identifiers.
func (c *Client) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	form := url.Values{}
	form.Set("status", text)
	if len(mediaIDs) > 0 {
		form.Set("media_ids", strings.Join(mediaIDs, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/statuses/update.json", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		IDStr string `json:"id_str"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}

	return body.IDStr, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", req.URL.Path).
			Str("body", string(snippet)).
			Msg("API call failed")
		return fmt.Errorf("%s returned status %d: %s", req.URL.Path, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}
