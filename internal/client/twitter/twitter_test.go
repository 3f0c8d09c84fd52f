package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"image-publisher/internal/config"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	zlog.Init()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.TwitterConfig{
		APIKey:        "key",
		APISecret:     "secret",
		AccessToken:   "token",
		AccessSecret:  "token-secret",
		APIBaseURL:    server.URL,
		UploadBaseURL: server.URL,
	}, &zlog.Logger)
}

func TestAuthenticate(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account/verify_credentials.json", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"screen_name": "imagebot"})
	}))

	name, err := client.Authenticate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "imagebot", name)

	// Requests carry an OAuth1 signature.
	require.Contains(t, gotAuth, "OAuth")
	require.Contains(t, gotAuth, `oauth_consumer_key="key"`)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":32}]}`, http.StatusUnauthorized)
	}))

	_, err := client.Authenticate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestUploadMedia(t *testing.T) {
	var gotFileBytes []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/media/upload.json", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("media")
		require.NoError(t, err)
		defer file.Close()

		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotFileBytes = buf[:n]

		json.NewEncoder(w).Encode(map[string]string{"media_id_string": "710511363345354753"})
	}))

	path := filepath.Join(t.TempDir(), "variant.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))

	mediaID, err := client.UploadMedia(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "710511363345354753", mediaID)
	require.Equal(t, []byte("jpeg-bytes"), gotFileBytes)
}

func TestUploadMediaMissingFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the file does not exist")
	}))

	_, err := client.UploadMedia(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"))
	require.Error(t, err)
}

func TestCreatePost(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/statuses/update.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Resized images uploaded", r.PostForm.Get("status"))
		require.Equal(t, "m-1,m-2,m-3", r.PostForm.Get("media_ids"))

		json.NewEncoder(w).Encode(map[string]string{"id_str": "1050118621198921728"})
	}))

	postID, err := client.CreatePost(context.Background(), "Resized images uploaded", []string{"m-1", "m-2", "m-3"})
	require.NoError(t, err)
	require.Equal(t, "1050118621198921728", postID)
}

func TestCreatePostRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":187,"message":"Status is a duplicate."}]}`, http.StatusForbidden)
	}))

	_, err := client.CreatePost(context.Background(), "dup", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	zlog.Init()
	client := NewClient(config.TwitterConfig{
		APIBaseURL:    "https://api.example.com/1.1/",
		UploadBaseURL: "https://upload.example.com/1.1/",
	}, &zlog.Logger)

	require.Equal(t, "https://api.example.com/1.1", client.apiBaseURL)
	require.False(t, strings.HasSuffix(client.uploadBaseURL, "/"))
}
