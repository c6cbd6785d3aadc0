package qbit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddURLs_FormEncoded(t *testing.T) {
	var gotURLs, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/torrents/add", r.URL.Path)
		gotType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		gotURLs = r.PostForm.Get("urls")
		_, _ = w.Write([]byte("Ok."))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	err := c.AddURLs(context.Background(), "magnet:?xt=urn:btih:abc&dn=x")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "magnet:?xt=urn:btih:abc&dn=x", gotURLs)
}

func TestAddURLs_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Fails."))
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).AddURLs(context.Background(), "http://x/t.torrent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestAddURLs_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).AddURLs(context.Background(), "magnet:?x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestAddURLs_NoURL(t *testing.T) {
	assert.Error(t, NewClient("http://localhost:1", time.Second).AddURLs(context.Background()))
}

func TestCredentialsInURL(t *testing.T) {
	var loginCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/auth/login":
			loginCalls++
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "admin", r.PostForm.Get("username"))
			assert.Equal(t, "s3cret", r.PostForm.Get("password"))
			http.SetCookie(w, &http.Cookie{Name: "SID", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte("Ok."))
		case "/api/v2/app/version":
			cookie, err := r.Cookie("SID")
			if assert.NoError(t, err) {
				assert.Equal(t, "abc", cookie.Value)
			}
			_, _ = w.Write([]byte("v4.6.2\n"))
		}
	}))
	defer server.Close()

	withCreds := strings.Replace(server.URL, "http://", "http://admin:s3cret@", 1)
	c := NewClient(withCreds, time.Second)
	assert.Equal(t, server.URL, c.BaseURL())

	version, err := c.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.6.2", version)

	_, err = c.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loginCalls)
}

func TestLoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Fails."))
	}))
	defer server.Close()

	c := NewClient(strings.Replace(server.URL, "http://", "http://u:p@", 1), time.Second)
	_, err := c.GetVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestAddURLs_ReloginAfterSessionExpiry(t *testing.T) {
	var logins, adds int
	sid := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/auth/login":
			logins++
			sid = fmt.Sprintf("sid-%d", logins)
			http.SetCookie(w, &http.Cookie{Name: "SID", Value: sid, Path: "/"})
			_, _ = w.Write([]byte("Ok."))
		case "/api/v2/torrents/add":
			cookie, err := r.Cookie("SID")
			if err != nil || cookie.Value != sid {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("Forbidden"))
				return
			}
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "magnet:?xt=urn:btih:abc", r.PostForm.Get("urls"))
			adds++
			_, _ = w.Write([]byte("Ok."))
		}
	}))
	defer server.Close()

	c := NewClient(strings.Replace(server.URL, "http://", "http://admin:pw@", 1), time.Second)
	require.NoError(t, c.AddURLs(context.Background(), "magnet:?xt=urn:btih:abc"))

	// server side timeout
	sid = "expired"

	require.NoError(t, c.AddURLs(context.Background(), "magnet:?xt=urn:btih:abc"))
	assert.Equal(t, 2, logins)
	assert.Equal(t, 2, adds)
}

func TestAddURLs_ForbiddenWithoutCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "/api/v2/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).AddURLs(context.Background(), "magnet:?x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
