package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewerVersion(t *testing.T) {
	assert.True(t, isNewerVersion("0.2.0", "0.1.0"))
	assert.True(t, isNewerVersion("1.0.0", "0.9.9"))
	assert.True(t, isNewerVersion("0.1.0.1", "0.1.0"))
	assert.False(t, isNewerVersion("0.1.0", "0.1.0"))
	assert.False(t, isNewerVersion("0.0.9", "0.1.0"))
}

func newChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewChecker()
	c.BaseURL = server.URL
	return c
}

func TestCheck_Release(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/"+Repo+"/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v9.0.0"}`))
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9.0.0", info.LatestVersion)
	assert.True(t, info.UpdateAvailable)
}

func TestCheck_FallsBackToTags(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/"+Repo+"/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"v0.0.1","commit":{"sha":"a1"}},{"name":"v0.0.0","commit":{"sha":"b2"}}]`))
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", info.LatestVersion)
	assert.False(t, info.UpdateAvailable)
}

func TestCheck_NewerTagWithoutRelease(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/"+Repo+"/tags" {
			_, _ = w.Write([]byte(`[{"name":"v99.0.0","zipball_url":"https://example.invalid/z"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "99.0.0", info.LatestVersion)
	assert.True(t, info.UpdateAvailable)
}

func TestCheck_NoTags(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/"+Repo+"/tags" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Version, info.LatestVersion)
}

func TestCheck_Error(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
