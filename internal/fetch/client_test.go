package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadPGNReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[Event \"Test\"]\n1. e4 e5 *\n"))
	}))
	defer srv.Close()

	c := NewClient()
	body, err := c.DownloadPGN(srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "[Event \"Test\"]")
}

func TestDownloadPGNNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.DownloadPGN(srv.URL)
	assert.Error(t, err)
}
