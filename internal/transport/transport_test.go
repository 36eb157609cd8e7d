package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFillDefaults(t *testing.T) {
	var o Options
	require.NoError(t, o.Validate())
	o.FillDefaults()
	assert.Equal(t, "ojtool/1", o.UserAgent)
	assert.Equal(t, 30*time.Second, o.Timeout)
	assert.Equal(t, 500*time.Millisecond, o.RateEvery)
	assert.Equal(t, 3, o.RateBurst)
}

func TestNewSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client, err := New(Options{UserAgent: "probe/9"})
	require.NoError(t, err)
	require.NotNil(t, client.Jar)

	rsp, err := client.Get(srv.URL)
	require.NoError(t, err)
	rsp.Body.Close()
	assert.Equal(t, "probe/9", got)
}

func TestPacedTransportHonorsContext(t *testing.T) {
	// A drained rate budget must not outlive the request's context.
	client, err := New(Options{RateEvery: time.Hour, RateBurst: 1})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rsp, err := client.Get(srv.URL)
	require.NoError(t, err)
	rsp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.Error(t, err)
}

func TestErrorFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "no such page")
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	rsp, err := http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	defer rsp.Body.Close()

	err = ErrorFromResponse(rsp)
	require.Error(t, err)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Code())
	assert.Equal(t, "no such page", serr.Message())

	rsp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer rsp.Body.Close()
	assert.NoError(t, ErrorFromResponse(rsp))
}
