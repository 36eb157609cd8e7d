package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ojtool/internal/judge"
)

const fakeCSRF = "f1a2b3c4d5"

func writeHomePage(w http.ResponseWriter) {
	fmt.Fprintf(w, `<html><head>
<meta name="X-Csrf-Token" content="%[1]s" class="csrf-token" data-csrf="%[1]s"/>
</head><body></body></html>`, fakeCSRF)
}

// fakeLoginServer mimics the login flow: the homepage carries the csrf
// token, the enter endpoint checks credentials and answers with either a
// logged-in page or the form with a password error marker.
func fakeLoginServer(t *testing.T, handle, password string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeHomePage(w)
	})
	mux.HandleFunc("POST /enter", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "enter", r.PostForm.Get("action"))
		assert.Equal(t, fakeCSRF, r.PostForm.Get("csrf_token"))
		if r.PostForm.Get("handleOrEmail") == handle && r.PostForm.Get("password") == password {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-xyz", Path: "/"})
			fmt.Fprintf(w, `<html><body>
<div class="lang-chooser"><a href="/profile/%[1]s">%[1]s</a> <a href="/logout">Logout</a></div>
</body></html>`, handle)
			return
		}
		fmt.Fprint(w, `<html><body>
<form><span class="for__password">Invalid handle/email or password</span></form>
</body></html>`)
	})
	return httptest.NewServer(mux)
}

func TestLogin(t *testing.T) {
	srv := fakeLoginServer(t, "alice", "hunter2")
	defer srv.Close()
	client := newTestClient(t, srv)

	err := client.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	auth, err := client.ExportAuth()
	require.NoError(t, err)
	require.NotNil(t, auth)
	assert.Equal(t, "alice", auth.Username)
	assert.Equal(t, "JSESSIONID", auth.Cookie.Name)
	assert.Equal(t, "sess-xyz", auth.Cookie.Value)
}

func TestLoginWrongCredentials(t *testing.T) {
	srv := fakeLoginServer(t, "alice", "hunter2")
	defer srv.Close()
	client := newTestClient(t, srv)

	err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrWrongCredentials)

	auth, err := client.ExportAuth()
	require.NoError(t, err)
	assert.Nil(t, auth)
}

func TestLoginUnrecognizedOutcome(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeHomePage(w)
	})
	mux.HandleFunc("POST /enter", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Maintenance</h1></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	err := client.Login(context.Background(), "alice", "hunter2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, judge.ErrWrongCredentials)
}

func TestExportAuthAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	client := newTestClient(t, srv)

	auth, err := client.ExportAuth()
	require.NoError(t, err)
	assert.Nil(t, auth)
}

func TestRestoreAuth(t *testing.T) {
	var gotCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /check", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err == nil {
			gotCookie = c.Value
		}
		fmt.Fprint(w, "<html></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	err := client.RestoreAuth(&judge.CachedAuth{
		Cookie:   judge.AuthCookie{Name: "JSESSIONID", Value: "sess-restored"},
		Username: "alice",
	})
	require.NoError(t, err)

	// The restored bundle round-trips through export unchanged.
	auth, err := client.ExportAuth()
	require.NoError(t, err)
	require.NotNil(t, auth)
	assert.Equal(t, "alice", auth.Username)
	assert.Equal(t, "sess-restored", auth.Cookie.Value)

	// The restored cookie rides on subsequent requests.
	_, _, err = client.getPage(context.Background(), srv.URL+"/check")
	require.NoError(t, err)
	assert.Equal(t, "sess-restored", gotCookie)
}

func TestRestoreAuthRejectsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	client := newTestClient(t, srv)

	err := client.RestoreAuth(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrMalformedAuth)

	err = client.RestoreAuth(&judge.CachedAuth{Username: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrMalformedAuth)
}

func TestReqUser(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.reqUser()
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrAccessDenied)

	client.setUser("alice")
	user, err := client.reqUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestSameLocation(t *testing.T) {
	parse := func(s string) *url.URL {
		u, err := url.Parse(s)
		require.NoError(t, err)
		return u
	}
	assert.True(t, sameLocation(
		parse("https://codeforces.com/contest/1/problem/A?mobile=false"),
		parse("https://codeforces.com/contest/1/problem/A"),
	))
	assert.False(t, sameLocation(
		parse("https://codeforces.com/"),
		parse("https://codeforces.com/contest/1/problem/A"),
	))
}
