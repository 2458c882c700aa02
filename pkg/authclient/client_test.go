package authclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeHTTPClient struct {
	status   int
	body     string
	err      error
	lastReq  *http.Request
	requests int
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	f.requests++
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{},
	}, nil
}

func TestClient_SignInURLs(t *testing.T) {
	c := New("http://localhost:8080")

	url := c.SignInWithGithub(SignInOptions{})
	require.Contains(t, url, "http://localhost:8080/api/auth/signin/github?")
	require.Contains(t, url, "callbackURL=%2Ffeature%2Fdashboard")
	require.Contains(t, url, "errorCallbackURL=%2Fauth%2Fsignin")
	require.Contains(t, url, "newUserCallbackURL=%2Ffeature%2Fonboarding")

	url = c.SignInWithGoogle(SignInOptions{CallbackURL: "/feature/projects"})
	require.Contains(t, url, "/api/auth/signin/google?")
	require.Contains(t, url, "callbackURL=%2Ffeature%2Fprojects")
}

func TestClient_GetSession(t *testing.T) {
	c := New("http://localhost:8080")
	fake := &fakeHTTPClient{
		status: http.StatusOK,
		body:   `{"session":{"id":"sess-1","user_id":"user-1"},"user":{"id":"user-1","email":"octo@example.com"}}`,
	}
	c.SetHTTPClient(fake)

	session, err := c.GetSession(context.Background(), "token-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, "sess-1", session.Session.ID)
	require.Equal(t, "user-1", session.User.ID)
	require.Equal(t, "Bearer token-1", fake.lastReq.Header.Get("Authorization"))
}

func TestClient_GetSessionNull(t *testing.T) {
	c := New("http://localhost:8080")
	c.SetHTTPClient(&fakeHTTPClient{status: http.StatusOK, body: `null`})

	session, err := c.GetSession(context.Background(), "stale-token")
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestClient_SignOutNavigatesOnSuccess(t *testing.T) {
	c := New("http://localhost:8080")
	c.SetHTTPClient(&fakeHTTPClient{status: http.StatusOK, body: `{"success":true}`})

	navigated := false
	err := c.SignOut(context.Background(), "token-1", func() { navigated = true })
	require.NoError(t, err)
	require.True(t, navigated)
}

func TestClient_SignOutSkipsNavigationOnFailure(t *testing.T) {
	c := New("http://localhost:8080")
	c.SetHTTPClient(&fakeHTTPClient{status: http.StatusInternalServerError, body: `{}`})

	navigated := false
	err := c.SignOut(context.Background(), "token-1", func() { navigated = true })
	require.Error(t, err)
	require.False(t, navigated, "navigate must not run when sign-out fails")
}
