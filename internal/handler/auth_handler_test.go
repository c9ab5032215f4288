package handler

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/auth"
	"github.com/sitepress/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInRejectsBadCredentials(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	w := s.do(t, http.MethodPost, "/api/auth/signin", gin.H{"email": testAdminEmail, "password": "wrong"}, nil)
	assertErrorMessage(t, w, http.StatusUnauthorized, "Invalid login credentials")
}

func TestSessionReflectsSignInAndSignOut(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	var body struct {
		Session auth.Session `json:"session"`
	}
	decodeBody(t, s.do(t, http.MethodGet, "/api/auth/session", nil, nil), &body)
	assert.Equal(t, auth.StateUnauthenticated, body.Session.State)

	cookies := s.signIn(t)
	decodeBody(t, s.do(t, http.MethodGet, "/api/auth/session", nil, cookies), &body)
	assert.Equal(t, auth.StateAuthenticated, body.Session.State)
	assert.Equal(t, testAdminEmail, body.Session.Email)

	w := s.do(t, http.MethodPost, "/api/auth/signout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	decodeBody(t, s.do(t, http.MethodGet, "/api/auth/session", nil, cleared), &body)
	assert.Equal(t, auth.StateUnauthenticated, body.Session.State)
}

func TestSignInCookieIsSiteWideAndHTTPOnly(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == "sitepress_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "/", session.Path)
	assert.True(t, session.HttpOnly)
	assert.False(t, session.Secure)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
}

func TestGuardRejectsSessionOfDeletedUser(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/admin/leads", nil, cookies).Code)

	require.NoError(t, s.db.Where("email = ?", testAdminEmail).Delete(&db.User{}).Error)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/admin/leads", nil, cookies).Code)
	w := s.do(t, http.MethodPost, "/api/admin/services", gin.H{"title": "Roofing", "description": "d"}, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/tables/projects", gin.H{"title": "Barn", "location": "Waco", "type": "Renovation"}, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignUpDisabledByDefault(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	w := s.do(t, http.MethodPost, "/api/auth/signup", gin.H{"email": "new@example.com", "password": "secret123"}, nil)
	assertErrorMessage(t, w, http.StatusForbidden, "disabled")
}

func TestSignUpCreatesAccount(t *testing.T) {
	s := setupHandlerTest(t, Options{AllowSignup: true})

	w := s.do(t, http.MethodPost, "/api/auth/signup", gin.H{"email": "New@Example.com", "password": "secret123"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/signup", gin.H{"email": "new@example.com", "password": "secret123"}, nil)
	assertErrorMessage(t, w, http.StatusConflict, "already registered")

	w = s.do(t, http.MethodPost, "/api/auth/signup", gin.H{"email": "short@example.com", "password": "123"}, nil)
	assertErrorMessage(t, w, http.StatusBadRequest, "at least 6")
}

func TestSessionEventsUnauthenticatedEndsAfterState(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	w := s.do(t, http.MethodGet, "/api/auth/events", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, w.Body.String(), "event:state")
	assert.Contains(t, w.Body.String(), string(auth.StateUnauthenticated))
}

func TestSessionEventsStreamsSignOut(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	server := httptest.NewServer(s.engine)
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp, err := client.Post(server.URL+"/api/auth/signin", "application/json",
		bytes.NewBufferString(`{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/auth/events", nil)
	require.NoError(t, err)
	stream, err := (&http.Client{Jar: jar}).Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	events := make(chan string, 8)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event:") {
				events <- strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			}
		}
	}()

	require.Equal(t, "state", <-events)

	resp, err = client.Post(server.URL+"/api/auth/signout", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	select {
	case name := <-events:
		assert.Equal(t, string(auth.EventSignedOut), name)
	case <-ctx.Done():
		t.Fatal("timed out waiting for signed_out event")
	}

	// 收到登出事件后服务端结束事件流
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-ctx.Done():
		t.Fatal("stream was not closed after sign out")
	}
}
