package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/auth"
	"github.com/sitepress/internal/service"
)

// sseHeartbeat 控制事件流心跳间隔，防止代理断开空闲连接
var sseHeartbeat = 25 * time.Second

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn 校验账号密码并写入会话
func (a *API) SignIn(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "Invalid login request") {
		return
	}

	user, err := a.accounts.SignIn(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("[auth] failed sign in for %q from %s", payload.Email, c.ClientIP())
			respondError(c, http.StatusUnauthorized, "Invalid login credentials")
			return
		}
		respondServiceError(c, "sign in", err, "Failed to sign in")
		return
	}

	if err := auth.Start(c, user.ID, user.Email); err != nil {
		respondServiceError(c, "save session", err, "Failed to save session")
		return
	}
	a.sessions.Publish(auth.Event{Type: auth.EventSignedIn, UserID: user.ID, At: time.Now()})
	log.Printf("[auth] %s signed in", user.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"session": auth.Session{State: auth.StateAuthenticated, UserID: user.ID, Email: user.Email},
	})
}

// SignUp 创建管理员账号，需通过配置开启
func (a *API) SignUp(c *gin.Context) {
	if !a.allowSignup {
		respondError(c, http.StatusForbidden, "Sign up is disabled")
		return
	}

	var payload credentialsPayload
	if !bindJSON(c, &payload, "Invalid sign up request") {
		return
	}

	user, err := a.accounts.SignUp(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "User already registered")
			return
		}
		respondServiceError(c, "sign up", err, "Failed to create account")
		return
	}

	if err := auth.Start(c, user.ID, user.Email); err != nil {
		respondServiceError(c, "save session", err, "Failed to save session")
		return
	}
	a.sessions.Publish(auth.Event{Type: auth.EventSignedIn, UserID: user.ID, At: time.Now()})
	log.Printf("[auth] %s signed up", user.Email)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"session": auth.Session{State: auth.StateAuthenticated, UserID: user.ID, Email: user.Email},
	})
}

// SignOut 清除会话并通知该用户的事件订阅者
func (a *API) SignOut(c *gin.Context) {
	current := auth.Current(c)
	if err := auth.End(c); err != nil {
		respondServiceError(c, "clear session", err, "Failed to sign out")
		return
	}
	if current.State == auth.StateAuthenticated {
		a.sessions.Publish(auth.Event{Type: auth.EventSignedOut, UserID: current.UserID, At: time.Now()})
		log.Printf("[auth] %s signed out", current.Email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

// CurrentSession reports the session state. A session whose user no longer
// exists is cleared and reported as unauthenticated.
func (a *API) CurrentSession(c *gin.Context) {
	current := auth.Current(c)
	if current.State == auth.StateAuthenticated {
		if _, err := a.accounts.Get(c.Request.Context(), current.UserID); err != nil {
			if !errors.Is(err, service.ErrUserNotFound) {
				respondServiceError(c, "load session user", err, "Failed to load session")
				return
			}
			if err := auth.End(c); err != nil {
				log.Printf("[ERROR] clear stale session: %v", err)
			}
			current = auth.Session{State: auth.StateUnauthenticated}
		}
	}
	c.JSON(http.StatusOK, gin.H{"session": current})
}

// SessionEvents streams session changes as Server-Sent Events. The first
// event is always the current state; unauthenticated streams end there.
func (a *API) SessionEvents(c *gin.Context) {
	current := auth.Current(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if current.State != auth.StateAuthenticated {
		c.SSEvent("state", current)
		c.Writer.Flush()
		return
	}

	// 先订阅再发送初始状态，避免错过两者之间发生的变化
	events, cancel := a.sessions.Subscribe(current.UserID)
	defer cancel()
	c.SSEvent("state", current)
	c.Writer.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
			if ev.Type == auth.EventSignedOut {
				return
			}
		}
	}
}
