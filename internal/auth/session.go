package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey  = "user_id"
	sessionEmailKey = "email"

	// LoginPath 是未登录访问后台页面时的跳转地址
	LoginPath = "/admin/login"

	userContextKey = "__auth_user_id"
)

// State is the guard's view of the current session. The server resolves it
// synchronously per request, so it is never "loading".
type State string

const (
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Session describes who, if anyone, the request is signed in as.
type Session struct {
	State  State  `json:"state"`
	UserID uint   `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Current 从 cookie 会话中解析当前登录状态
func Current(c *gin.Context) Session {
	session := sessions.Default(c)
	id, ok := userIDFrom(session.Get(sessionUserKey))
	if !ok {
		return Session{State: StateUnauthenticated}
	}
	email, _ := session.Get(sessionEmailKey).(string)
	return Session{State: StateAuthenticated, UserID: id, Email: email}
}

// Start 写入登录会话
func Start(c *gin.Context, userID uint, email string) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, userID)
	session.Set(sessionEmailKey, email)
	return session.Save()
}

// End 清除登录会话
func End(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// UserID returns the id the guard stored on c, or 0 outside guarded routes.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(userContextKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// Resolver reports whether a signed-in user id still names a stored account.
type Resolver interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

// Guard 是后台路由的认证中间件：API 请求返回 401，页面请求跳转到登录页。
// users 非 nil 时会确认会话中的用户仍然存在，已删除用户的会话会被清除。
func Guard(users Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := Current(c)
		if current.State == StateAuthenticated && users != nil {
			ok, err := users.UserExists(c.Request.Context(), current.UserID)
			if err != nil {
				log.Printf("[ERROR] resolve session user %d: %v", current.UserID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
				return
			}
			if !ok {
				if err := End(c); err != nil {
					log.Printf("[ERROR] end stale session: %v", err)
				}
				current = Session{State: StateUnauthenticated}
			}
		}
		if current.State != StateAuthenticated {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
				return
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(userContextKey, current.UserID)
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// gob 编码的 cookie 会话可能把数字还原成不同的整型
func userIDFrom(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, id != 0
	case uint64:
		return uint(id), id != 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	default:
		return 0, false
	}
}
