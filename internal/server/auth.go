package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "currentUser"

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid login payload", "errors": gin.H{"email": []string{err.Error()}}})
		return
	}

	user := s.store.userByEmail(req.Email)
	if user == nil || user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	access, err := s.issueAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}

	refresh := newRefreshToken()
	s.store.storeRefreshToken(refresh, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user":    user.User,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func (s *Server) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "refresh token required"})
		return
	}

	user := s.store.userForRefreshToken(req.Refresh)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}

	access, err := s.issueAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "refresh token required"})
		return
	}

	s.store.revokeRefreshToken(req.Refresh)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) issueAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func newRefreshToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// requireAuth validates the bearer token and loads the account into
// the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token expired or invalid"})
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token expired or invalid"})
			return
		}
		user := s.store.userByID(sub)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unknown account"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *devUser {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*devUser); ok {
			return u
		}
	}
	return nil
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).User)
}

// updateMe accepts the multipart profile update the client sends, an
// avatar part included. The avatar content is discarded; only a fake
// URL is recorded.
func (s *Server) updateMe(c *gin.Context) {
	user := currentUser(c)

	s.store.mu.Lock()
	if name := c.PostForm("name"); name != "" {
		user.Name = name
	}
	if email := c.PostForm("email"); email != "" {
		user.Email = email
	}
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		user.Avatar = "/media/avatars/" + user.ID + "/" + file.Filename
	}
	s.store.mu.Unlock()

	c.JSON(http.StatusOK, user.User)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "errors": gin.H{"new_password": []string{err.Error()}}})
		return
	}

	user := currentUser(c)
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if user.Password != req.OldPassword {
		c.JSON(http.StatusBadRequest, gin.H{"message": "old password does not match", "errors": gin.H{"old_password": []string{"does not match"}}})
		return
	}
	user.Password = req.NewPassword
	c.JSON(http.StatusOK, gin.H{"success": true})
}
