package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/apiclient/logger"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type newPost struct {
	UserID int    `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "username and password are required")
		return
	}
	if req.Username != s.cfg.Username ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		abort(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}
	s.respondTokens(c, req.Username)
}

func (s *Server) refresh(c *gin.Context) {
	s.refreshCalls.Add(1)

	if gate := s.refreshGate(); gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "refreshToken is required")
		return
	}
	if s.failRefresh.Load() {
		abort(c, http.StatusUnauthorized, "REFRESH_REJECTED", "refresh is disabled")
		return
	}

	access, next, ok, err := s.tokens.rotate(req.RefreshToken)
	if err != nil {
		s.log.Error("token rotation failed", logger.ErrorFields("refresh", err))
		abort(c, http.StatusInternalServerError, "INTERNAL", "could not issue tokens")
		return
	}
	if !ok {
		abort(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token is not valid")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: next})
}

func (s *Server) expire(c *gin.Context) {
	gen := s.Expire()
	c.JSON(http.StatusOK, gin.H{"generation": gen})
}

func (s *Server) respondTokens(c *gin.Context, subject string) {
	access, refresh, err := s.tokens.issue(subject)
	if err != nil {
		s.log.Error("token issue failed", logger.ErrorFields("login", err))
		abort(c, http.StatusInternalServerError, "INTERNAL", "could not issue tokens")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.data.listUsers())
}

func (s *Server) getUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "id must be an integer")
		return
	}
	u, ok := s.data.user(id)
	if !ok {
		abort(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listPosts(c *gin.Context) {
	var userID int
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, "BAD_REQUEST", "userId must be an integer")
			return
		}
		userID = id
	}
	c.JSON(http.StatusOK, s.data.listPosts(userID))
}

func (s *Server) createPost(c *gin.Context) {
	var req newPost
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if _, ok := s.data.user(req.UserID); !ok {
		abort(c, http.StatusUnprocessableEntity, "UNKNOWN_USER", "userId does not exist")
		return
	}
	p := s.data.addPost(Post{UserID: req.UserID, Title: req.Title, Body: req.Body})
	c.JSON(http.StatusCreated, p)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "id must be an integer")
		return
	}
	if _, ok := s.data.user(id); !ok {
		abort(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "file part is required")
		return
	}
	c.JSON(http.StatusOK, Avatar{
		UserID:      id,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Caption:     c.PostForm("caption"),
	})
}
