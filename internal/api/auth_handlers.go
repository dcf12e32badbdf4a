package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/auth"
	"storyhub/internal/state"
	"storyhub/pkg/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	var sess models.Session
	err := s.store.Update(EventSession, func(st *state.State) error {
		got, err := auth.Login(st, s.writer, req.Username, req.Password)
		if err != nil {
			return err
		}
		sess = *got
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleSignup(c *gin.Context) {
	var form auth.SignupForm
	if err := bindJSON(c, &form); err != nil {
		s.fail(c, err)
		return
	}
	var sess models.Session
	err := s.store.Update(EventSession, func(st *state.State) error {
		got, err := auth.Signup(st, s.writer, form)
		if err != nil {
			return err
		}
		sess = *got
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusCreated, sess)
}

// respondSession returns the signed-in session with a bearer token for the
// editor routes.
func (s *Server) respondSession(c *gin.Context, code int, sess models.Session) {
	token, err := auth.SignJWT(s.secret, sess.Username, sess.IsWriter, s.ttl)
	if err != nil {
		s.internal(c, err)
		return
	}
	c.JSON(code, gin.H{"token": token, "user": sess})
}

func (s *Server) handleLogout(c *gin.Context) {
	err := s.store.Update(EventSession, func(st *state.State) error {
		return auth.Logout(st, confirmed(c))
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleSession(c *gin.Context) {
	var sess *models.Session
	s.store.View(func(st *state.State) { sess = sessionCopy(st.Session) })
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

func (s *Server) handlePasswordStrength(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, auth.PasswordStrength(req.Password))
}
