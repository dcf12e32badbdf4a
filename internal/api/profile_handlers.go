package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/state"
	"storyhub/internal/upload"
	"storyhub/internal/user"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

func (s *Server) handleProfile(c *gin.Context) {
	var v view.Profile
	var err error
	s.store.View(func(st *state.State) {
		var sess *models.Session
		if sess, err = st.RequireSession(); err == nil {
			v = view.ProfileFor(sess)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var form user.ProfileForm
	if err := bindJSON(c, &form); err != nil {
		s.fail(c, err)
		return
	}
	var sess *models.Session
	err := s.store.Update(EventProfile, func(st *state.State) error {
		got, err := user.UpdateProfile(st, form)
		sess = sessionCopy(got)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

func (s *Server) handleProfilePhoto(c *gin.Context) {
	img, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var sess *models.Session
	err = s.store.Update(EventProfile, func(st *state.State) error {
		got, err := user.SetPhoto(st, img)
		sess = sessionCopy(got)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

// readUpload takes the multipart "file" field through the image checks. It
// runs before the store lock is taken.
func (s *Server) readUpload(c *gin.Context) (upload.Image, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return upload.Image{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	f, err := fh.Open()
	if err != nil {
		return upload.Image{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return upload.Read(f, fh.Size, s.maxUpload)
}
