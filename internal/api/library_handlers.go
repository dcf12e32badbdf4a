package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storyhub/internal/comment"
	"storyhub/internal/library"
	"storyhub/internal/newsletter"
	"storyhub/internal/reading"
	"storyhub/internal/settings"
	"storyhub/internal/state"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

func (s *Server) handleBookmarks(c *gin.Context) {
	var cards []view.StoryCard
	var err error
	s.store.View(func(st *state.State) {
		var list []*models.Story
		if list, err = library.List(st); err == nil {
			cards = view.Cards(st, list)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": cards})
}

func (s *Server) handleToggleBookmark(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var saved bool
	err = s.store.Update(EventBookmarks, func(st *state.State) error {
		var err error
		saved, err = library.Toggle(st, id)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": saved})
}

// commentsTarget reads story_id and chapter from the query, falling back to
// the chapter open in the reader.
func commentsTarget(c *gin.Context, st *state.State) (int64, int, error) {
	raw := c.Query("story_id")
	if raw == "" {
		if st.CurrentStory() == nil {
			return 0, 0, reading.ErrNotReading
		}
		return st.Reading.StoryID, st.Reading.Chapter, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid story_id", errBadRequest)
	}
	ch, err := strconv.Atoi(c.DefaultQuery("chapter", "0"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid chapter", errBadRequest)
	}
	return id, ch, nil
}

func (s *Server) commentsView(c *gin.Context) (v view.Comments, err error) {
	s.store.View(func(st *state.State) {
		var id int64
		var ch int
		if id, ch, err = commentsTarget(c, st); err == nil {
			v = view.CommentsFor(st, id, ch)
		}
	})
	return v, err
}

func (s *Server) handleComments(c *gin.Context) {
	v, err := s.commentsView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleSubmitComment(c *gin.Context) {
	var req struct {
		Text   string `json:"text"`
		Rating int    `json:"rating"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	var saved models.Comment
	err := s.store.Update(EventComment, func(st *state.State) error {
		var err error
		saved, err = comment.Submit(st, req.Text, req.Rating, s.now())
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	err := s.store.Update(EventSubscribe, func(st *state.State) error {
		return newsletter.Subscribe(st, req.Email)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (s *Server) handleSettings(c *gin.Context) {
	var v models.ReaderSettings
	s.store.View(func(st *state.State) { v = st.Settings })
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var p settings.Patch
	if err := bindJSON(c, &p); err != nil {
		s.fail(c, err)
		return
	}
	var v models.ReaderSettings
	err := s.store.Update(EventSettings, func(st *state.State) error {
		var err error
		v, err = settings.Apply(st, p)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": v, "palette": view.PaletteFor(v.Theme)})
}
