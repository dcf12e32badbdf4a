package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

func (s *Server) handleReader(c *gin.Context) {
	v, ok := s.readerView()
	if !ok {
		s.fail(c, reading.ErrNotReading)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) readerView() (v view.Reader, ok bool) {
	s.store.View(func(st *state.State) { v, ok = view.ReaderFor(st) })
	return v, ok
}

func (s *Server) handleTOC(c *gin.Context) {
	var v view.TOC
	var ok bool
	s.store.View(func(st *state.State) { v, ok = view.TOCFor(st) })
	if !ok {
		s.fail(c, reading.ErrNotReading)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleOpen(c *gin.Context) {
	var req struct {
		StoryID int64 `json:"story_id" binding:"required"`
		Chapter int   `json:"chapter"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.moveReader(c, func(st *state.State) (*models.Story, error) {
		return reading.Read(st, req.StoryID, req.Chapter)
	})
}

func (s *Server) handleStart(c *gin.Context) { s.moveReader(c, reading.StartReading) }
func (s *Server) handleNext(c *gin.Context)  { s.moveReader(c, reading.Next) }
func (s *Server) handlePrev(c *gin.Context)  { s.moveReader(c, reading.Prev) }

// moveReader applies a navigation op and returns the reader page it leads to.
func (s *Server) moveReader(c *gin.Context, op func(*state.State) (*models.Story, error)) {
	var v view.Reader
	err := s.store.Update(EventReading, func(st *state.State) error {
		if _, err := op(st); err != nil {
			return err
		}
		v, _ = view.ReaderFor(st)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleProgress(c *gin.Context) {
	var req struct {
		Percent *float64 `json:"percent" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	var pct float64
	var completion int
	err := s.store.Update(EventProgress, func(st *state.State) error {
		var err error
		if pct, err = reading.RecordScroll(st, *req.Percent); err != nil {
			return err
		}
		completion = reading.Completion(st, st.Reading.StoryID)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"percent": pct, "completion": completion})
}
