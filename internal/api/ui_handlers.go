package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/catalog"
	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

// handleCardsHTML renders search results when q is set, otherwise the
// filtered catalogue.
func (s *Server) handleCardsHTML(c *gin.Context) {
	var cards []view.StoryCard
	var err error
	s.store.View(func(st *state.State) {
		var list []*models.Story
		if q, ok := c.GetQuery("q"); ok {
			list, err = catalog.Search(st, q)
		} else {
			list, err = catalog.Apply(st, catalog.Filter(c.DefaultQuery("filter", string(catalog.FilterAll))))
		}
		if err == nil {
			cards = view.Cards(st, list)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "cards", cards)
}

func (s *Server) handleReaderHTML(c *gin.Context) {
	v, ok := s.readerView()
	if !ok {
		s.fail(c, reading.ErrNotReading)
		return
	}
	c.HTML(http.StatusOK, "reader", v)
}

func (s *Server) handleTOCHTML(c *gin.Context) {
	var v view.TOC
	var ok bool
	s.store.View(func(st *state.State) { v, ok = view.TOCFor(st) })
	if !ok {
		s.fail(c, reading.ErrNotReading)
		return
	}
	c.HTML(http.StatusOK, "toc", v)
}

func (s *Server) handleCommentsHTML(c *gin.Context) {
	v, err := s.commentsView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "comments", v)
}

func (s *Server) handleDashboardHTML(c *gin.Context) {
	var v view.Dashboard
	s.store.View(func(st *state.State) { v = view.DashboardFor(st) })
	c.HTML(http.StatusOK, "dashboard", v)
}
