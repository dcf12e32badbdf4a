package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storyhub/internal/catalog"
	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/internal/story"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

func (s *Server) handleListStories(c *gin.Context) {
	f := catalog.Filter(c.DefaultQuery("filter", string(catalog.FilterAll)))
	var cards []view.StoryCard
	var err error
	s.store.View(func(st *state.State) {
		var list []*models.Story
		if list, err = catalog.Apply(st, f); err == nil {
			cards = view.Cards(st, list)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "stories": cards})
}

func (s *Server) handlePopular(c *gin.Context) {
	var cards []view.StoryCard
	s.store.View(func(st *state.State) { cards = view.Cards(st, catalog.Popular(st)) })
	c.JSON(http.StatusOK, gin.H{"stories": cards})
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	var cards []view.StoryCard
	var err error
	s.store.View(func(st *state.State) {
		var list []*models.Story
		if list, err = catalog.Search(st, q); err == nil {
			cards = view.Cards(st, list)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": strings.TrimSpace(q), "count": len(cards), "results": cards})
}

func (s *Server) handleStory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var resp gin.H
	s.store.View(func(st *state.State) {
		var sp *models.Story
		if sp, err = st.Story(id); err != nil {
			return
		}
		resp = gin.H{
			"story":      storyCopy(sp),
			"stats":      story.StatsFor(sp),
			"bookmarked": st.IsBookmarked(id),
			"completion": reading.Completion(st, id),
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleShare(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var text string
	s.store.View(func(st *state.State) {
		var sp *models.Story
		if sp, err = st.Story(id); err == nil {
			text = view.ShareText(sp, s.writer.Name)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (s *Server) handleQuote(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req struct {
		Quote string `json:"quote" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	var text string
	s.store.View(func(st *state.State) {
		var sp *models.Story
		if sp, err = st.Story(id); err == nil {
			text = view.QuoteText(strings.TrimSpace(req.Quote), sp, s.writer.Name)
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (s *Server) handleStats(c *gin.Context) {
	var v view.SiteStats
	s.store.View(func(st *state.State) { v = view.StatsFor(st) })
	c.JSON(http.StatusOK, v)
}
