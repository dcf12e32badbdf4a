package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/state"
	"storyhub/internal/story"
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

func (s *Server) handleDashboard(c *gin.Context) {
	var v view.Dashboard
	s.store.View(func(st *state.State) { v = view.DashboardFor(st) })
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleCreateStory(c *gin.Context) {
	var v view.Editor
	err := s.store.Update(EventStory, func(st *state.State) error {
		v = editorView(story.Create(st, s.now()))
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (s *Server) handleEditStory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var v view.Editor
	err = s.store.Update(EventEditor, func(st *state.State) error {
		sp, err := story.Edit(st, id)
		if err != nil {
			return err
		}
		v = editorView(sp)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleCloseEditor(c *gin.Context) {
	_ = s.store.Update(EventEditor, func(st *state.State) error {
		story.CloseEditor(st)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleSaveDetails(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var d story.Details
	if err := bindJSON(c, &d); err != nil {
		s.fail(c, err)
		return
	}
	s.updateStory(c, EventStory, http.StatusOK, func(st *state.State) (*models.Story, error) {
		return story.SaveDetails(st, id, d)
	})
}

func (s *Server) handlePublish(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.updateStory(c, EventPublished, http.StatusOK, func(st *state.State) (*models.Story, error) {
		return story.Publish(st, id)
	})
}

func (s *Server) handleCover(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	img, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.updateStory(c, EventStory, http.StatusOK, func(st *state.State) (*models.Story, error) {
		if err := story.SetCover(st, id, img); err != nil {
			return nil, err
		}
		return st.Story(id)
	})
}

// updateStory runs op and answers with the editor view of the story it
// returns.
func (s *Server) updateStory(c *gin.Context, kind string, code int, op func(*state.State) (*models.Story, error)) {
	var v view.Editor
	err := s.store.Update(kind, func(st *state.State) error {
		sp, err := op(st)
		if err != nil {
			return err
		}
		v = editorView(sp)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(code, v)
}

func (s *Server) handleDeleteStory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	err = s.store.Update(EventDeleted, func(st *state.State) error {
		return story.Delete(st, id, confirmed(c))
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleAddChapter(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.saveChapter(c, id, nil)
}

func (s *Server) handleUpdateChapter(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	idx, err := indexParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.saveChapter(c, id, &idx)
}

func (s *Server) saveChapter(c *gin.Context, id int64, index *int) {
	var form story.ChapterForm
	if err := bindJSON(c, &form); err != nil {
		s.fail(c, err)
		return
	}
	var saved int
	var v view.Editor
	err := s.store.Update(EventChapter, func(st *state.State) error {
		var err error
		if saved, err = story.SaveChapter(st, id, index, form); err != nil {
			return err
		}
		sp, _ := st.FindStory(id)
		v = editorView(sp)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	code := http.StatusOK
	if index == nil {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"index": saved, "editor": v})
}

func (s *Server) handleDeleteChapter(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	idx, err := indexParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	err = s.store.Update(EventChapter, func(st *state.State) error {
		return story.DeleteChapter(st, id, idx, confirmed(c))
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
