package api

import (
	"storyhub/internal/view"
	"storyhub/pkg/models"
)

// Handlers copy what they return while still holding the store lock, so the
// response is encoded without touching shared state.

func storyCopy(s *models.Story) models.Story {
	cp := *s
	cp.Chapters = append([]models.Chapter(nil), s.Chapters...)
	return cp
}

func sessionCopy(sess *models.Session) *models.Session {
	if sess == nil {
		return nil
	}
	cp := *sess
	return &cp
}

func editorView(s *models.Story) view.Editor {
	v := view.EditorFor(s)
	cp := storyCopy(s)
	v.Story = &cp
	return v
}
