// Package state holds the application state: the persisted collections plus
// the transient reading and editing selection. Feature packages receive a
// *State explicitly and mutate it through Store.Update.
package state

import (
	"errors"
	"fmt"

	"storyhub/internal/storage"
	"storyhub/pkg/models"
)

var (
	ErrLoginRequired   = errors.New("login required")
	ErrNotConfirmed    = errors.New("confirmation required")
	ErrStoryNotFound   = errors.New("story not found")
	ErrChapterNotFound = errors.New("chapter not found")
)

// Selection is the story and chapter currently open in the reader.
type Selection struct {
	StoryID int64
	Chapter int
}

// EditTarget is the story (and optionally chapter) open in the editor.
type EditTarget struct {
	StoryID int64
	Chapter *int
	Open    bool
}

type State struct {
	Stories     []*models.Story
	Users       []*models.User
	Session     *models.Session
	Bookmarks   []int64
	Subscribers []string
	Settings    models.ReaderSettings
	Comments    map[string][]models.Comment
	Progress    map[string]*models.StoryProgress

	Reading *Selection
	Editing *EditTarget
}

func New() *State {
	return &State{
		Stories:     []*models.Story{},
		Users:       []*models.User{},
		Bookmarks:   []int64{},
		Subscribers: []string{},
		Settings:    models.DefaultReaderSettings(),
		Comments:    map[string][]models.Comment{},
		Progress:    map[string]*models.StoryProgress{},
	}
}

// FindStory returns the story with id and its position, or nil and -1.
func (s *State) FindStory(id int64) (*models.Story, int) {
	for i, st := range s.Stories {
		if st.ID == id {
			return st, i
		}
	}
	return nil, -1
}

func (s *State) Story(id int64) (*models.Story, error) {
	st, _ := s.FindStory(id)
	if st == nil {
		return nil, fmt.Errorf("%w: id %d", ErrStoryNotFound, id)
	}
	return st, nil
}

func (s *State) RequireSession() (*models.Session, error) {
	if s.Session == nil {
		return nil, ErrLoginRequired
	}
	return s.Session, nil
}

func (s *State) FindUser(username string) *models.User {
	for _, u := range s.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *State) IsBookmarked(id int64) bool {
	for _, b := range s.Bookmarks {
		if b == id {
			return true
		}
	}
	return false
}

// CurrentStory is the story open in the reader, if any.
func (s *State) CurrentStory() *models.Story {
	if s.Reading == nil {
		return nil
	}
	st, _ := s.FindStory(s.Reading.StoryID)
	return st
}

// normalize replaces nil collections left by "null" documents.
func (s *State) normalize() {
	if s.Stories == nil {
		s.Stories = []*models.Story{}
	}
	if s.Users == nil {
		s.Users = []*models.User{}
	}
	if s.Bookmarks == nil {
		s.Bookmarks = []int64{}
	}
	if s.Subscribers == nil {
		s.Subscribers = []string{}
	}
	if s.Comments == nil {
		s.Comments = map[string][]models.Comment{}
	}
	if s.Progress == nil {
		s.Progress = map[string]*models.StoryProgress{}
	}
	for _, st := range s.Stories {
		if st.Chapters == nil {
			st.Chapters = []models.Chapter{}
		}
	}
}

// Collections returns the persisted collections keyed by storage key.
func (s *State) Collections() map[string]any {
	return map[string]any{
		storage.KeyStories:        s.Stories,
		storage.KeyUsers:          s.Users,
		storage.KeyCurrentUser:    s.Session,
		storage.KeyBookmarks:      s.Bookmarks,
		storage.KeySubscribers:    s.Subscribers,
		storage.KeyReaderSettings: s.Settings,
		storage.KeyComments:       s.Comments,
		storage.KeyStoryProgress:  s.Progress,
	}
}

// Bundle snapshots the persisted collections in backup form.
func (s *State) Bundle() models.Bundle {
	settings := s.Settings
	return models.Bundle{
		Stories:        s.Stories,
		Users:          s.Users,
		CurrentUser:    s.Session,
		Bookmarks:      s.Bookmarks,
		Subscribers:    s.Subscribers,
		ReaderSettings: &settings,
		Comments:       s.Comments,
		StoryProgress:  s.Progress,
	}
}
