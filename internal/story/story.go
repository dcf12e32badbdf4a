// Package story implements the writer's editor: story and chapter CRUD,
// publishing, cover images and the auto-save ticker.
package story

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storyhub/internal/state"
	"storyhub/internal/upload"
	"storyhub/pkg/models"
)

const (
	DefaultTitle = "Untitled Story"
	DefaultGenre = "Romance"
)

var (
	ErrNoChapters             = errors.New("add at least one chapter before publishing")
	ErrUntitled               = errors.New("give your story a title")
	ErrChapterTitleRequired   = errors.New("enter chapter title")
	ErrChapterContentRequired = errors.New("write some content")
	ErrInvalidStatus          = errors.New("unknown story status")
)

// Create appends a blank story and opens it in the editor. The id comes from
// the clock and is bumped past any id already taken.
func Create(st *state.State, now time.Time) *models.Story {
	id := now.UnixMilli()
	for {
		if s, _ := st.FindStory(id); s == nil {
			break
		}
		id++
	}
	s := &models.Story{
		ID:       id,
		Title:    DefaultTitle,
		Genre:    DefaultGenre,
		Status:   models.StatusUpcoming,
		Chapters: []models.Chapter{},
	}
	st.Stories = append(st.Stories, s)
	st.Editing = &state.EditTarget{StoryID: id, Open: true}
	return s
}

// Edit opens an existing story in the editor.
func Edit(st *state.State, id int64) (*models.Story, error) {
	s, err := st.Story(id)
	if err != nil {
		return nil, err
	}
	st.Editing = &state.EditTarget{StoryID: id, Open: true}
	return s, nil
}

func CloseEditor(st *state.State) {
	st.Editing = nil
}

type Details struct {
	Title         string             `json:"title" form:"title"`
	Genre         string             `json:"genre" form:"genre"`
	Status        models.StoryStatus `json:"status" form:"status"`
	Description   string             `json:"description" form:"description"`
	Bestseller    bool               `json:"bestseller" form:"bestseller"`
	Mature        bool               `json:"mature" form:"mature"`
	ScheduledDate *time.Time         `json:"scheduledDate" form:"scheduledDate"`
}

// SaveDetails writes the editor form onto the story.
func SaveDetails(st *state.State, id int64, d Details) (*models.Story, error) {
	s, err := st.Story(id)
	if err != nil {
		return nil, err
	}
	if d.Status == "" {
		d.Status = s.Status
	}
	if !d.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	s.Title = d.Title
	if s.Title == "" {
		s.Title = DefaultTitle
	}
	s.Genre = d.Genre
	s.Status = d.Status
	s.Description = d.Description
	s.Bestseller = d.Bestseller
	s.Mature = d.Mature
	s.ScheduledDate = d.ScheduledDate
	return s, nil
}

type ChapterForm struct {
	Title            string `json:"title" form:"title"`
	Content          string `json:"content" form:"content"`
	TriggerWarnings  string `json:"triggerWarnings" form:"triggerWarnings"`
	AuthorNoteTop    string `json:"authorNoteTop" form:"authorNoteTop"`
	AuthorNoteBottom string `json:"authorNoteBottom" form:"authorNoteBottom"`
}

// SaveChapter appends a chapter when index is nil, otherwise replaces the
// chapter at index. Title and content are required.
func SaveChapter(st *state.State, id int64, index *int, f ChapterForm) (int, error) {
	s, err := st.Story(id)
	if err != nil {
		return 0, err
	}
	ch := models.Chapter{
		Title:            strings.TrimSpace(f.Title),
		Content:          strings.TrimSpace(f.Content),
		TriggerWarnings:  strings.TrimSpace(f.TriggerWarnings),
		AuthorNoteTop:    strings.TrimSpace(f.AuthorNoteTop),
		AuthorNoteBottom: strings.TrimSpace(f.AuthorNoteBottom),
	}
	if ch.Title == "" {
		return 0, ErrChapterTitleRequired
	}
	if ch.Content == "" {
		return 0, ErrChapterContentRequired
	}
	if index == nil {
		s.Chapters = append(s.Chapters, ch)
		return len(s.Chapters) - 1, nil
	}
	if *index < 0 || *index >= len(s.Chapters) {
		return 0, fmt.Errorf("%w: index %d", state.ErrChapterNotFound, *index)
	}
	s.Chapters[*index] = ch
	return *index, nil
}

// NewChapterTitle is the placeholder title offered for the next chapter.
func NewChapterTitle(s *models.Story) string {
	return fmt.Sprintf("Chapter %d", len(s.Chapters)+1)
}

// DeleteChapter removes the chapter at index. Later chapters shift down, so
// comments and progress recorded against their old index now point elsewhere.
func DeleteChapter(st *state.State, id int64, index int, confirmed bool) error {
	s, err := st.Story(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(s.Chapters) {
		return fmt.Errorf("%w: index %d", state.ErrChapterNotFound, index)
	}
	if !confirmed {
		return state.ErrNotConfirmed
	}
	s.Chapters = append(s.Chapters[:index], s.Chapters[index+1:]...)
	return nil
}

func Publish(st *state.State, id int64) (*models.Story, error) {
	s, err := st.Story(id)
	if err != nil {
		return nil, err
	}
	if len(s.Chapters) == 0 {
		return nil, ErrNoChapters
	}
	if s.Title == "" || s.Title == DefaultTitle {
		return nil, ErrUntitled
	}
	s.Status = models.StatusOngoing
	return s, nil
}

// Delete removes the story. Bookmarks, comments and progress that reference
// it are left as they are.
func Delete(st *state.State, id int64, confirmed bool) error {
	_, idx := st.FindStory(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", state.ErrStoryNotFound, id)
	}
	if !confirmed {
		return state.ErrNotConfirmed
	}
	st.Stories = append(st.Stories[:idx], st.Stories[idx+1:]...)
	if st.Editing != nil && st.Editing.StoryID == id {
		st.Editing = nil
	}
	if st.Reading != nil && st.Reading.StoryID == id {
		st.Reading = nil
	}
	return nil
}

func SetCover(st *state.State, id int64, img upload.Image) error {
	s, err := st.Story(id)
	if err != nil {
		return err
	}
	cover := img.DataURL
	s.CoverImage = &cover
	return nil
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

type Stats struct {
	Chapters int `json:"chapters"`
	Words    int `json:"words"`
}

func StatsFor(s *models.Story) Stats {
	words := 0
	for _, ch := range s.Chapters {
		words += WordCount(ch.Content)
	}
	return Stats{Chapters: len(s.Chapters), Words: words}
}
