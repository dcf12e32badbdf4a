// Package reading opens chapters in the reader and tracks per-user scroll
// progress.
package reading

import (
	"errors"
	"fmt"
	"math"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

// CompleteAt is the scroll percentage at which a chapter counts as read.
const CompleteAt = 90.0

var (
	ErrNoStories     = errors.New("no stories available yet")
	ErrNotReading    = errors.New("no story open in the reader")
	ErrNoNextChapter = errors.New("already at the last chapter")
	ErrNoPrevChapter = errors.New("already at the first chapter")
)

// Read opens a chapter. Every successful open counts as a view.
func Read(st *state.State, storyID int64, chapter int) (*models.Story, error) {
	if _, err := st.RequireSession(); err != nil {
		return nil, err
	}
	s, err := st.Story(storyID)
	if err != nil {
		return nil, err
	}
	if chapter < 0 || chapter >= len(s.Chapters) {
		return nil, fmt.Errorf("%w: story %d index %d", state.ErrChapterNotFound, storyID, chapter)
	}
	s.Views++
	st.Reading = &state.Selection{StoryID: storyID, Chapter: chapter}
	return s, nil
}

// StartReading opens the first chapter of the first story.
func StartReading(st *state.State) (*models.Story, error) {
	if _, err := st.RequireSession(); err != nil {
		return nil, err
	}
	if len(st.Stories) == 0 {
		return nil, ErrNoStories
	}
	return Read(st, st.Stories[0].ID, 0)
}

func Next(st *state.State) (*models.Story, error) {
	s := st.CurrentStory()
	if s == nil {
		return nil, ErrNotReading
	}
	if st.Reading.Chapter >= len(s.Chapters)-1 {
		return nil, ErrNoNextChapter
	}
	return Read(st, s.ID, st.Reading.Chapter+1)
}

func Prev(st *state.State) (*models.Story, error) {
	s := st.CurrentStory()
	if s == nil {
		return nil, ErrNotReading
	}
	if st.Reading.Chapter <= 0 {
		return nil, ErrNoPrevChapter
	}
	return Read(st, s.ID, st.Reading.Chapter-1)
}

// ProgressKey is the reading-progress key for a user and story.
func ProgressKey(username string, storyID int64) string {
	return fmt.Sprintf("%s-%d", username, storyID)
}

// RecordScroll stores the highest percentage seen for the open chapter.
// Lower values never overwrite a higher one.
func RecordScroll(st *state.State, percent float64) (float64, error) {
	sess, err := st.RequireSession()
	if err != nil {
		return 0, err
	}
	if st.CurrentStory() == nil {
		return 0, ErrNotReading
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = math.Max(0, math.Min(100, percent))

	key := ProgressKey(sess.Username, st.Reading.StoryID)
	p := st.Progress[key]
	if p == nil {
		p = &models.StoryProgress{Chapters: map[int]float64{}}
		st.Progress[key] = p
	}
	if p.Chapters == nil {
		p.Chapters = map[int]float64{}
	}
	best := math.Max(p.Chapters[st.Reading.Chapter], percent)
	p.Chapters[st.Reading.Chapter] = best
	return best, nil
}

// Completion is the floored percentage of chapters read to CompleteAt by the
// signed-in user. Stale chapter indexes still count, as stored.
func Completion(st *state.State, storyID int64) int {
	if st.Session == nil {
		return 0
	}
	p := st.Progress[ProgressKey(st.Session.Username, storyID)]
	if p == nil {
		return 0
	}
	s, _ := st.FindStory(storyID)
	if s == nil || len(s.Chapters) == 0 {
		return 0
	}
	done := 0
	for _, pct := range p.Chapters {
		if pct >= CompleteAt {
			done++
		}
	}
	return int(math.Floor(float64(done) / float64(len(s.Chapters)) * 100))
}
