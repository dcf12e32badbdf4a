// Package comment stores per-chapter comments. Comments are append only.
package comment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/pkg/models"
)

// TimestampLayout formats the comment timestamp shown to readers.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

var (
	ErrEmptyComment   = errors.New("write a comment")
	ErrRatingRequired = errors.New("select a rating")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Key addresses the comments of one chapter. It uses the chapter position,
// so it goes stale when chapters are reordered or deleted.
func Key(storyID int64, chapter int) string {
	return fmt.Sprintf("%d-%d", storyID, chapter)
}

// Submit appends a comment to the chapter open in the reader.
func Submit(st *state.State, text string, rating int, now time.Time) (models.Comment, error) {
	sess, err := st.RequireSession()
	if err != nil {
		return models.Comment{}, err
	}
	if st.CurrentStory() == nil {
		return models.Comment{}, reading.ErrNotReading
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}
	if rating == 0 {
		return models.Comment{}, ErrRatingRequired
	}
	if rating < 1 || rating > 5 {
		return models.Comment{}, fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	c := models.Comment{
		UserName:  sess.Name,
		Text:      text,
		Rating:    rating,
		Timestamp: now.Format(TimestampLayout),
	}
	key := Key(st.Reading.StoryID, st.Reading.Chapter)
	st.Comments[key] = append(st.Comments[key], c)
	return c, nil
}

func List(st *state.State, storyID int64, chapter int) []models.Comment {
	return st.Comments[Key(storyID, chapter)]
}

// AverageRating over every stored comment; ok is false when there are none.
func AverageRating(st *state.State) (avg float64, ok bool) {
	total, n := 0, 0
	for _, list := range st.Comments {
		for _, c := range list {
			total += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(total) / float64(n), true
}
