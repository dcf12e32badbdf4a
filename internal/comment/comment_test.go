package comment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/pkg/models"
)

var now = time.Date(2026, 5, 4, 15, 4, 5, 0, time.UTC)

func readerState(t *testing.T) *state.State {
	st := state.New()
	st.Stories = append(st.Stories, &models.Story{ID: 7, Chapters: []models.Chapter{{Title: "a"}, {Title: "b"}}})
	st.Session = &models.Session{Username: "ada", Name: "Ada"}
	_, err := reading.Read(st, 7, 1)
	require.NoError(t, err)
	return st
}

func TestSubmit(t *testing.T) {
	st := readerState(t)
	c, err := Submit(st, "  lovely  ", 4, now)
	require.NoError(t, err)
	assert.Equal(t, models.Comment{UserName: "Ada", Text: "lovely", Rating: 4, Timestamp: "5/4/2026, 3:04:05 PM"}, c)

	_, err = Submit(st, "again", 5, now)
	require.NoError(t, err)

	list := List(st, 7, 1)
	require.Len(t, list, 2)
	assert.Equal(t, "lovely", list[0].Text)
	assert.Equal(t, "again", list[1].Text)
	assert.Empty(t, List(st, 7, 0))
	assert.Contains(t, st.Comments, "7-1")
}

func TestSubmitValidation(t *testing.T) {
	st := readerState(t)
	_, err := Submit(st, " ", 3, now)
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = Submit(st, "ok", 0, now)
	assert.ErrorIs(t, err, ErrRatingRequired)
	_, err = Submit(st, "ok", 6, now)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = Submit(st, "ok", -1, now)
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Empty(t, st.Comments)

	st.Session = nil
	_, err = Submit(st, "ok", 3, now)
	assert.ErrorIs(t, err, state.ErrLoginRequired)

	st.Session = &models.Session{Username: "ada"}
	st.Reading = nil
	_, err = Submit(st, "ok", 3, now)
	assert.ErrorIs(t, err, reading.ErrNotReading)
}

func TestAverageRating(t *testing.T) {
	st := state.New()
	_, ok := AverageRating(st)
	assert.False(t, ok)

	st.Comments["1-0"] = []models.Comment{{Rating: 5}, {Rating: 4}}
	st.Comments["2-3"] = []models.Comment{{Rating: 3}}
	avg, ok := AverageRating(st)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, avg, 0.0001)
}
