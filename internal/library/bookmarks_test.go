package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/internal/state"
	"storyhub/internal/story"
	"storyhub/pkg/models"
)

func TestToggle(t *testing.T) {
	st := state.New()
	_, err := Toggle(st, 1)
	assert.ErrorIs(t, err, state.ErrLoginRequired)

	st.Session = &models.Session{Username: "ada"}
	on, err := Toggle(st, 1)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = Toggle(st, 2)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []int64{1, 2}, st.Bookmarks)

	on, err = Toggle(st, 1)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []int64{2}, st.Bookmarks)
}

func TestListSkipsDeleted(t *testing.T) {
	st := state.New()
	st.Session = &models.Session{Username: "ada"}
	st.Stories = append(st.Stories, &models.Story{ID: 1}, &models.Story{ID: 2}, &models.Story{ID: 3})
	st.Bookmarks = []int64{3, 1}

	list, err := List(st)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	require.NoError(t, story.Delete(st, 3, true))
	list, err = List(st)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	// the stale id stays
	assert.Equal(t, []int64{3, 1}, st.Bookmarks)
}
