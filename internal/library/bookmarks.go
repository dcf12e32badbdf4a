// Package library manages bookmarks. Bookmarks belong to the installation,
// not to a user, but changing them needs a signed-in session.
package library

import (
	"storyhub/internal/state"
	"storyhub/pkg/models"
)

// Toggle adds or removes storyID and reports whether it is now bookmarked.
// Ids are not checked against the story collection.
func Toggle(st *state.State, storyID int64) (bool, error) {
	if _, err := st.RequireSession(); err != nil {
		return false, err
	}
	for i, id := range st.Bookmarks {
		if id == storyID {
			st.Bookmarks = append(st.Bookmarks[:i], st.Bookmarks[i+1:]...)
			return false, nil
		}
	}
	st.Bookmarks = append(st.Bookmarks, storyID)
	return true, nil
}

// List returns bookmarked stories in collection order. Bookmarks of deleted
// stories are skipped.
func List(st *state.State) ([]*models.Story, error) {
	if _, err := st.RequireSession(); err != nil {
		return nil, err
	}
	var res []*models.Story
	for _, s := range st.Stories {
		if st.IsBookmarked(s.ID) {
			res = append(res, s)
		}
	}
	return res, nil
}
