// Package backup exports every persisted collection into one JSON document
// and imports such a document back.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

var ErrMalformed = errors.New("invalid backup file")

// Filename is the suggested download name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("storyhub-backup-%d.json", now.UnixMilli())
}

func Export(st *state.State) ([]byte, error) {
	b, err := json.MarshalIndent(st.Bundle(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return b, nil
}

// Import parses data and returns the state that results from applying it to
// cur. Collections missing from the file keep their current value. cur is
// never modified; a malformed file or a missing confirmation returns an error.
func Import(cur *state.State, data []byte, confirmed bool) (*state.State, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	next := &state.State{
		Stories:     cur.Stories,
		Users:       cur.Users,
		Session:     cur.Session,
		Bookmarks:   cur.Bookmarks,
		Subscribers: cur.Subscribers,
		Settings:    cur.Settings,
		Comments:    cur.Comments,
		Progress:    cur.Progress,
	}
	fields := []struct {
		key string
		dst any
	}{
		{"stories", &next.Stories},
		{"users", &next.Users},
		{"currentUser", &next.Session},
		{"bookmarks", &next.Bookmarks},
		{"subscribers", &next.Subscribers},
		{"readerSettings", &next.Settings},
		{"comments", &next.Comments},
		{"storyProgress", &next.Progress},
	}
	for _, f := range fields {
		raw, ok := doc[f.key]
		if !ok {
			continue
		}
		if err := decodeInto(raw, f.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.key, err)
		}
	}
	if err := validate(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !confirmed {
		return nil, state.ErrNotConfirmed
	}
	return next, nil
}

// decodeInto unmarshals into a fresh value so a failure leaves dst alone.
func decodeInto(raw json.RawMessage, dst any) error {
	switch d := dst.(type) {
	case *[]*models.Story:
		var v []*models.Story
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *[]*models.User:
		var v []*models.User
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case **models.Session:
		var v *models.Session
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *[]int64:
		var v []int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *[]string:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *models.ReaderSettings:
		v := *d
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *map[string][]models.Comment:
		var v map[string][]models.Comment
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	case *map[string]*models.StoryProgress:
		var v map[string]*models.StoryProgress
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*d = v
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return nil
}

func validate(st *state.State) error {
	seen := make(map[int64]bool, len(st.Stories))
	for i, s := range st.Stories {
		if s == nil {
			return fmt.Errorf("story %d is null", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate story id %d", s.ID)
		}
		seen[s.ID] = true
	}
	for i, u := range st.Users {
		if u == nil {
			return fmt.Errorf("user %d is null", i)
		}
	}
	return nil
}
