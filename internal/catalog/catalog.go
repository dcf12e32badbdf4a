// Package catalog searches and filters the story collection. Results keep
// collection order.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

var (
	ErrEmptyQuery    = errors.New("please enter a search term")
	ErrUnknownFilter = errors.New("unknown filter")
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterBestseller Filter = "bestseller"
	FilterOngoing    Filter = "ongoing"
	FilterCompleted  Filter = "completed"
	FilterUpcoming   Filter = "upcoming"
)

const popularLimit = 4

// Search matches q case-insensitively against title, genre and description.
func Search(st *state.State, q string) ([]*models.Story, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, ErrEmptyQuery
	}
	res := []*models.Story{}
	for _, s := range st.Stories {
		if strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(strings.ToLower(s.Genre), q) ||
			strings.Contains(strings.ToLower(s.Description), q) {
			res = append(res, s)
		}
	}
	return res, nil
}

func Apply(st *state.State, f Filter) ([]*models.Story, error) {
	var keep func(*models.Story) bool
	switch f {
	case FilterAll, "":
		return append([]*models.Story{}, st.Stories...), nil
	case FilterBestseller:
		keep = func(s *models.Story) bool { return s.Bestseller }
	case FilterOngoing, FilterCompleted, FilterUpcoming:
		status := models.StoryStatus(f)
		keep = func(s *models.Story) bool { return s.Status == status }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, f)
	}
	res := []*models.Story{}
	for _, s := range st.Stories {
		if keep(s) {
			res = append(res, s)
		}
	}
	return res, nil
}

// Popular is the first few bestsellers.
func Popular(st *state.State) []*models.Story {
	res, _ := Apply(st, FilterBestseller)
	if len(res) > popularLimit {
		res = res[:popularLimit]
	}
	return res
}
