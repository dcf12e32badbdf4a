package database

import (
	"encoding/json"
	"fmt"
	"os"

	"storyhub/pkg/models"
)

// DefaultStories is the catalogue used when nothing has been stored yet.
func DefaultStories() []*models.Story {
	return []*models.Story{
		{
			ID:          1,
			Title:       "The Things I Never Said",
			Genre:       "Romance",
			Description: "The compilations of words I never said.",
			Status:      models.StatusCompleted,
			Chapters: []models.Chapter{
				{
					Title:            "Unfinished Introductions",
					Content:          "Unfinished Introductions",
					AuthorNoteTop:    "Welcome to my new story!",
					AuthorNoteBottom: "Thank you for reading! Let me know what you think in the comments!",
				},
			},
		},
	}
}

// LoadStoriesFromJSON reads a seed catalogue that replaces DefaultStories.
func LoadStoriesFromJSON(jsonPath string) ([]*models.Story, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read stories json: %w", err)
	}

	var list []*models.Story
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("unmarshal stories json: %w", err)
	}
	for i, s := range list {
		if s == nil {
			return nil, fmt.Errorf("stories json: entry %d is null", i)
		}
		if s.Status == "" {
			s.Status = models.StatusUpcoming
		}
		if !s.Status.Valid() {
			return nil, fmt.Errorf("stories json: story %d has unknown status %q", s.ID, s.Status)
		}
	}
	return list, nil
}
