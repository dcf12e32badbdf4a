package models

import "time"

type StoryStatus string

const (
	StatusUpcoming  StoryStatus = "upcoming"
	StatusOngoing   StoryStatus = "ongoing"
	StatusCompleted StoryStatus = "completed"
)

func (s StoryStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// stories collection
type Story struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Genre         string      `json:"genre"`
	Description   string      `json:"description"`
	CoverImage    *string     `json:"coverImage"`
	Status        StoryStatus `json:"status"`
	Bestseller    bool        `json:"bestseller"`
	Mature        bool        `json:"mature"`
	ScheduledDate *time.Time  `json:"scheduledDate"`
	Views         int         `json:"views"`
	Chapters      []Chapter   `json:"chapters"`
}

// Chapter is addressed by its position inside Story.Chapters.
type Chapter struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	TriggerWarnings  string `json:"triggerWarnings"`
	AuthorNoteTop    string `json:"authorNoteTop"`
	AuthorNoteBottom string `json:"authorNoteBottom"`
}

// users collection; passwords are kept as entered
type User struct {
	FullName      string  `json:"fullname"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Photo         *string `json:"photo"`
	Bio           string  `json:"bio"`
	FavoriteGenre string  `json:"favoriteGenre"`
	IsWriter      bool    `json:"isWriter"`
}

// Session is the signed-in projection of a User, without the password.
type Session struct {
	Name          string  `json:"name"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	IsWriter      bool    `json:"isWriter"`
	Photo         *string `json:"photo"`
	Bio           string  `json:"bio"`
	FavoriteGenre string  `json:"favoriteGenre"`
}

func SessionFor(u *User) *Session {
	return &Session{
		Name:          u.FullName,
		Username:      u.Username,
		Email:         u.Email,
		IsWriter:      u.IsWriter,
		Photo:         u.Photo,
		Bio:           u.Bio,
		FavoriteGenre: u.FavoriteGenre,
	}
}

type Comment struct {
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	Timestamp string `json:"timestamp"`
}

// StoryProgress maps chapter index to the highest scroll percentage reached.
type StoryProgress struct {
	Chapters map[int]float64 `json:"chapters"`
}

type ReaderTheme string

const (
	ThemeDefault ReaderTheme = "default"
	ThemeSepia   ReaderTheme = "sepia"
	ThemeDark    ReaderTheme = "dark"
	ThemeNight   ReaderTheme = "night"
)

func (t ReaderTheme) Valid() bool {
	switch t {
	case ThemeDefault, ThemeSepia, ThemeDark, ThemeNight:
		return true
	}
	return false
}

type ReaderSettings struct {
	FontFamily string      `json:"fontFamily"`
	FontSize   int         `json:"fontSize"`
	LineHeight float64     `json:"lineHeight"`
	Theme      ReaderTheme `json:"theme"`
}

func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontFamily: "Poppins",
		FontSize:   18,
		LineHeight: 1.8,
		Theme:      ThemeDefault,
	}
}

// Bundle is the backup file format: every persisted collection in one document.
type Bundle struct {
	Stories        []*Story                  `json:"stories"`
	Users          []*User                   `json:"users"`
	CurrentUser    *Session                  `json:"currentUser"`
	Bookmarks      []int64                   `json:"bookmarks"`
	Subscribers    []string                  `json:"subscribers"`
	ReaderSettings *ReaderSettings           `json:"readerSettings"`
	Comments       map[string][]Comment      `json:"comments"`
	StoryProgress  map[string]*StoryProgress `json:"storyProgress"`
}

// pushed to websocket clients
type Event struct {
	Kind      string `json:"kind"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message,omitempty"`
	StoryID   int64  `json:"story_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
