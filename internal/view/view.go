// Package view builds view models from the application state. The builders
// are pure; templates.go renders the models to HTML.
package view

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"storyhub/internal/comment"
	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/internal/story"
	"storyhub/pkg/models"
)

const wordsPerMinute = 200

var printer = message.NewPrinter(language.English)

type StoryCard struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Genre        string `json:"genre"`
	Description  string `json:"description"`
	Cover        string `json:"cover,omitempty"`
	Mature       bool   `json:"mature"`
	Bestseller   bool   `json:"bestseller"`
	Chapters     int    `json:"chapters"`
	Views        int    `json:"views"`
	Bookmarked   bool   `json:"bookmarked"`
	Progress     int    `json:"progress"`
	ShowProgress bool   `json:"show_progress"`
}

func Cards(st *state.State, list []*models.Story) []StoryCard {
	cards := make([]StoryCard, 0, len(list))
	for _, s := range list {
		c := StoryCard{
			ID:          s.ID,
			Title:       s.Title,
			Genre:       s.Genre,
			Description: s.Description,
			Mature:      s.Mature,
			Bestseller:  s.Bestseller,
			Chapters:    len(s.Chapters),
			Views:       s.Views,
			Bookmarked:  st.IsBookmarked(s.ID),
			Progress:    reading.Completion(st, s.ID),
		}
		if s.CoverImage != nil {
			c.Cover = *s.CoverImage
		}
		c.ShowProgress = st.Session != nil && c.Progress > 0
		cards = append(cards, c)
	}
	return cards
}

type CommentItem struct {
	Initial   string `json:"initial"`
	UserName  string `json:"user_name"`
	Timestamp string `json:"timestamp"`
	Rating    int    `json:"rating"`
	Stars     string `json:"stars"`
	Text      string `json:"text"`
}

type Comments struct {
	Count int           `json:"count"`
	Label string        `json:"label"`
	Items []CommentItem `json:"items"`
}

func CommentsFor(st *state.State, storyID int64, chapter int) Comments {
	list := comment.List(st, storyID, chapter)
	v := Comments{Count: len(list), Label: plural(len(list), "Comment"), Items: []CommentItem{}}
	for _, c := range list {
		v.Items = append(v.Items, CommentItem{
			Initial:   initial(c.UserName),
			UserName:  c.UserName,
			Timestamp: c.Timestamp,
			Rating:    c.Rating,
			Stars:     strings.Repeat("★", c.Rating),
			Text:      c.Text,
		})
	}
	return v
}

type Reader struct {
	StoryID        int64                 `json:"story_id"`
	StoryTitle     string                `json:"story_title"`
	Chapter        int                   `json:"chapter"`
	ChapterTitle   string                `json:"chapter_title"`
	Position       string                `json:"position"`
	Paragraphs     []string              `json:"paragraphs"`
	TriggerWarning string                `json:"trigger_warning,omitempty"`
	NoteTop        string                `json:"note_top,omitempty"`
	NoteBottom     string                `json:"note_bottom,omitempty"`
	HasPrev        bool                  `json:"has_prev"`
	HasNext        bool                  `json:"has_next"`
	ReadingMinutes int                   `json:"reading_minutes"`
	Settings       models.ReaderSettings `json:"settings"`
	Palette        Palette               `json:"palette"`
	Comments       Comments              `json:"comments"`
}

// ReaderFor builds the reader page for the current selection. ok is false
// when nothing is open.
func ReaderFor(st *state.State) (Reader, bool) {
	s := st.CurrentStory()
	if s == nil || st.Reading.Chapter >= len(s.Chapters) {
		return Reader{}, false
	}
	idx := st.Reading.Chapter
	ch := s.Chapters[idx]
	return Reader{
		StoryID:        s.ID,
		StoryTitle:     s.Title,
		Chapter:        idx,
		ChapterTitle:   ch.Title,
		Position:       fmt.Sprintf("%s (%d/%d)", ch.Title, idx+1, len(s.Chapters)),
		Paragraphs:     Paragraphs(ch.Content),
		TriggerWarning: strings.TrimSpace(ch.TriggerWarnings),
		NoteTop:        strings.TrimSpace(ch.AuthorNoteTop),
		NoteBottom:     strings.TrimSpace(ch.AuthorNoteBottom),
		HasPrev:        idx > 0,
		HasNext:        idx < len(s.Chapters)-1,
		ReadingMinutes: ReadingMinutes(ch.Content),
		Settings:       st.Settings,
		Palette:        PaletteFor(st.Settings.Theme),
		Comments:       CommentsFor(st, s.ID, idx),
	}, true
}

// Paragraphs splits chapter text on blank lines.
func Paragraphs(content string) []string {
	return strings.Split(content, "\n\n")
}

func ReadingMinutes(text string) int {
	return int(math.Ceil(float64(story.WordCount(text)) / wordsPerMinute))
}

type Palette struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

func PaletteFor(t models.ReaderTheme) Palette {
	switch t {
	case models.ThemeSepia:
		return Palette{"#f4ecd8", "#5c4a3a"}
	case models.ThemeDark:
		return Palette{"#2d2d2d", "#e0e0e0"}
	case models.ThemeNight:
		return Palette{"#1a1a2e", "#eaeaea"}
	}
	return Palette{"#ffffff", "#2c2c2c"}
}

type TOCItem struct {
	Index   int    `json:"index"`
	Number  string `json:"number"`
	Title   string `json:"title"`
	Current bool   `json:"current"`
}

type TOC struct {
	StoryTitle string    `json:"story_title"`
	Meta       string    `json:"meta"`
	Items      []TOCItem `json:"items"`
}

func TOCFor(st *state.State) (TOC, bool) {
	s := st.CurrentStory()
	if s == nil {
		return TOC{}, false
	}
	v := TOC{
		StoryTitle: s.Title,
		Meta:       fmt.Sprintf("%d Chapters • %s", len(s.Chapters), s.Genre),
		Items:      make([]TOCItem, 0, len(s.Chapters)),
	}
	for i, ch := range s.Chapters {
		v.Items = append(v.Items, TOCItem{
			Index:   i,
			Number:  fmt.Sprintf("Chapter %d", i+1),
			Title:   ch.Title,
			Current: i == st.Reading.Chapter,
		})
	}
	return v, true
}

type SiteStats struct {
	Stories     int    `json:"stories"`
	Chapters    int    `json:"chapters"`
	Readers     int    `json:"readers"`
	Subscribers int    `json:"subscribers"`
	Words       string `json:"words,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

// StatsFor counts the catalogue and audience. Word and rating totals are
// only filled in for the writer.
func StatsFor(st *state.State) SiteStats {
	v := SiteStats{Stories: len(st.Stories), Subscribers: len(st.Subscribers)}
	words := 0
	for _, s := range st.Stories {
		ss := story.StatsFor(s)
		v.Chapters += ss.Chapters
		words += ss.Words
	}
	for _, u := range st.Users {
		if !u.IsWriter {
			v.Readers++
		}
	}
	if st.Session != nil && st.Session.IsWriter {
		v.Words = printer.Sprintf("%d", words)
		if avg, ok := comment.AverageRating(st); ok {
			v.Rating = fmt.Sprintf("★ %.1f", avg)
		} else {
			v.Rating = "★ N/A"
		}
	}
	return v
}

type DashboardItem struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	HasCover  bool               `json:"has_cover"`
	Mature    bool               `json:"mature"`
	Chapters  int                `json:"chapters"`
	Status    models.StoryStatus `json:"status"`
	Views     int                `json:"views"`
	Scheduled string             `json:"scheduled,omitempty"`
}

type Dashboard struct {
	Empty bool            `json:"empty"`
	Items []DashboardItem `json:"items"`
	Stats SiteStats       `json:"stats"`
}

func DashboardFor(st *state.State) Dashboard {
	v := Dashboard{Empty: len(st.Stories) == 0, Items: []DashboardItem{}, Stats: StatsFor(st)}
	for _, s := range st.Stories {
		it := DashboardItem{
			ID:       s.ID,
			Title:    s.Title,
			HasCover: s.CoverImage != nil,
			Mature:   s.Mature,
			Chapters: len(s.Chapters),
			Status:   s.Status,
			Views:    s.Views,
		}
		if s.ScheduledDate != nil {
			it.Scheduled = s.ScheduledDate.Format("Jan 2, 2006 3:04 PM")
		}
		v.Items = append(v.Items, it)
	}
	return v
}

type EditorChapter struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Words int    `json:"words"`
}

type Editor struct {
	Story           *models.Story   `json:"story"`
	Chapters        []EditorChapter `json:"chapters"`
	Stats           story.Stats     `json:"stats"`
	NextChapterName string          `json:"next_chapter_name"`
}

func EditorFor(s *models.Story) Editor {
	v := Editor{Story: s, Chapters: []EditorChapter{}, Stats: story.StatsFor(s), NextChapterName: story.NewChapterTitle(s)}
	for i, ch := range s.Chapters {
		v.Chapters = append(v.Chapters, EditorChapter{Index: i, Title: ch.Title, Words: story.WordCount(ch.Content)})
	}
	return v
}

type Profile struct {
	Initial  string `json:"initial"`
	Photo    string `json:"photo,omitempty"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Genre    string `json:"genre"`
	IsWriter bool   `json:"is_writer"`
}

func ProfileFor(sess *models.Session) Profile {
	if sess == nil {
		return Profile{Initial: "?"}
	}
	v := Profile{
		Initial:  initial(sess.Name),
		Name:     sess.Name,
		Username: "@" + sess.Username,
		Email:    orDefault(sess.Email, "No email"),
		Bio:      orDefault(sess.Bio, "No bio"),
		Genre:    orDefault(sess.FavoriteGenre, "Not set"),
		IsWriter: sess.IsWriter,
	}
	if sess.Photo != nil {
		v.Photo = *sess.Photo
	}
	return v
}

// ShareText is the message offered when a reader shares a story.
func ShareText(s *models.Story, writer string) string {
	return fmt.Sprintf("Check out %q by %s!\n\nA %s story with %s.", s.Title, writer, s.Genre, plural(len(s.Chapters), "chapter"))
}

// QuoteText wraps a selected passage for sharing.
func QuoteText(quote string, s *models.Story, writer string) string {
	return fmt.Sprintf("%q\n\n- From %q by %s", quote, s.Title, writer)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
