// Package settings edits the reader settings shared by every user of the
// installation.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

const (
	MinFontSize   = 12
	MaxFontSize   = 32
	MinLineHeight = 1.0
	MaxLineHeight = 3.0
)

var (
	ErrFontFamily = errors.New("font family required")
	ErrFontSize   = errors.New("font size out of range")
	ErrLineHeight = errors.New("line height out of range")
	ErrTheme      = errors.New("unknown theme")
)

// Patch carries the settings to change; nil fields are left alone.
type Patch struct {
	FontFamily *string             `json:"fontFamily"`
	FontSize   *int                `json:"fontSize"`
	LineHeight *float64            `json:"lineHeight"`
	Theme      *models.ReaderTheme `json:"theme"`
}

// Apply validates every field of p before changing anything.
func Apply(st *state.State, p Patch) (models.ReaderSettings, error) {
	next := st.Settings
	if p.FontFamily != nil {
		f := strings.TrimSpace(*p.FontFamily)
		if f == "" {
			return st.Settings, ErrFontFamily
		}
		next.FontFamily = f
	}
	if p.FontSize != nil {
		if *p.FontSize < MinFontSize || *p.FontSize > MaxFontSize {
			return st.Settings, fmt.Errorf("%w: %d", ErrFontSize, *p.FontSize)
		}
		next.FontSize = *p.FontSize
	}
	if p.LineHeight != nil {
		if *p.LineHeight < MinLineHeight || *p.LineHeight > MaxLineHeight {
			return st.Settings, fmt.Errorf("%w: %.2f", ErrLineHeight, *p.LineHeight)
		}
		next.LineHeight = *p.LineHeight
	}
	if p.Theme != nil {
		if !p.Theme.Valid() {
			return st.Settings, fmt.Errorf("%w: %q", ErrTheme, *p.Theme)
		}
		next.Theme = *p.Theme
	}
	st.Settings = next
	return next, nil
}
