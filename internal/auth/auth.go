package auth

import (
	"errors"
	"regexp"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username exists")
	ErrFieldRequired      = errors.New("username and full name are required")
)

const MinPasswordLength = 6

// Writer is the reserved author account. It never appears in State.Users.
type Writer struct {
	Username      string
	Password      string
	Name          string
	Email         string
	Bio           string
	FavoriteGenre string
}

func (w Writer) session() *models.Session {
	return &models.Session{
		Name:          w.Name,
		Username:      w.Username,
		Email:         w.Email,
		IsWriter:      true,
		Bio:           w.Bio,
		FavoriteGenre: w.FavoriteGenre,
	}
}

// Login compares credentials as entered: the writer account first, then the
// user collection in order.
func Login(st *state.State, w Writer, username, password string) (*models.Session, error) {
	if w.Username != "" && username == w.Username && password == w.Password {
		st.Session = w.session()
		return st.Session, nil
	}
	for _, u := range st.Users {
		if u.Username == username && u.Password == password {
			sess := models.SessionFor(u)
			sess.IsWriter = false
			st.Session = sess
			return sess, nil
		}
	}
	return nil, ErrInvalidCredentials
}

type SignupForm struct {
	FullName        string `json:"fullname" form:"fullname"`
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Signup appends a reader account and signs it in.
func Signup(st *state.State, w Writer, f SignupForm) (*models.Session, error) {
	if f.Username == "" || f.FullName == "" {
		return nil, ErrFieldRequired
	}
	if len(f.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if f.Password != f.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if st.FindUser(f.Username) != nil || f.Username == w.Username {
		return nil, ErrUsernameTaken
	}

	u := &models.User{
		FullName: f.FullName,
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	}
	st.Users = append(st.Users, u)
	st.Session = models.SessionFor(u)
	return st.Session, nil
}

func Logout(st *state.State, confirmed bool) error {
	if !confirmed {
		return state.ErrNotConfirmed
	}
	st.Session = nil
	st.Reading = nil
	return nil
}

type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

var (
	lowerRe  = regexp.MustCompile(`[a-z]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

var strengthLabels = []string{"Weak", "Fair", "Good", "Strong", "Very Strong"}

// PasswordStrength scores a candidate password from 0 to 5.
func PasswordStrength(pw string) Strength {
	score := 0
	if len(pw) >= MinPasswordLength {
		score++
	}
	if len(pw) >= 10 {
		score++
	}
	if lowerRe.MatchString(pw) && upperRe.MatchString(pw) {
		score++
	}
	if digitRe.MatchString(pw) {
		score++
	}
	if symbolRe.MatchString(pw) {
		score++
	}
	if score == 0 {
		return Strength{Label: "Too Short"}
	}
	return Strength{Score: score, Label: strengthLabels[score-1]}
}
