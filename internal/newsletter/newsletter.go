package newsletter

import (
	"errors"
	"strings"

	"storyhub/internal/state"
)

var (
	ErrEmptyEmail        = errors.New("please enter your email")
	ErrAlreadySubscribed = errors.New("you are already subscribed")
)

// Subscribe adds email to the subscriber list. Addresses are compared as typed.
func Subscribe(st *state.State, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	for _, s := range st.Subscribers {
		if s == email {
			return ErrAlreadySubscribed
		}
	}
	st.Subscribers = append(st.Subscribers, email)
	return nil
}
