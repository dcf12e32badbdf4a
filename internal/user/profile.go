// Package user edits the signed-in reader's profile. Changes are written to
// the session and, for readers, to the matching account.
package user

import (
	"storyhub/internal/state"
	"storyhub/internal/upload"
	"storyhub/pkg/models"
)

type ProfileForm struct {
	FullName      string `json:"fullname" form:"fullname"`
	Email         string `json:"email" form:"email"`
	Bio           string `json:"bio" form:"bio"`
	FavoriteGenre string `json:"favoriteGenre" form:"favoriteGenre"`
}

func UpdateProfile(st *state.State, f ProfileForm) (*models.Session, error) {
	sess, err := st.RequireSession()
	if err != nil {
		return nil, err
	}
	sess.Name = f.FullName
	sess.Email = f.Email
	sess.Bio = f.Bio
	sess.FavoriteGenre = f.FavoriteGenre

	if u := st.FindUser(sess.Username); u != nil {
		u.FullName = f.FullName
		u.Email = f.Email
		u.Bio = f.Bio
		u.FavoriteGenre = f.FavoriteGenre
	}
	return sess, nil
}

func SetPhoto(st *state.State, img upload.Image) (*models.Session, error) {
	sess, err := st.RequireSession()
	if err != nil {
		return nil, err
	}
	photo := img.DataURL
	sess.Photo = &photo
	if u := st.FindUser(sess.Username); u != nil {
		p := photo
		u.Photo = &p
	}
	return sess, nil
}
