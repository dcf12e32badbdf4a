package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/internal/state"
	"storyhub/pkg/models"
)

func fixture() *state.State {
	st := state.New()
	st.Stories = append(st.Stories,
		&models.Story{ID: 1, Title: "Keeping Aurelia", Genre: "Romance", Description: "I will keep you", Status: models.StatusOngoing, Bestseller: true},
		&models.Story{ID: 2, Title: "Cold Case", Genre: "Mystery", Description: "A detective story", Status: models.StatusCompleted},
		&models.Story{ID: 3, Title: "Letters", Genre: "romance", Description: "Words never said", Status: models.StatusUpcoming, Bestseller: true},
	)
	return st
}

func ids(list []*models.Story) []int64 {
	out := []int64{}
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	st := fixture()
	for _, tc := range []struct {
		q    string
		want []int64
	}{
		{"ROMANCE", []int64{1, 3}},
		{"  detective ", []int64{2}},
		{"aurelia", []int64{1}},
		{"e", []int64{1, 2, 3}},
		{"zzz", []int64{}},
	} {
		got, err := Search(st, tc.q)
		require.NoError(t, err, tc.q)
		assert.Equal(t, tc.want, ids(got), tc.q)
	}

	_, err := Search(st, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestApply(t *testing.T) {
	st := fixture()
	for _, tc := range []struct {
		f    Filter
		want []int64
	}{
		{FilterAll, []int64{1, 2, 3}},
		{"", []int64{1, 2, 3}},
		{FilterBestseller, []int64{1, 3}},
		{FilterOngoing, []int64{1}},
		{FilterCompleted, []int64{2}},
		{FilterUpcoming, []int64{3}},
	} {
		got, err := Apply(st, tc.f)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(got), string(tc.f))
	}
	_, err := Apply(st, "mature")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestPopular(t *testing.T) {
	st := fixture()
	for i := int64(10); i < 15; i++ {
		st.Stories = append(st.Stories, &models.Story{ID: i, Bestseller: true})
	}
	assert.Equal(t, []int64{1, 3, 10, 11}, ids(Popular(st)))
}
