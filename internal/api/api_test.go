package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/internal/auth"
	"storyhub/internal/state"
	"storyhub/internal/storage"
	"storyhub/pkg/database"
	"storyhub/pkg/models"
)

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *state.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	store := state.Open(storage.New(db, "test_", nil, nil), database.DefaultStories(), nil)
	srv := New(Options{
		Store:      store,
		Writer:     auth.Writer{Username: "hannie", Password: "hannie123", Name: "Hannie"},
		JWTSecret:  []byte("test-secret"),
		SessionTTL: time.Hour,
		Now:        func() time.Time { return fixedNow },
	})
	return &harness{t: t, router: srv.Router(), store: store}
}

func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) upload(path, token string, content []byte) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cover.png")
	require.NoError(h.t, err)
	_, err = fw.Write(content)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type sessionResp struct {
	Token string         `json:"token"`
	User  models.Session `json:"user"`
}

func (h *harness) login(username, password string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/auth/login", credentials{username, password}, "")
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	return decode[sessionResp](h.t, w).Token
}

func (h *harness) signupReader() string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/auth/signup", auth.SignupForm{
		FullName: "Ada Reader", Username: "ada", Email: "ada@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	}, "")
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionResp](h.t, w).Token
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupLogoutLogin(t *testing.T) {
	h := newHarness(t)
	h.signupReader()

	w := h.do(http.MethodPost, "/auth/signup", auth.SignupForm{
		FullName: "Other", Username: "ada", Password: "secret1", ConfirmPassword: "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(http.MethodPost, "/auth/logout?confirm=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/auth/session", nil, "")
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = h.do(http.MethodPost, "/auth/login", credentials{"ada", "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/auth/login", credentials{"ada", "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[sessionResp](t, w)
	assert.False(t, resp.User.IsWriter)
	assert.Equal(t, "Ada Reader", resp.User.Name)
	assert.NotEmpty(t, resp.Token)
}

func TestPasswordStrength(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodPost, "/auth/password-strength", gin.H{"password": "Abcdef1!xy"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[auth.Strength](t, w).Score)
}

func TestEditorRoutesNeedWriter(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/editor/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reader := h.signupReader()
	w = h.do(http.MethodGet, "/editor/dashboard", nil, reader)
	assert.Equal(t, http.StatusForbidden, w.Code)

	writer := h.login("hannie", "hannie123")
	w = h.do(http.MethodGet, "/editor/dashboard", nil, writer)
	assert.Equal(t, http.StatusOK, w.Code)
}

type editorResp struct {
	Story models.Story `json:"story"`
}

func TestCreateChapterPublish(t *testing.T) {
	h := newHarness(t)
	tok := h.login("hannie", "hannie123")

	w := h.do(http.MethodPost, "/editor/stories", nil, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[editorResp](t, w).Story
	assert.Equal(t, fixedNow.UnixMilli(), created.ID)
	base := "/editor/stories/" + strconv.FormatInt(created.ID, 10)

	w = h.do(http.MethodPost, base+"/publish", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "add at least one chapter")

	w = h.do(http.MethodPost, base+"/chapters", gin.H{"title": "Ch1", "content": "hello world"}, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPut, base, gin.H{"title": "Night Train", "genre": "Mystery"}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPost, base+"/publish", nil, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusOngoing, decode[editorResp](t, w).Story.Status)

	w = h.do(http.MethodPut, base+"/chapters/5", gin.H{"title": "x", "content": "y"}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodDelete, base+"/chapters/0", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(http.MethodDelete, base+"/chapters/0?confirm=true", nil, tok)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, base+"?confirm=true", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodGet, "/stories/"+strconv.FormatInt(created.ID, 10), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoverUpload(t *testing.T) {
	h := newHarness(t)
	tok := h.login("hannie", "hannie123")

	w := h.upload("/editor/stories/1/cover", tok, pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cover := decode[editorResp](t, w).Story.CoverImage
	require.NotNil(t, cover)
	assert.True(t, strings.HasPrefix(*cover, "data:image/png;base64,"))

	big := append(append([]byte{}, pngHeader...), make([]byte, 3<<20)...)
	w = h.upload("/editor/stories/1/cover", tok, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = h.upload("/editor/stories/1/cover", tok, []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h.store.View(func(st *state.State) {
		s, _ := st.FindStory(1)
		require.NotNil(t, s.CoverImage)
		assert.Equal(t, *cover, *s.CoverImage)
	})
}

func TestReadingFlow(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/reader/open", gin.H{"story_id": 1, "chapter": 0}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.signupReader()
	w = h.do(http.MethodPost, "/reader/open", gin.H{"story_id": 1, "chapter": 0}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "The Things I Never Said")

	w = h.do(http.MethodPost, "/reader/next", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/reader/progress", gin.H{"percent": 95}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"percent":95,"completion":100}`, w.Body.String())

	w = h.do(http.MethodPost, "/reader/progress", gin.H{"percent": 10}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"percent":95,"completion":100}`, w.Body.String())

	w = h.do(http.MethodGet, "/reader/toc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current":true`)

	w = h.do(http.MethodGet, "/ui/reader", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to my new story!")

	w = h.do(http.MethodGet, "/stories/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"views":1`)
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	h.signupReader()

	w := h.do(http.MethodPost, "/comments", gin.H{"text": "lovely", "rating": 5}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPost, "/reader/open", gin.H{"story_id": 1, "chapter": 0}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodPost, "/comments", gin.H{"text": "lovely", "rating": 0}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/comments", gin.H{"text": "lovely", "rating": 5}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "5/4/2026, 10:30:00 AM", decode[models.Comment](t, w).Timestamp)

	w = h.do(http.MethodGet, "/comments?story_id=1&chapter=0", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"1 Comment"`)

	w = h.do(http.MethodGet, "/ui/comments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lovely")
}

func TestBookmarksAndSearch(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/bookmarks/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.signupReader()
	w = h.do(http.MethodPost, "/bookmarks/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookmarked":true}`, w.Body.String())

	w = h.do(http.MethodGet, "/bookmarks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookmarked":true`)

	w = h.do(http.MethodGet, "/search?q=+", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/search?q=THINGS", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = h.do(http.MethodGet, "/stories?filter=ongoing", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stories":[]`)

	w = h.do(http.MethodGet, "/stories?filter=nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/ui/cards?filter=completed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "story-card")
}

func TestNewsletterAndSettings(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/newsletter", gin.H{"email": "a@b.c"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	w = h.do(http.MethodPost, "/newsletter", gin.H{"email": "a@b.c"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPatch, "/settings", gin.H{"fontSize": 40, "theme": "sepia"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPatch, "/settings", gin.H{"theme": "sepia"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"theme":"sepia"`)

	w = h.do(http.MethodGet, "/settings", nil, "")
	assert.JSONEq(t, `{"fontFamily":"Poppins","fontSize":18,"lineHeight":1.8,"theme":"sepia"}`, w.Body.String())

	w = h.do(http.MethodGet, "/stats", nil, "")
	assert.JSONEq(t, `{"stories":1,"chapters":1,"readers":0,"subscribers":1}`, w.Body.String())
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.signupReader()
	w = h.do(http.MethodPut, "/profile", gin.H{"fullname": "Ada L", "bio": "hi"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/profile", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ada L"`)

	w = h.upload("/profile/photo", "", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	h.store.View(func(st *state.State) {
		require.NotNil(t, st.FindUser("ada").Photo)
	})
}

func TestBackupExportImport(t *testing.T) {
	h := newHarness(t)
	h.signupReader()
	h.do(http.MethodPost, "/newsletter", gin.H{"email": "a@b.c"}, "")

	w := h.do(http.MethodGet, "/backup/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="storyhub-backup-`+strconv.FormatInt(fixedNow.UnixMilli(), 10)+`.json"`,
		w.Header().Get("Content-Disposition"))
	exported := w.Body.Bytes()

	// change something, then restore
	h.do(http.MethodPost, "/newsletter", gin.H{"email": "later@b.c"}, "")

	post := func(path string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post("/backup/import?confirm=true", []byte("{not json")).Code)
	assert.Equal(t, http.StatusBadRequest, post("/backup/import", exported).Code)
	h.store.View(func(st *state.State) { assert.Len(t, st.Subscribers, 2) })

	require.Equal(t, http.StatusOK, post("/backup/import?confirm=true", exported).Code)
	h.store.View(func(st *state.State) {
		assert.Equal(t, []string{"a@b.c"}, st.Subscribers)
		assert.NotNil(t, st.FindUser("ada"))
	})
}
