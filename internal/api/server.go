// Package api exposes the store operations over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyhub/internal/auth"
	"storyhub/internal/events"
	"storyhub/internal/middleware"
	"storyhub/internal/state"
	"storyhub/internal/upload"
	"storyhub/internal/view"
)

// Event kinds published after successful updates.
const (
	EventSession   = "session_changed"
	EventStory     = "story_changed"
	EventEditor    = "editor_changed"
	EventChapter   = "chapter_changed"
	EventPublished = "story_published"
	EventDeleted   = "story_deleted"
	EventReading   = "reading"
	EventProgress  = "progress"
	EventBookmarks = "bookmarks_changed"
	EventComment   = "comment_added"
	EventSubscribe = "subscribed"
	EventSettings  = "settings_changed"
	EventProfile   = "profile_changed"
	EventImported  = "imported"
)

type Options struct {
	Store      *state.Store
	Hub        *events.Hub
	Writer     auth.Writer
	JWTSecret  []byte
	SessionTTL time.Duration
	MaxUpload  int64
	ClientURL  string
	Logger     *zap.Logger
	Now        func() time.Time
}

type Server struct {
	store     *state.Store
	hub       *events.Hub
	writer    auth.Writer
	secret    []byte
	ttl       time.Duration
	maxUpload int64
	clientURL string
	log       *zap.Logger
	now       func() time.Time
}

func New(o Options) *Server {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaxUpload <= 0 {
		o.MaxUpload = upload.DefaultMaxBytes
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	return &Server{
		store:     o.Store,
		hub:       o.Hub,
		writer:    o.Writer,
		secret:    o.JWTSecret,
		ttl:       o.SessionTTL,
		maxUpload: o.MaxUpload,
		clientURL: o.ClientURL,
		log:       o.Logger.Named("api"),
		now:       o.Now,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.RequestLogger(s.log), middleware.CORS(s.clientURL))
	r.SetHTMLTemplate(view.Templates())
	s.routes(r)
	return r
}
