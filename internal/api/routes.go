package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/auth"
)

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	a := r.Group("/auth")
	a.POST("/login", s.handleLogin)
	a.POST("/signup", s.handleSignup)
	a.POST("/logout", s.handleLogout)
	a.GET("/session", s.handleSession)
	a.POST("/password-strength", s.handlePasswordStrength)

	r.GET("/stories", s.handleListStories)
	r.GET("/stories/popular", s.handlePopular)
	r.GET("/stories/:id", s.handleStory)
	r.GET("/stories/:id/share", s.handleShare)
	r.POST("/stories/:id/quote", s.handleQuote)
	r.GET("/search", s.handleSearch)

	rd := r.Group("/reader")
	rd.GET("", s.handleReader)
	rd.GET("/toc", s.handleTOC)
	rd.POST("/open", s.handleOpen)
	rd.POST("/start", s.handleStart)
	rd.POST("/next", s.handleNext)
	rd.POST("/prev", s.handlePrev)
	rd.POST("/progress", s.handleProgress)

	r.GET("/bookmarks", s.handleBookmarks)
	r.POST("/bookmarks/:id", s.handleToggleBookmark)

	r.GET("/comments", s.handleComments)
	r.POST("/comments", s.handleSubmitComment)

	r.POST("/newsletter", s.handleSubscribe)

	r.GET("/settings", s.handleSettings)
	r.PATCH("/settings", s.handleUpdateSettings)

	r.GET("/profile", s.handleProfile)
	r.PUT("/profile", s.handleUpdateProfile)
	r.POST("/profile/photo", s.handleProfilePhoto)

	r.GET("/stats", s.handleStats)
	r.GET("/backup/export", s.handleExport)
	r.POST("/backup/import", s.handleImport)

	if s.hub != nil {
		r.GET("/ws", s.hub.Handle())
	}

	ui := r.Group("/ui")
	ui.GET("/cards", s.handleCardsHTML)
	ui.GET("/reader", s.handleReaderHTML)
	ui.GET("/toc", s.handleTOCHTML)
	ui.GET("/comments", s.handleCommentsHTML)

	ed := r.Group("/editor", auth.RequireJWT(s.secret), auth.RequireWriter())
	ed.GET("/dashboard", s.handleDashboard)
	ed.GET("/dashboard.html", s.handleDashboardHTML)
	ed.POST("/stories", s.handleCreateStory)
	ed.GET("/stories/:id", s.handleEditStory)
	ed.PUT("/stories/:id", s.handleSaveDetails)
	ed.DELETE("/stories/:id", s.handleDeleteStory)
	ed.POST("/stories/:id/publish", s.handlePublish)
	ed.POST("/stories/:id/cover", s.handleCover)
	ed.POST("/stories/:id/chapters", s.handleAddChapter)
	ed.PUT("/stories/:id/chapters/:index", s.handleUpdateChapter)
	ed.DELETE("/stories/:id/chapters/:index", s.handleDeleteChapter)
	ed.POST("/close", s.handleCloseEditor)
}
