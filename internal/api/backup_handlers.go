package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhub/internal/backup"
	"storyhub/internal/state"
)

const maxImportBytes = 64 << 20

func (s *Server) handleExport(c *gin.Context) {
	var data []byte
	var err error
	s.store.View(func(st *state.State) { data, err = backup.Export(st) })
	if err != nil {
		s.internal(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(s.now())))
	c.Data(http.StatusOK, "application/json", data)
}

// handleImport accepts the backup either as a multipart "file" field or as
// the raw request body. ?confirm=true is required.
func (s *Server) handleImport(c *gin.Context) {
	data, err := importBody(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok := confirmed(c)
	err = s.store.Replace(EventImported, func(cur *state.State) (*state.State, error) {
		return backup.Import(cur, data, ok)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func importBody(c *gin.Context) ([]byte, error) {
	var r io.Reader = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		r = io.LimitReader(f, maxImportBytes)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return data, nil
}
