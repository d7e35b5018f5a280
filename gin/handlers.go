package gin

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/postpdf"
	"github.com/gin-gonic/gin"
)

type urlRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type validateResponse struct {
	Success        bool                   `json:"success"`
	Classification postpdf.Classification `json:"classification"`
	NormalizedURL  string                 `json:"normalizedUrl"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	req, err := bindURLRequest(c)
	if err != nil {
		s.Error(c, err)
		return
	}

	normalized := postpdf.Normalize(req.URL)
	classification := postpdf.Classify(normalized)
	c.JSON(http.StatusOK, validateResponse{
		Success:        classification.Valid,
		Classification: classification,
		NormalizedURL:  normalized,
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	start := s.now()

	req, err := bindURLRequest(c)
	if err != nil {
		s.Error(c, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = s.defaultFormat
	}
	renderer, ok := s.renderers[format]
	if !ok {
		s.Error(c, postpdf.Errorf(postpdf.EINVALID, "unsupported format %q", req.Format))
		return
	}

	ctx := c.Request.Context()
	conv, err := s.converter.Convert(ctx, req.URL)
	if err != nil {
		s.Error(c, err)
		return
	}

	out, err := renderer.Render(ctx, conv)
	if err != nil {
		s.Error(c, err)
		return
	}

	path, err := s.spool.Write(out.Data, strings.TrimPrefix(filepath.Ext(out.Filename), "."))
	if err != nil {
		s.Error(c, fmt.Errorf("spool output: %w", err))
		return
	}
	defer func() {
		if err := s.spool.Remove(path); err != nil {
			s.logger.Warn("removing spooled output", "path", path, "err", err)
		}
	}()

	c.Header("Content-Type", out.MIMEType)
	c.Header("ETag", etag(out.Data))
	c.Header("X-Content-Type", string(conv.Type()))
	c.Header("X-Processing-Time", strconv.FormatInt(s.now().Sub(start).Milliseconds(), 10))
	c.FileAttachment(path, out.Filename)
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{
		Success: false,
		Error:   "Endpoint not found",
	})
}

func bindURLRequest(c *gin.Context) (*urlRequest, error) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, postpdf.Errorf(postpdf.EINVALID, "URL is required")
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return nil, postpdf.Errorf(postpdf.EINVALID, "URL is required")
	}
	return &req, nil
}

// etag returns a strong entity tag for data.
func etag(data []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(data))
}
