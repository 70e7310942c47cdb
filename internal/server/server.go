// Package server serves the pull request URL form in a browser.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pders01/prlink/internal/logger"
	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/prefs"
	"github.com/pders01/prlink/internal/prurl"
	"github.com/pders01/prlink/internal/scheme"
)

//go:embed templates/*.html
var templates embed.FS

const requestIDHeader = "X-Request-ID"

// Server is the local web form
type Server struct {
	store    *prefs.Store[models.Preference]
	resolver *scheme.Resolver
	markers  *scheme.Markers
	defaults models.FormState
	engine   *gin.Engine
}

// New wires the routes. defaults pre-fills fields the user has not set.
func New(store *prefs.Store[models.Preference], resolver *scheme.Resolver, markers *scheme.Markers, defaults models.FormState) *Server {
	s := &Server{
		store:    store,
		resolver: resolver,
		markers:  markers,
		defaults: defaults,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	engine.GET("/", s.handleForm)
	engine.POST("/", s.handleForm)

	api := engine.Group("/api")
	api.GET("/url", s.handleURL)
	api.GET("/scheme", s.handleGetScheme)
	api.PUT("/scheme", s.handleSetScheme)
	api.PUT("/ambient", s.handleSetAmbient)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Serving web form", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		ctx := logger.With(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		logger.Debug(ctx, "Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

// formRequest is the form as submitted by the browser
type formRequest struct {
	Org        string `form:"org"`
	Repo       string `form:"repo"`
	BaseBranch string `form:"base"`
	HeadBranch string `form:"head"`
	Title      string `form:"title"`
	Mode       string `form:"mode"`
	Template   string `form:"template"`
	Body       string `form:"body"`
}

// bindForm reads the submitted fields. Fields are never persisted.
func (s *Server) bindForm(c *gin.Context) (models.FormState, bool, error) {
	var req formRequest
	if err := c.ShouldBind(&req); err != nil {
		return models.FormState{}, false, err
	}

	submitted := c.Request.Method == http.MethodPost || len(c.Request.URL.Query()) > 0
	if !submitted {
		return s.defaults, false, nil
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		return models.FormState{}, true, err
	}

	return models.FormState{
		Org:        req.Org,
		Repo:       req.Repo,
		BaseBranch: req.BaseBranch,
		HeadBranch: req.HeadBranch,
		Title:      req.Title,
		Mode:       mode,
		Template:   req.Template,
		Body:       normalizeNewlines(req.Body),
	}, true, nil
}

// normalizeNewlines turns the CRLF line breaks browsers submit for
// textareas into LF
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

type pageData struct {
	RootClass     string
	Scheme        models.Scheme
	Preference    models.Preference
	Preferences   []models.Preference
	Form          models.FormState
	Modes         []models.Mode
	URL           string
	Complete      bool
	Missing       []string
	BookmarkTitle string
	Error         string
}

func (s *Server) handleForm(c *gin.Context) {
	form, _, err := s.bindForm(c)
	status := http.StatusOK
	data := pageData{
		RootClass:   s.markers.String(),
		Scheme:      s.resolver.Scheme(),
		Preference:  s.resolver.Preference(),
		Preferences: models.Preferences(),
		Modes:       models.Modes(),
	}

	if err != nil {
		status = http.StatusBadRequest
		data.Error = err.Error()
		data.Form = s.defaults
	} else {
		data.Form = form
		data.URL, data.Complete = prurl.Derive(form)
		data.Missing = form.Missing()
		data.BookmarkTitle = prurl.BookmarkTitle(form)
	}

	c.HTML(status, "index.html", data)
}

type urlResponse struct {
	URL           string   `json:"url,omitempty"`
	Complete      bool     `json:"complete"`
	Missing       []string `json:"missing,omitempty"`
	BookmarkTitle string   `json:"bookmark_title,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleURL(c *gin.Context) {
	form, _, err := s.bindForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	u, ok := prurl.Derive(form)
	resp := urlResponse{URL: u, Complete: ok, Missing: form.Missing()}
	if ok {
		resp.BookmarkTitle = prurl.BookmarkTitle(form)
	}
	c.JSON(http.StatusOK, resp)
}

type schemeResponse struct {
	Preference models.Preference `json:"preference"`
	Effective  models.Scheme     `json:"effective"`
}

type schemeRequest struct {
	Preference models.Preference `json:"preference" binding:"required"`
}

func (s *Server) handleGetScheme(c *gin.Context) {
	pref := s.store.Get(c.Request.Context())
	s.resolver.SetPreference(pref)
	c.JSON(http.StatusOK, schemeResponse{Preference: pref, Effective: s.resolver.Scheme()})
}

func (s *Server) handleSetScheme(c *gin.Context) {
	var req schemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := s.store.Set(ctx, req.Preference); err != nil {
		if errors.Is(err, prefs.ErrInvalid) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logger.Error(ctx, "Failed to save color scheme", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save color scheme"})
		return
	}

	s.resolver.SetPreference(req.Preference)
	c.JSON(http.StatusOK, schemeResponse{Preference: req.Preference, Effective: s.resolver.Scheme()})
}

type ambientRequest struct {
	Dark *bool `json:"dark" binding:"required"`
}

func (s *Server) handleSetAmbient(c *gin.Context) {
	var req ambientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.resolver.SetAmbient(*req.Dark)
	c.JSON(http.StatusOK, schemeResponse{Preference: s.resolver.Preference(), Effective: s.resolver.Scheme()})
}
