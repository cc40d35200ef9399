package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"aimploy/internal/storage"
	"aimploy/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

// CandidateStore is the persistence the service needs. It is satisfied by
// *store.CandidateRepository.
type CandidateStore interface {
	CreateCandidate(ctx context.Context, candidate *types.Candidate) error
	Candidates(ctx context.Context) ([]*types.Candidate, error)
}

type Service struct {
	logger     *logrus.Logger
	config     *types.Config
	candidates CandidateStore
	files      storage.Store
	templates  *template.Template
	cookie     *securecookie.SecureCookie
	metrics    *metrics
	now        func() time.Time

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	candidates CandidateStore,
	files storage.Store,
) (*Service, error) {
	mux := flow.New()

	cookie, err := newDraftCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:     logger,
		config:     config,
		candidates: candidates,
		files:      files,
		cookie:     cookie,
		metrics:    newMetrics(),
		now:        time.Now,
		handler:    mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	if err := s.buildRouter(mux); err != nil {
		return nil, err
	}

	return s, nil
}

// Handler exposes the routed handler so it can be mounted in tests.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) error {
	r.Use(s.RequestID)
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)
	r.Use(s.MetricsMiddleware)

	// wizard
	r.HandleFunc("/", s.handleGetApply, http.MethodGet)
	r.HandleFunc("/apply/personal-info", s.handlePostPersonalInfo, http.MethodPost)
	r.HandleFunc("/apply/resume", s.handlePostResume, http.MethodPost)
	r.HandleFunc("/apply/behavioral", s.handlePostBehavioral, http.MethodPost)
	r.HandleFunc("/apply/back", s.handlePostBack, http.MethodPost)
	r.HandleFunc("/apply/restart", s.handlePostRestart, http.MethodPost)

	// json api
	r.HandleFunc("/api/upload", s.handleUpload, http.MethodPost)
	r.HandleFunc("/api/submit-application", s.handleSubmitApplication, http.MethodPost)

	r.HandleFunc("/applications", s.handleApplications, http.MethodGet)
	r.HandleFunc("/uploads/:name", s.handleGetUpload, http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", s.metrics.handler(), http.MethodGet)

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		return fmt.Errorf("failed to mount static assets: %w", err)
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)

	return nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"stepClass": func(current, step int) string {
			switch {
			case current == step:
				return "step current"
			case current > step:
				return "step done"
			default:
				return "step"
			}
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
