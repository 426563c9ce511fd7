/*
Package server exposes document rendering over HTTP.

Routes:

    GET /health                  liveness
    GET /render?url=U[&frame=1]  visual tree of the document at U, as text
    GET /dom?url=U               element tree of the document at U, as text
    GET /metrics                 Prometheus metrics

Links are not followed by the server; link nodes show their target.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webtree/browser"
	"github.com/npillmayer/webtree/config"
	"github.com/npillmayer/webtree/dom"
	"github.com/npillmayer/webtree/dom/domdbg"
	"github.com/npillmayer/webtree/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// tracer traces with key 'webtree.server'.
func tracer() tracing.Trace {
	return tracing.Select("webtree.server")
}

// Server is the HTTP front end of the renderer.
type Server struct {
	router  chi.Router
	cfg     config.Config
	fetcher browser.Fetcher
	metrics *metrics
}

// New creates a server fetching documents with fetcher. If fetcher is nil,
// an HTTPFetcher configured from cfg is used. Metrics are kept in a
// registry of their own.
func New(cfg config.Config, fetcher browser.Fetcher) *Server {
	if fetcher == nil {
		fetcher = browser.NewHTTPFetcher(cfg.UserAgent, cfg.Timeout)
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		metrics: newMetrics(reg),
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Get("/health", s.handleHealth)
	r.Get("/render", s.handleRender)
	r.Get("/dom", s.handleDOM)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r, "render")
	if !ok {
		return
	}
	frame := s.cfg.Frame
	if f := r.URL.Query().Get("frame"); f != "" {
		frame, _ = strconv.ParseBool(f)
	}
	opts := []render.Option{render.WithFrame(frame)}
	if len(s.cfg.Invisible) > 0 {
		opts = append(opts, render.WithInvisible(s.cfg.Invisible...))
	}
	v := render.Render(doc, nil, opts...)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, render.Dump(v))
}

func (s *Server) handleDOM(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r, "dom")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, domdbg.Outline(doc))
}

// load fetches and builds the document named by query parameter url. If it
// fails, an error response has been written.
func (s *Server) load(w http.ResponseWriter, r *http.Request, endpoint string) (*dom.Document, bool) {
	target := r.URL.Query().Get("url")
	u, err := url.Parse(target)
	if target == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		s.metrics.documents.WithLabelValues(endpoint, "bad_request").Inc()
		http.Error(w, "query parameter url must be an absolute http(s) URL", http.StatusBadRequest)
		return nil, false
	}
	start := time.Now()
	doc, _, err := browser.Load(r.Context(), s.fetcher, s.cfg, target)
	s.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		tracer().Errorf("server: %v", err)
		s.metrics.documents.WithLabelValues(endpoint, "failed").Inc()
		http.Error(w, err.Error(), statusFor(err))
		return nil, false
	}
	s.metrics.documents.WithLabelValues(endpoint, "ok").Inc()
	s.metrics.parseErrors.Add(float64(doc.ParseErrors()))
	return doc, true
}

// statusFor maps a load error to the status of our response.
func statusFor(err error) int {
	var status *browser.StatusError
	if errors.As(err, &status) && status.Code == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

type metrics struct {
	documents   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	parseErrors prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webtree",
			Name:      "documents_total",
			Help:      "Documents requested, by endpoint and outcome.",
		}, []string{"endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "webtree",
			Name:      "load_duration_seconds",
			Help:      "Time to fetch and build a document.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webtree",
			Name:      "parse_errors_total",
			Help:      "Parse errors reported while building documents.",
		}),
	}
	reg.MustRegister(m.documents, m.duration, m.parseErrors)
	return m
}
