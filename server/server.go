// Package server is the HTTP surface: a chi router that binds the payment
// gate in front of each priced PDF operation and turns engine results into
// responses.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/paidpdf/pdf-x402/pdf"
)

const (
	// ServiceName and ServiceVersion identify this API in the root descriptor.
	ServiceName    = "PDF Utilities API"
	ServiceVersion = "1.0.0"

	// DefaultMaxFileBytes is the per-file upload ceiling.
	DefaultMaxFileBytes = 25 << 20 // 25 MiB

	// MaxMergeFiles bounds the merge input count.
	MaxMergeFiles = 10
)

// PaymentInfo is the payment summary advertised by the root descriptor.
type PaymentInfo struct {
	Price   string `json:"price"`
	Network string `json:"network"`
}

// Options configures the server.
type Options struct {
	// Engine performs the PDF transforms.
	Engine pdf.Engine

	// Gate is the payment middleware wrapped around every priced route.
	Gate func(http.Handler) http.Handler

	// Logger receives request logs. Defaults to the standard logrus logger.
	Logger *logrus.Logger

	// MaxFileBytes overrides the per-file upload ceiling. Defaults to 25 MiB.
	MaxFileBytes int64

	// Payment is advertised by the root descriptor.
	Payment PaymentInfo
}

// Server dispatches requests to the PDF engine behind the payment gate.
type Server struct {
	router       chi.Router
	engine       pdf.Engine
	log          *logrus.Logger
	maxFileBytes int64
	payment      PaymentInfo
}

// New builds the server and its routes. The gate wraps only the /pdf/*
// operations; the root descriptor stays free.
func New(opts Options) *Server {
	if opts.Engine == nil {
		panic("server: an engine is required")
	}
	if opts.Gate == nil {
		panic("server: a payment gate is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.MaxFileBytes == 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}

	s := &Server{
		engine:       opts.Engine,
		log:          opts.Logger,
		maxFileBytes: opts.MaxFileBytes,
		payment:      opts.Payment,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)

	r.Group(func(priced chi.Router) {
		priced.Use(opts.Gate)
		priced.Post("/pdf/info", s.handleInfo)
		priced.Post("/pdf/extract", s.handleExtract)
		priced.Post("/pdf/merge", s.handleMerge)
		priced.Post("/pdf/compress", s.handleCompress)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
