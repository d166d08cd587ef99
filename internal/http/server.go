package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"expenses/internal/cache"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/middleware/ratelimit"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	"expenses/internal/services"
	appweb "expenses/web"
)

// ExpenseService is what the handlers need from the service layer
type ExpenseService interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, filter core.Filter) ([]core.Expense, error)
	Analytics(ctx context.Context) (services.Analytics, error)
	Budget(ctx context.Context, budget core.Money, now time.Time) (core.BudgetSummary, error)
	Ping(ctx context.Context) error
}

// Options configures a Server
type Options struct {
	Addr           string
	CurrencySymbol string
	DefaultBudget  core.Money
	Logger         *applog.Logger
	RateLimit      ratelimit.Config
	// Now is the clock used for form defaults and the budget month
	Now func() time.Time
}

type Server struct {
	http.Server
	svc       ExpenseService
	templates *template.Template
	logger    *applog.Logger
	currency  string
	budget    core.Money
	now       func() time.Time
	started   time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	// rendered chart PNGs, dropped on every write. chartGen counts the
	// writes so a render that raced one is not stored.
	chartCache *cache.LRUCache[[]byte]
	chartGen   atomic.Uint64
	janitor    *cache.Janitor

	stopBackground context.CancelFunc
	shutdownOnce   sync.Once
}

const (
	chartCacheSize = 8
	chartCacheTTL  = 10 * time.Minute
)

// NewServer parses the embedded templates and registers every route
func NewServer(opts Options, svc ExpenseService) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		svc:        svc,
		logger:     logger,
		currency:   opts.CurrencySymbol,
		budget:     opts.DefaultBudget,
		now:        opts.Now,
		started:    opts.Now(),
		limiter:    ratelimit.NewLimiter(opts.RateLimit),
		detector:   security.NewDetector(),
		chartCache: cache.NewLRUCache[[]byte](chartCacheSize, chartCacheTTL),
	}
	s.tracer = trace.NewMiddleware(opts.Logger, s.detector.ExtractClientIP)

	t, err := template.New("pages").Funcs(s.templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.janitor = cache.NewJanitor(func(removed int) {
		logger.Debug("Cache cleanup completed", "chart_entries_removed", removed)
	})
	s.janitor.Register(s.chartCache)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	go s.janitor.Run(ctx, chartCacheTTL)
	go s.limiter.Run(ctx, 5*time.Minute)

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssets(3600)(static))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("GET /analytics", s.handleAnalytics)
	mux.HandleFunc("GET /charts/categories.png", s.handleChart(chartCategories))
	mux.HandleFunc("GET /charts/monthly.png", s.handleChart(chartMonthly))
	mux.HandleFunc("GET /budget", s.handleBudget)
	mux.HandleFunc("GET /export.xlsx", s.handleExport(exportXLSX))
	mux.HandleFunc("GET /export.csv", s.handleExport(exportCSV))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	return nil
}

// middleware wraps mux, outermost first: tracing, logger injection,
// probe rejection, security headers, POST rate limiting.
func (s *Server) middleware(mux http.Handler) http.Handler {
	h := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(mux)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = s.detector.Middleware(s.logger)(h)
	h = applog.Middleware(s.logger, trace.RequestID)(h)
	return s.tracer.Handler(h)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").Write(w)
}

// invalidateCharts drops cached charts after the table changed
func (s *Server) invalidateCharts() {
	s.chartGen.Add(1)
	s.chartCache.Clear()
}

// Shutdown stops the background sweepers and then the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopBackground != nil {
			s.stopBackground()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
