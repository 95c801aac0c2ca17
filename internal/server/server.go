package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"catalogo/internal"
	"catalogo/internal/browser"
	"catalogo/internal/cart"
	"catalogo/internal/observability"
	"catalogo/internal/render"
	"catalogo/internal/util"
)

const shutdownTimeout = 10 * time.Second

type CartStore interface {
	Add(ctx context.Context, id, sku, name string) ([]internal.CartEntry, error)
	List(ctx context.Context) ([]internal.CartEntry, error)
	Clear(ctx context.Context) error
}

type Options struct {
	Catalog      *internal.Catalog
	LoadErr      error
	Cart         CartStore
	PageSize     int
	AllowOrigins []string
	Log          zerolog.Logger
	Metrics      *observability.Metrics
}

type Server struct {
	catalog  *internal.Catalog
	loadErr  error
	cart     CartStore
	pageSize int
	log      zerolog.Logger
	metrics  *observability.Metrics
	engine   *gin.Engine
}

func New(opts Options) *Server {
	s := &Server{
		catalog:  opts.Catalog,
		loadErr:  opts.LoadErr,
		cart:     opts.Cart,
		pageSize: opts.PageSize,
		log:      opts.Log,
		metrics:  opts.Metrics,
	}
	if s.catalog == nil && s.loadErr == nil {
		s.loadErr = errors.New("catalog not loaded")
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(s.log), cors.New(corsConfig(opts.AllowOrigins)))

	engine.GET("/", s.handlePage)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := engine.Group("/api")
	api.GET("/products", s.handleProducts)
	api.GET("/facets", s.handleFacets)
	api.GET("/cart", s.handleCartList)
	api.POST("/cart", s.handleCartAdd)
	api.DELETE("/cart", s.handleCartClear)

	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

func (s *Server) stateFromQuery(c *gin.Context) (internal.FilterState, error) {
	state := internal.FilterState{
		Search: c.Query("q"),
		Facet:  util.FirstNonEmpty(strings.TrimSpace(c.Query("unit")), internal.FacetAll),
		Page:   1,
	}
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return state, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return state, errors.New("page must be a positive integer")
	}
	state.Page = page
	return state, nil
}

func (s *Server) compute(state internal.FilterState) internal.View {
	start := time.Now()
	view := browser.Compute(s.catalog, state, s.pageSize)
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	s.metrics.Searches.Inc()
	return view
}

func (s *Server) handlePage(c *gin.Context) {
	var buf bytes.Buffer

	if s.loadErr != nil {
		if err := render.HTML(&buf, browser.LoadFailedView(s.loadErr)); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	// A malformed page falls back to 1 for browsers.
	state, _ := s.stateFromQuery(c)
	if err := render.HTML(&buf, s.compute(state)); err != nil {
		s.log.Error().Err(err).Msg("render page")
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleProducts(c *gin.Context) {
	if s.loadErr != nil {
		c.JSON(http.StatusServiceUnavailable, browser.LoadFailedView(s.loadErr))
		return
	}
	state, err := s.stateFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.compute(state))
}

func (s *Server) handleFacets(c *gin.Context) {
	if s.loadErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": render.MsgLoadFailed})
		return
	}
	facets := s.catalog.Facets
	if facets == nil {
		facets = []internal.FacetEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"facets": facets})
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.loadErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": s.loadErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"records":  len(s.catalog.Records),
		"traceId":  s.catalog.TraceID,
		"loadedAt": s.catalog.LoadedAt,
	})
}

type addCartRequest struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"nome"`
}

func (s *Server) handleCartList(c *gin.Context) {
	if !s.cartAvailable(c) {
		return
	}
	entries, err := s.cart.List(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (s *Server) handleCartAdd(c *gin.Context) {
	if !s.cartAvailable(c) {
		return
	}
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	entries, err := s.cart.Add(c.Request.Context(), req.ID, util.FirstNonEmpty(req.SKU, req.ID), req.Name)
	if errors.Is(err, cart.ErrInvalidItem) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Msg("add to cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.CartAdds.Inc()
	s.log.Info().Str("id", req.ID).Msg("cart item added")
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (s *Server) handleCartClear(c *gin.Context) {
	if !s.cartAvailable(c) {
		return
	}
	if err := s.cart.Clear(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("clear cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.log.Info().Msg("cart cleared")
	c.Status(http.StatusNoContent)
}

func (s *Server) cartAvailable(c *gin.Context) bool {
	if s.cart == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart unavailable"})
		return false
	}
	return true
}
