// Package stubserver is a local stand-in for the prediction backend. It
// serves the same endpoints and error shapes from a seeded simulation and
// can add artificial latency so out-of-order responses are easy to provoke.
package stubserver

import (
	"context"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

const (
	// Version is reported by /api/health.
	Version = "1.0.0"

	requestIDHeader = "X-Request-ID"
)

// Options configures a Server.
type Options struct {
	Addr    string
	Latency time.Duration
	Jitter  time.Duration
	Seed    uint64
	Logger  logrus.FieldLogger
}

// Server serves the prediction API.
type Server struct {
	addr    string
	latency time.Duration
	jitter  time.Duration
	season  *reference.Season
	sim     *Simulator
	log     logrus.FieldLogger

	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates a server over the reference season.
func New(season *reference.Season, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8000"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    opts.Addr,
		latency: opts.Latency,
		jitter:  opts.Jitter,
		season:  season,
		sim:     NewSimulator(season, opts.Seed),
		log:     opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog, s.delay)

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/ratings", s.handleRatings)
	r.GET("/api/circuits", s.handleCircuits)
	r.GET("/api/race/:round", s.handleRace)
	r.GET("/api/championship", s.handleChampionship)
	r.GET("/api/backtest", s.handleBacktest)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return r
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("stubserver: serve failed")
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLog(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(requestIDHeader, id)

	start := time.Now()
	c.Next()
	s.log.WithFields(logrus.Fields{
		"request_id": id,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"status":     c.Writer.Status(),
		"took":       time.Since(start).Round(time.Millisecond),
	}).Info("stubserver: request")
}

// delay holds each request for latency plus a random share of jitter,
// giving up early if the client goes away.
func (s *Server) delay(c *gin.Context) {
	d := s.latency
	if s.jitter > 0 {
		d += rand.N(s.jitter)
	}
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-c.Request.Context().Done():
		c.AbortWithStatus(499)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, model.Health{
		Status:      "ok",
		Version:     Version,
		Season:      s.season.Year,
		DataSources: []string{"reference_grid", "seeded_simulation"},
		Drivers:     len(s.season.Drivers),
		Circuits:    len(s.season.Circuits),
	})
}

func (s *Server) handleRatings(c *gin.Context) {
	out := model.Ratings{
		DriverRatings: make(map[string]float64, len(s.season.Drivers)),
		CarRatings:    make(map[string]float64, len(s.season.Teams)),
		TireDeg:       make(map[string]float64, len(s.season.Teams)),
		TeamsInfo:     make(map[string]model.TeamInfo, len(s.season.Teams)),
	}
	for _, d := range s.season.Drivers {
		out.DriverRatings[d.Code] = d.Rating
	}
	for _, t := range s.season.Teams {
		out.CarRatings[t.Name] = t.CarRating
		out.TireDeg[t.Name] = math.Round((1+(97-t.CarRating)/400)*1000) / 1000
		out.TeamsInfo[t.Name] = model.TeamInfo{Color: t.Color, Engine: t.Engine, CarAdj2026: t.CarAdj}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCircuits(c *gin.Context) {
	c.JSON(http.StatusOK, model.CircuitList{Circuits: s.season.Circuits})
}

func (s *Server) handleRace(c *gin.Context) {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil {
		validationError(c, "path", "gp_round", "Input should be a valid integer")
		return
	}
	iters, ok := iterations(c, model.RaceIterations)
	if !ok {
		return
	}
	if round < 1 || round > len(s.season.Circuits) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Round must be between 1 and 24"})
		return
	}
	c.JSON(http.StatusOK, s.sim.Race(round, iters))
}

func (s *Server) handleChampionship(c *gin.Context) {
	iters, ok := iterations(c, model.ChampionshipIterations)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.sim.Championship(iters))
}

func (s *Server) handleBacktest(c *gin.Context) {
	iters, ok := iterations(c, model.BacktestIterations)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics": s.sim.Backtest(iters),
		"note":    "Backtested against a seeded synthetic season (out-of-sample)",
	})
}

// iterations reads ?iters, writing a 422 and returning false when it is
// malformed or outside b.
func iterations(c *gin.Context, b model.IterationBounds) (int, bool) {
	raw, present := c.GetQuery("iters")
	if !present {
		return b.Default, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		validationError(c, "query", "iters", "Input should be a valid integer")
		return 0, false
	}
	switch {
	case n < b.Min:
		validationError(c, "query", "iters", "Input should be greater than or equal to "+strconv.Itoa(b.Min))
		return 0, false
	case n > b.Max:
		validationError(c, "query", "iters", "Input should be less than or equal to "+strconv.Itoa(b.Max))
		return 0, false
	}
	return n, true
}

func validationError(c *gin.Context, where, field, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{"loc": []string{where, field}, "msg": msg}},
	})
}
