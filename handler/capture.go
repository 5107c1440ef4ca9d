package handler

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Philipp01105/firelogger/config"
	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/logger"
)

const (
	// VersionHeader carries the client version and turns capture on
	VersionHeader = "X-FireLogger"
	// AuthHeader carries the client's password hash
	AuthHeader = "X-FireLoggerAuth"
)

// AuthHash returns the hash a client sends for password.
func AuthHash(password string) string {
	sum := md5.Sum([]byte("#FireLoggerPassword#" + password + "#"))
	return hex.EncodeToString(sum[:])
}

// Capture decides per request whether records are captured, creates the
// request's Session and emits it once the request is done. It is shared
// by all requests and safe for concurrent use.
type Capture struct {
	cfg       *config.Config
	handler   Handler
	extra     []Handler
	diag      *zap.Logger
	stats     *Stats
	clock     core.Clock
	sessionID func() string
	authHash  string
	versions  sync.Map
}

// Option configures a Capture
type Option func(*Capture)

// WithLogger sets the logger for diagnostics (version advisory, auth
// mismatch, emit failures). The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(c *Capture) {
		if l != nil {
			c.diag = l
		}
	}
}

// WithHandler adds handlers that run after the header handler
func WithHandler(h ...Handler) Option {
	return func(c *Capture) {
		c.extra = append(c.extra, h...)
	}
}

// WithStats shares a Stats instance, e.g. with a Collector
func WithStats(s *Stats) Option {
	return func(c *Capture) {
		if s != nil {
			c.stats = s
		}
	}
}

// WithClock sets the clock sessions stamp records with. It takes
// precedence over config.Config.CoarseClock.
func WithClock(clock core.Clock) Option {
	return func(c *Capture) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithSessionID replaces the generator of the header session id
func WithSessionID(f func() string) Option {
	return func(c *Capture) {
		c.sessionID = f
	}
}

// NewCapture validates cfg and builds the emit pipeline. A nil cfg means
// config.Default().
func NewCapture(cfg *config.Config, opts ...Option) (*Capture, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("handler: invalid config: %w", err)
	}

	c := &Capture{
		cfg:   cfg,
		diag:  zap.NewNop(),
		stats: NewStats(),
		clock: core.SystemClock,
	}
	if cfg.CoarseClock {
		c.clock = core.CoarseClock()
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.PasswordRequired() {
		c.authHash = AuthHash(cfg.Password)
	}

	enc, err := formatter.NewEncoder(formatter.Config{
		Encoding:     cfg.Encoding,
		HeaderPrefix: cfg.HeaderPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("handler: create encoder: %w", err)
	}
	enc.WithSessionID(c.sessionID)

	c.handler = NewHeaderHandler(enc, c.stats)
	if len(c.extra) > 0 {
		c.handler = NewMultiHandler(append([]Handler{c.handler}, c.extra...)...)
	}
	return c, nil
}

// Begin returns the Session for r. The session is disabled unless the
// master switch is on, the client announced itself (or the version check
// is off) and the password, when one is configured, matches.
func (c *Capture) Begin(r *http.Request) *logger.Session {
	version, ok := c.gate(r)
	c.stats.IncrementSessions(ok)
	if !ok {
		return logger.Disabled()
	}
	return logger.NewBuilder().
		WithMaxDepth(c.cfg.MaxPickleDepth).
		WithClock(c.clock).
		WithClientVersion(version).
		WithErrorFiltering(c.cfg.ErrorFiltering, logger.Severity(c.cfg.ErrorReporting)).
		WithDefaultLogger(c.cfg.DefaultLogger).
		WithErrorLogger(c.cfg.ErrorHandler).
		Build()
}

func (c *Capture) gate(r *http.Request) (string, bool) {
	if !c.cfg.Enabled {
		return "", false
	}

	version := "?"
	if c.cfg.VersionCheck {
		values := r.Header.Values(VersionHeader)
		if len(values) == 0 {
			return "", false
		}
		version = values[0]
		if version != c.cfg.RecommendedClientVersion {
			if _, seen := c.versions.LoadOrStore(version, struct{}{}); !seen {
				c.diag.Warn("FireLogger client version differs from the recommended one",
					zap.String("client_version", version),
					zap.String("recommended_version", c.cfg.RecommendedClientVersion))
			}
		}
	}

	if c.authHash != "" {
		values := r.Header.Values(AuthHeader)
		if len(values) == 0 {
			return "", false
		}
		if subtle.ConstantTimeCompare([]byte(values[0]), []byte(c.authHash)) != 1 {
			c.diag.Warn("FireLogger password does not match",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("path", r.URL.Path))
			return "", false
		}
	}
	return version, true
}

// Finish hands the session to the handlers. h must still be writable,
// i.e. the response header not yet sent.
func (c *Capture) Finish(s *logger.Session, h http.Header) error {
	if !s.Enabled() {
		return nil
	}
	if err := c.handler.Handle(s, h); err != nil {
		for _, e := range multierr.Errors(err) {
			c.diag.Error("FireLogger emit failed", zap.Error(e))
		}
		return err
	}
	return nil
}

// ExceptionHandler reports whether panics should be recovered and logged
func (c *Capture) ExceptionHandler() bool {
	return c.cfg.ExceptionHandler
}

// Config returns the configuration in use
func (c *Capture) Config() *config.Config {
	return c.cfg
}

// Stats returns the shared statistics
func (c *Capture) Stats() *Stats {
	return c.stats
}

// Logger returns the diagnostics logger
func (c *Capture) Logger() *zap.Logger {
	return c.diag
}

// Close closes all handlers
func (c *Capture) Close() error {
	return c.handler.Close()
}
