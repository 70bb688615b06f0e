package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clearance-asce/portal/config"
	"github.com/clearance-asce/portal/internal/adapters/sessioncache"
	"github.com/clearance-asce/portal/internal/api"
	"github.com/clearance-asce/portal/internal/gateway"
	"github.com/clearance-asce/portal/internal/observability/statsd"
	"github.com/clearance-asce/portal/internal/scanner"
	"github.com/clearance-asce/portal/internal/session"
	"github.com/clearance-asce/portal/internal/taglink"
)

// Portal is the fully wired component graph behind the CLI.
type Portal struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Metrics *statsd.Client
	Gateway *gateway.Client
	Session *session.Store
	API     *api.Client
	Scanner *scanner.Controller
	TagLink *taglink.Workflow

	// FileCache is non-nil when the file backend is active; it also holds
	// the remembered matric number.
	FileCache *sessioncache.FileStore

	redis redis.UniversalClient
}

// Options adjusts portal construction beyond what config carries.
type Options struct {
	Config config.AppConfig
	Logger *slog.Logger

	// OnLogout runs whenever the session transitions to logged out,
	// including 401 evictions.
	OnLogout func()
}

// storeTokens bridges the gateway's construction-time need for a token
// source with the session store that can only exist once the gateway does.
type storeTokens struct {
	store *session.Store
}

func (s *storeTokens) Token() string {
	if s.store == nil {
		return ""
	}
	return s.store.Token()
}

func (s *storeTokens) handleUnauthorized() {
	if s.store != nil {
		s.store.HandleUnauthorized()
	}
}

// New wires the full portal: metrics, gateway, session store, resource
// clients, scanner controller and tag workflow.
func New(opts Options) (*Portal, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.Enabled,
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create metrics client: %w", err)
	}

	tokens := &storeTokens{}
	gw, err := gateway.New(gateway.Options{
		BaseURL:        cfg.API.BaseURL,
		HTTPClient:     apiHTTPClient(cfg.API),
		Tokens:         tokens,
		OnUnauthorized: tokens.handleUnauthorized,
		Logger:         logger,
		Metrics:        metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	portal := &Portal{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Gateway: gw,
	}

	cache, err := portal.initSessionCache()
	if err != nil {
		return nil, err
	}

	store := session.New(session.Options{
		Auth:     gw,
		Cache:    cache,
		TTL:      time.Duration(cfg.Session.TTLHours) * time.Hour,
		OnLogout: opts.OnLogout,
		Logger:   logger,
	})
	tokens.store = store
	portal.Session = store

	portal.API = api.New(gw)

	ctrl, err := scanner.New(scanner.Options{
		API:          portal.API.Scanners,
		PollInterval: cfg.Scanner.PollInterval,
		TagBuffer:    cfg.Scanner.TagBuffer,
		Logger:       logger,
		Metrics:      metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create scanner controller: %w", err)
	}
	portal.Scanner = ctrl

	workflow, err := taglink.New(taglink.Options{
		Students: portal.API.Students,
		Users:    portal.API.Users,
		Tags:     portal.API.Tags,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create taglink workflow: %w", err)
	}
	portal.TagLink = workflow

	return portal, nil
}

// initSessionCache builds the configured session cache backend.
func (p *Portal) initSessionCache() (session.Cache, error) {
	switch p.Config.Session.CacheBackend {
	case config.SessionCacheRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     p.Config.Session.Redis.Addr,
			Password: p.Config.Session.Redis.Password,
			DB:       p.Config.Session.Redis.DB,
		})
		p.redis = rc
		ttl := time.Duration(p.Config.Session.TTLHours) * time.Hour
		return sessioncache.NewRedisStore(rc, p.Config.Session.Redis.KeyPrefix, ttl), nil
	default:
		fileStore, err := sessioncache.NewFileStore(p.Config.Session.CachePath)
		if err != nil {
			return nil, fmt.Errorf("create session cache: %w", err)
		}
		p.FileCache = fileStore
		return fileStore, nil
	}
}

// Close releases network resources held by the portal.
func (p *Portal) Close() error {
	var errs []error
	if p.Scanner != nil {
		p.Scanner.Deactivate()
	}
	if p.redis != nil {
		if err := p.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if p.Metrics != nil {
		if err := p.Metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func apiHTTPClient(cfg config.APIConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}
