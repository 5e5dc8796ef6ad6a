// Package geocode turns free-text addresses into coordinates and address parts.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/google"
	"github.com/codingsince1985/geo-golang/mapquest/open"
	"github.com/codingsince1985/geo-golang/opencage"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/gauravsharma29/Dev-Camper-API/internal/cache"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

var ErrNoResults = errors.New("geocoder returned no results")

// Result is the first match the provider returned for an address.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	StateCode        string
	Zipcode          string
	CountryCode      string
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Config is built once at startup and handed to New.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Observer records the outcome of a call to an external service.
type Observer interface {
	ObserveExternal(service string, fn func() error) error
}

// New builds the provider client named by cfg, wrapped with metrics and a result cache.
// obs may be nil.
func New(cfg Config, obs Observer) (Geocoder, error) {
	client, err := newProviderClient(cfg)
	if err != nil {
		return nil, err
	}

	var g Geocoder = &Provider{client: client, timeout: cfg.Timeout}

	if obs != nil {
		g = &instrumented{next: g, obs: obs}
	}

	if cfg.CacheTTL > 0 {
		g = NewCached(g, cache.New[Result](cfg.CacheTTL))
	}

	return g, nil
}

func newProviderClient(cfg Config) (geo.Geocoder, error) {
	var baseURLs []string
	if cfg.BaseURL != "" {
		baseURLs = append(baseURLs, cfg.BaseURL)
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "openstreetmap":
		if cfg.BaseURL != "" {
			return openstreetmap.GeocoderWithURL(cfg.BaseURL), nil
		}
		return openstreetmap.Geocoder(), nil
	case "mapquest":
		return open.Geocoder(cfg.APIKey, baseURLs...), nil
	case "google":
		return google.Geocoder(cfg.APIKey, baseURLs...), nil
	case "opencage":
		return opencage.Geocoder(cfg.APIKey, baseURLs...), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}
}

// Provider adapts a geo-golang client. The forward lookup yields coordinates and a
// reverse lookup on them yields the structured address parts.
type Provider struct {
	client  geo.Geocoder
	timeout time.Duration
}

func NewProvider(client geo.Geocoder, timeout time.Duration) *Provider {
	return &Provider{client: client, timeout: timeout}
}

func (p *Provider) Geocode(ctx context.Context, address string) (Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	type outcome struct {
		res Result
		err error
	}

	// the client has no context support, so the deadline is enforced here
	done := make(chan outcome, 1)
	go func() {
		res, err := p.lookup(address)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("geocode %q: %w", address, ctx.Err())
	case o := <-done:
		return o.res, o.err
	}
}

func (p *Provider) lookup(address string) (Result, error) {
	loc, err := p.client.Geocode(address)
	if err != nil {
		return Result{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if loc == nil {
		return Result{}, fmt.Errorf("geocode %q: %w", address, ErrNoResults)
	}

	res := Result{Latitude: loc.Lat, Longitude: loc.Lng}

	addr, err := p.client.ReverseGeocode(loc.Lat, loc.Lng)
	if err != nil {
		return Result{}, fmt.Errorf("reverse geocode %q: %w", address, err)
	}

	if addr != nil {
		res.FormattedAddress = addr.FormattedAddress
		res.Street = strings.TrimSpace(addr.HouseNumber + " " + addr.Street)
		res.City = addr.City
		res.StateCode = addr.StateCode
		if res.StateCode == "" {
			res.StateCode = addr.State
		}
		res.Zipcode = addr.Postcode
		res.CountryCode = strings.ToUpper(addr.CountryCode)
	}

	if res.FormattedAddress == "" {
		res.FormattedAddress = address
	}

	return res, nil
}

type instrumented struct {
	next Geocoder
	obs  Observer
}

func (g *instrumented) Geocode(ctx context.Context, address string) (Result, error) {
	var res Result
	err := g.obs.ObserveExternal("geocoder", func() error {
		var err error
		res, err = g.next.Geocode(ctx, address)
		return err
	})
	return res, err
}

// Cached memoizes successful lookups by normalized address.
type Cached struct {
	next  Geocoder
	cache *cache.Cache[Result]
}

func NewCached(next Geocoder, c *cache.Cache[Result]) *Cached {
	return &Cached{next: next, cache: c}
}

func (g *Cached) Geocode(ctx context.Context, address string) (Result, error) {
	key := utils.BuildGeocodeCacheKey(address)

	if res, ok := g.cache.Get(key); ok {
		return res, nil
	}

	res, err := g.next.Geocode(ctx, address)
	if err != nil {
		return Result{}, err
	}

	g.cache.Set(key, res)
	return res, nil
}
