package tenancy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/metrics"
	"github.com/amoylab/tenantly/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Source names the request signal a tenant slug was taken from
type Source string

const (
	SourceNone   Source = "none"
	SourceHeader Source = "header"
	SourcePath   Source = "path"
	SourceHost   Source = "host"
)

var pathPrefix = regexp.MustCompile(`(?i)^/(t|tenant)/([a-z0-9-]+)(/|$)`)

// Lookup finds a tenant by slug
type Lookup interface {
	Lookup(ctx context.Context, slug string) (*database.Tenant, error)
}

// Resolver derives the active tenant of a request
type Resolver struct {
	lookup      Lookup
	header      string
	rootDomains map[string]struct{}
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewResolver creates a Resolver. m may be nil.
func NewResolver(cfg config.TenancyConfig, lookup Lookup, m *metrics.Metrics, logger *zap.Logger) *Resolver {
	roots := make(map[string]struct{}, len(cfg.RootDomains))
	for _, d := range cfg.RootDomains {
		roots[strings.TrimSuffix(strings.ToLower(strings.TrimSpace(d)), ".")] = struct{}{}
	}
	header := cfg.Header
	if header == "" {
		header = "X-Tenant-ID"
	}
	return &Resolver{
		lookup:      lookup,
		header:      header,
		rootDomains: roots,
		metrics:     m,
		logger:      logger.Named("tenancy.resolver"),
	}
}

// Candidate returns the normalized tenant slug carried by r and where it came from.
// The first signal present wins: header, then path prefix, then host label.
func (res *Resolver) Candidate(r *http.Request) (string, Source) {
	if slug := database.NormalizeSlug(r.Header.Get(res.header)); slug != "" {
		return slug, SourceHeader
	}
	if m := pathPrefix.FindStringSubmatch(r.URL.Path); m != nil {
		return database.NormalizeSlug(m[2]), SourcePath
	}
	if slug := res.hostLabel(r.Host); slug != "" {
		return slug, SourceHost
	}
	return "", SourceNone
}

// hostLabel returns the leftmost label of host, or "" for loopback names,
// IP literals and configured root domains.
func (res *Resolver) hostLabel(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")

	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	if _, ok := res.rootDomains[host]; ok {
		return ""
	}
	label, _, _ := strings.Cut(host, ".")
	return label
}

// Resolve looks up the tenant selected by r. It returns (nil, SourceNone, nil)
// when the request carries no tenant signal, and a TenantNotFound error naming
// the slug when the signal names an unknown tenant.
func (res *Resolver) Resolve(ctx context.Context, r *http.Request) (*database.Tenant, Source, error) {
	slug, source := res.Candidate(r)
	if slug == "" {
		res.metrics.TenantResolved(string(source), "absent")
		return nil, SourceNone, nil
	}

	span := trace.Tracer("tenancy").Start(ctx, "tenant.resolve").
		WithAttrs(attribute.String("tenant.slug", slug), attribute.String("tenant.source", string(source)))
	defer span.End()

	tenant, err := res.lookup.Lookup(span.Ctx, slug)
	switch {
	case err == nil:
		res.metrics.TenantResolved(string(source), "found")
		return tenant, source, nil
	case errors.Is(err, database.ErrNotFound):
		res.metrics.TenantResolved(string(source), "not_found")
		res.logger.Warn("tenant not found",
			zap.String("slug", slug),
			zap.String("source", string(source)),
			zap.String("path", r.URL.Path),
		)
		notFound := i18n.ErrTenantNotFound.WithParam("Slug", slug)
		span.RecordError(notFound)
		return nil, source, notFound
	default:
		res.metrics.TenantResolved(string(source), "error")
		span.RecordError(err)
		return nil, source, fmt.Errorf("resolve tenant %q: %w", slug, err)
	}
}
