package feed

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"feedbridge/internal/logger"
)

// PlatformDirectory is the slice of the platform API the resolver needs.
type PlatformDirectory interface {
	GetDomains(ctx context.Context, storeID, accessToken string) ([]json.RawMessage, error)
	GetStore(ctx context.Context, storeID, accessToken string) (map[string]json.RawMessage, error)
}

var hostPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)

// DomainResolver determines the public storefront hostname for a store. The
// strategies run in order, first hit wins, and remote failures fall through to
// the next strategy. Resolution never fails: the last strategy is a
// deterministic platform subdomain.
type DomainResolver struct {
	overrides      map[string]string
	platformDomain string
	directory      PlatformDirectory
	logger         *logger.Logger
}

func NewDomainResolver(overrides map[string]string, platformDomain string, directory PlatformDirectory, logger *logger.Logger) *DomainResolver {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &DomainResolver{
		overrides:      overrides,
		platformDomain: platformDomain,
		directory:      directory,
		logger:         logger,
	}
}

type domainStrategy func(ctx context.Context, storeID, accessToken, override string) (string, bool)

func (r *DomainResolver) Resolve(ctx context.Context, storeID, accessToken, override string) string {
	strategies := []domainStrategy{
		r.fromOverride,
		r.fromConfig,
		r.fromDomainsEndpoint,
		r.fromStoreEndpoint,
	}

	for _, strategy := range strategies {
		if host, ok := strategy(ctx, storeID, accessToken, override); ok {
			return host
		}
	}

	return storeID + "." + r.platformDomain
}

func (r *DomainResolver) fromOverride(ctx context.Context, storeID, accessToken, override string) (string, bool) {
	host := normalizeHost(override)
	if host != "" && hostPattern.MatchString(host) && !r.isPlatformOwned(host) {
		return host, true
	}
	return "", false
}

func (r *DomainResolver) fromConfig(ctx context.Context, storeID, accessToken, override string) (string, bool) {
	host := normalizeHost(r.overrides[storeID])
	if host != "" && hostPattern.MatchString(host) && !r.isPlatformOwned(host) {
		return host, true
	}
	return "", false
}

func (r *DomainResolver) fromDomainsEndpoint(ctx context.Context, storeID, accessToken, override string) (string, bool) {
	entries, err := r.directory.GetDomains(ctx, storeID, accessToken)
	if err != nil {
		r.logger.Debug("Domains lookup failed for store %s: %v", storeID, err)
		return "", false
	}
	return r.pickDomain(entries)
}

func (r *DomainResolver) fromStoreEndpoint(ctx context.Context, storeID, accessToken, override string) (string, bool) {
	store, err := r.directory.GetStore(ctx, storeID, accessToken)
	if err != nil {
		r.logger.Debug("Store lookup failed for store %s: %v", storeID, err)
		return "", false
	}

	if raw, ok := store["domains"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err == nil {
			if host, ok := r.pickDomain(entries); ok {
				return host, true
			}
		}
	}

	// Alternate single-value field names seen across API versions.
	for _, field := range []string{"domain", "original_domain", "url", "canonical_url"} {
		if raw, ok := store[field]; ok {
			if host := normalizeDomainValue(raw, 0); host != "" {
				return host, true
			}
		}
	}

	return "", false
}

// pickDomain normalizes each entry and prefers the first host that is not a
// platform-owned subdomain, else the first normalized entry.
func (r *DomainResolver) pickDomain(entries []json.RawMessage) (string, bool) {
	var first string
	for _, entry := range entries {
		host := normalizeDomainValue(entry, 0)
		if host == "" {
			continue
		}
		if !r.isPlatformOwned(host) {
			return host, true
		}
		if first == "" {
			first = host
		}
	}
	if first != "" {
		return first, true
	}
	return "", false
}

func (r *DomainResolver) isPlatformOwned(host string) bool {
	return host == r.platformDomain || strings.HasSuffix(host, "."+r.platformDomain)
}

// normalizeDomainValue extracts a hostname from a domain-like JSON value:
// plain strings are normalized directly, structured values are probed on
// nested domain/url/name/host fields.
func normalizeDomainValue(raw json.RawMessage, depth int) string {
	if depth > 3 || len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return normalizeHost(plain)
	}

	var structured map[string]json.RawMessage
	if err := json.Unmarshal(raw, &structured); err != nil {
		return ""
	}
	for _, field := range []string{"domain", "url", "name", "host"} {
		if nested, ok := structured[field]; ok {
			if host := normalizeDomainValue(nested, depth+1); host != "" {
				return host
			}
		}
	}
	return ""
}

// normalizeHost strips a leading scheme and trailing slashes and lowercases.
func normalizeHost(value string) string {
	host := strings.TrimSpace(value)
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimRight(host, "/")
	return strings.ToLower(host)
}
