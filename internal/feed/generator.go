package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedbridge/internal/credentials"
	"feedbridge/internal/logger"
	"feedbridge/internal/services/tiendanube"
)

// ErrNotInstalled means the requested store has no stored credential.
var ErrNotInstalled = errors.New("store is not installed")

// CatalogClient is the slice of the platform API the pipeline needs.
type CatalogClient interface {
	PlatformDirectory
	FetchAllProducts(ctx context.Context, storeID, accessToken string) ([]tiendanube.Product, error)
}

// Result is the outcome of one feed request.
type Result struct {
	NotModified bool
	FromCache   bool
	Body        []byte
	Fingerprint string
}

// Generator runs the feed pipeline: credential lookup, cache/conditional
// check, domain resolution, catalog fetch, flattening, serialization, cache
// store.
type Generator struct {
	credentials credentials.Store
	client      CatalogClient
	domains     *DomainResolver
	brands      *BrandResolver
	flattener   *Flattener
	serializer  *Serializer
	cache       *Cache
	metrics     *Metrics
	logger      *logger.Logger
	variantMode string
}

func NewGenerator(
	credentialStore credentials.Store,
	client CatalogClient,
	domains *DomainResolver,
	brands *BrandResolver,
	flattener *Flattener,
	serializer *Serializer,
	cache *Cache,
	metrics *Metrics,
	logger *logger.Logger,
	variantMode string,
) *Generator {
	if variantMode != VariantModeFirst {
		variantMode = VariantModeSplit
	}
	return &Generator{
		credentials: credentialStore,
		client:      client,
		domains:     domains,
		brands:      brands,
		flattener:   flattener,
		serializer:  serializer,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		variantMode: variantMode,
	}
}

// Generate produces the feed for one store. A missing credential yields
// ErrNotInstalled, never a partial document. ifNoneMatch is the raw
// If-None-Match request header value, possibly empty.
func (g *Generator) Generate(ctx context.Context, storeID, domainOverride, ifNoneMatch string) (*Result, error) {
	accessToken, ok, err := g.credentials.Load(ctx, storeID)
	if err != nil {
		g.metrics.IncError(storeID)
		return nil, fmt.Errorf("loading credential for store %s: %w", storeID, err)
	}
	if !ok {
		return nil, ErrNotInstalled
	}

	if entry := g.cache.Get(storeID); entry != nil {
		if etagMatch(ifNoneMatch, entry.Fingerprint) {
			g.metrics.IncNotModified(storeID)
			return &Result{NotModified: true, FromCache: true, Fingerprint: entry.Fingerprint}, nil
		}
		g.metrics.IncCacheHit(storeID)
		return &Result{FromCache: true, Body: entry.Body, Fingerprint: entry.Fingerprint}, nil
	}

	host := g.domains.Resolve(ctx, storeID, accessToken, domainOverride)

	products, err := g.client.FetchAllProducts(ctx, storeID, accessToken)
	if err != nil {
		g.metrics.IncError(storeID)
		g.logger.Error("Product fetch failed for store %s: %v", storeID, err)
		return nil, err
	}

	items := g.flattener.Flatten(products, g.variantMode)
	g.applyBrands(storeID, products, items)

	body, err := g.serializer.Serialize(items, host)
	if err != nil {
		g.metrics.IncError(storeID)
		return nil, err
	}

	entry := g.cache.Put(storeID, body)
	g.metrics.IncGenerated(storeID)
	g.logger.Info("Generated feed for store %s: %d products, %d bytes", storeID, len(products), len(body))

	if etagMatch(ifNoneMatch, entry.Fingerprint) {
		g.metrics.IncNotModified(storeID)
		return &Result{NotModified: true, Fingerprint: entry.Fingerprint}, nil
	}

	return &Result{Body: entry.Body, Fingerprint: entry.Fingerprint}, nil
}

// Metrics exposes the per-store counters.
func (g *Generator) Metrics() *Metrics {
	return g.metrics
}

// applyBrands resolves a brand per product and stamps it on the product's
// items. Item ids are "{productID}" or "{productID}-{variantID}".
func (g *Generator) applyBrands(storeID string, products []tiendanube.Product, items []Item) {
	brands := make(map[string]string, len(products))
	for i := range products {
		brands[fmt.Sprintf("%d", products[i].ID)] = g.brands.Resolve(storeID, &products[i])
	}
	for i := range items {
		productID := items[i].ID
		if j := strings.IndexByte(productID, '-'); j >= 0 {
			productID = productID[:j]
		}
		items[i].Brand = brands[productID]
	}
}

// etagMatch compares an If-None-Match header value against a fingerprint,
// tolerating quotes and weak validators.
func etagMatch(ifNoneMatch, fingerprint string) bool {
	if ifNoneMatch == "" || fingerprint == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		candidate = strings.Trim(candidate, `"`)
		if candidate == fingerprint || candidate == "*" {
			return true
		}
	}
	return false
}
