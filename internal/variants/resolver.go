package variants

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/merchdrop/storefront-gateway/internal/cart"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
	"golang.org/x/sync/errgroup"
)

// canonicalIDShape matches the 8-4-4-4-12 hexadecimal identifier format.
var canonicalIDShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Resolve produces the definitive variant identifier for one cart line.
// A canonical-shaped reference passes through untouched; otherwise the
// reference is matched against the product's SKUs; an empty reference falls
// back to the product's sole variant when it has exactly one. Returns ""
// when the line cannot be resolved.
func Resolve(line cart.Line, records []upstream.VariantRecord) string {
	raw := line.RawVariantRef()

	if canonicalIDShape.MatchString(raw) {
		return raw
	}

	if raw != "" {
		for _, rec := range records {
			if strings.EqualFold(strings.TrimSpace(rec.SKU), raw) {
				return rec.ID
			}
		}
		return ""
	}

	if len(records) == 1 {
		return records[0].ID
	}
	return ""
}

type catalogLoader interface {
	GetProduct(ctx context.Context, productID string) (*upstream.ProductDetail, error)
}

// FetchVariantLists loads the variant list for each distinct product exactly
// once, issuing the lookups concurrently and waiting for all to settle. A
// failed lookup degrades to an empty list for that product so a single
// catalog outage never aborts the whole checkout attempt. The returned map
// lives for one checkout attempt only.
func FetchVariantLists(ctx context.Context, loader catalogLoader, productIDs []string) map[string][]upstream.VariantRecord {
	distinct := make([]string, 0, len(productIDs))
	seen := map[string]struct{}{}
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	lists := make(map[string][]upstream.VariantRecord, len(distinct))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range distinct {
		id := id
		g.Go(func() error {
			records := []upstream.VariantRecord{}
			if detail, err := loader.GetProduct(gctx, id); err == nil && detail != nil {
				records = detail.Variants
			}
			mu.Lock()
			lists[id] = records
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return lists
}
