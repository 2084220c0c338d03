package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/merchdrop/storefront-gateway/internal/cart"
	"github.com/merchdrop/storefront-gateway/internal/variants"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
	"github.com/merchdrop/storefront-gateway/pkg/metrics"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
)

const (
	msgEmptyCart         = "add something to your cart first"
	msgBadQuantities     = "adjust quantities before checking out"
	msgUnresolvedVariant = "select a variant before placing an order"
	msgOrderIDMissing    = "order id missing"
	msgGenericFailure    = "could not place the order, please try again"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, actingUserID string, lines []upstream.OrderLine) (*upstream.CreateOrderResult, error)
}

type catalogLoader interface {
	GetProduct(ctx context.Context, productID string) (*upstream.ProductDetail, error)
}

type submitGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutGuardKey(cartToken string) string
}

// Input carries the authenticated identity attempting checkout.
type Input struct {
	CartToken string
	UserID    string
	Role      enums.AccountRole
}

// Result is the terminal state of one checkout attempt, consumed by the
// presentation layer. Blocked and Failed carry a user-facing message;
// Succeeded carries the created order's identifier.
type Result struct {
	State   enums.CheckoutState
	Message string
	OrderID string
}

// Service drives the transition from cart contents to a submitted order.
type Service struct {
	orders   orderCreator
	catalog  catalogLoader
	guard    submitGuard
	guardTTL time.Duration
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(orders orderCreator, catalog catalogLoader, guard submitGuard, guardTTL time.Duration, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if guard == nil {
		return nil, fmt.Errorf("submit guard required")
	}
	if guardTTL <= 0 {
		guardTTL = 30 * time.Second
	}
	return &Service{
		orders:   orders,
		catalog:  catalog,
		guard:    guard,
		guardTTL: guardTTL,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Execute runs one checkout attempt against the provided cart. The attempt is
// linear; every retry is user-initiated by calling Execute again. The cart is
// cleared only on a confirmed success, never on Blocked or Failed outcomes.
func (s *Service) Execute(ctx context.Context, store *cart.Store, input Input) (*Result, error) {
	start := time.Now()
	result, err := s.execute(ctx, store, input)
	if result != nil {
		s.metrics.ObserveAttempt(result.State.String(), time.Since(start))
		s.logState(ctx, result)
	}
	return result, err
}

func (s *Service) execute(ctx context.Context, store *cart.Store, input Input) (*Result, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable")
	}

	// Validating.
	lines := store.Lines()
	if len(lines) == 0 {
		return blocked(msgEmptyCart), nil
	}
	if input.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	if input.Role != enums.AccountRoleFan {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only fan accounts can place orders")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return blocked(msgBadQuantities), nil
		}
	}

	// ResolvingVariants: one catalog lookup per distinct product, issued
	// concurrently; the lists live for this attempt only.
	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	lists := variants.FetchVariantLists(ctx, s.catalog, productIDs)

	orderLines := make([]upstream.OrderLine, 0, len(lines))
	for _, line := range lines {
		variantID := variants.Resolve(line, lists[line.ProductID])
		if variantID == "" {
			return blocked(msgUnresolvedVariant), nil
		}
		orderLines = append(orderLines, upstream.OrderLine{
			ProductID:        line.ProductID,
			ProductVariantID: variantID,
			Quantity:         line.Quantity,
		})
	}

	// Submitting. The guard bars a second submit for the same cart while
	// one is in flight.
	guardKey := s.guard.CheckoutGuardKey(input.CartToken)
	acquired, err := s.guard.SetNX(ctx, guardKey, "1", s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit guard")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		_ = s.guard.Del(ctx, guardKey)
	}()

	created, err := s.orders.CreateOrder(ctx, input.UserID, orderLines)
	if err != nil {
		return failed(failureMessage(err)), nil
	}
	if created == nil || created.OrderID == "" {
		// The call reported success but no identifier could be found in
		// any accepted response shape. The order's existence is
		// unconfirmed, so the cart stays intact.
		return failed(msgOrderIDMissing), nil
	}

	if err := store.Clear(ctx); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "order_id", created.OrderID), "checkout.cart_clear_failed")
		}
	}
	return &Result{State: enums.CheckoutStateSucceeded, OrderID: created.OrderID}, nil
}

func blocked(message string) *Result {
	return &Result{State: enums.CheckoutStateBlocked, Message: message}
}

func failed(message string) *Result {
	return &Result{State: enums.CheckoutStateFailed, Message: message}
}

// failureMessage prefers the upstream-supplied detail and suppresses raw
// transport status codes behind a generic retry message.
func failureMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return msgGenericFailure
	}
	if details, ok := typed.Details().(map[string]any); ok {
		if detail, ok := details["detail"].(string); ok && detail != "" {
			return detail
		}
	}
	return msgGenericFailure
}

func (s *Service) logState(ctx context.Context, result *Result) {
	if s.logg == nil {
		return
	}
	fields := map[string]any{"checkout_state": result.State.String()}
	if result.OrderID != "" {
		fields["order_id"] = result.OrderID
	}
	if result.Message != "" {
		fields["checkout_message"] = result.Message
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "checkout.attempt")
}
