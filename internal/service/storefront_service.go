package service

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartSummary is the cart contents plus its total
type CartSummary struct {
	Items []domain.CartItem
	Total float64
}

// StorefrontService defines the operations the presentation layers use
type StorefrontService interface {
	LoadCatalog(ctx context.Context) ([]domain.Product, error)
	Browse(ctx context.Context, spec domain.QuerySpec) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AddToCart(ctx context.Context, cartKey string, productID domain.ProductID) (domain.CartItem, error)
	RemoveFromCart(ctx context.Context, cartKey string, entryID uuid.UUID) error
	RemoveFromCartAt(ctx context.Context, cartKey string, index int) error
	RemoveProductFromCart(ctx context.Context, cartKey string, productID domain.ProductID) (int, error)
	ClearCart(ctx context.Context, cartKey string) error
	Cart(ctx context.Context, cartKey string) (*CartSummary, error)
	Checkout(ctx context.Context, cartKey string, student bool, coupon string) (*domain.CheckoutResult, error)
}

type storefrontService struct {
	catalog   *catalog.Store
	carts     *cart.Manager
	submitter *checkout.Submitter
	guard     *checkout.Guard
	logger    *zap.Logger
}

// NewStorefrontService creates a new instance of StorefrontService
func NewStorefrontService(
	catalogStore *catalog.Store,
	carts *cart.Manager,
	submitter *checkout.Submitter,
	logger *zap.Logger,
) StorefrontService {
	return &storefrontService{
		catalog:   catalogStore,
		carts:     carts,
		submitter: submitter,
		guard:     checkout.NewGuard(),
		logger:    logger,
	}
}

// LoadCatalog fetches the catalog from its source, replacing what is held
func (s *storefrontService) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.Load(ctx)
}

// ensureLoaded loads the catalog on first use and after a failed load
func (s *storefrontService) ensureLoaded(ctx context.Context) error {
	if s.catalog.Loaded() {
		return nil
	}
	_, err := s.catalog.Load(ctx)
	return err
}

// Browse returns the catalog filtered, searched and sorted by the query
func (s *storefrontService) Browse(ctx context.Context, spec domain.QuerySpec) ([]domain.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return query.Apply(s.catalog.Products(), spec), nil
}

// Categories returns the categories present in the catalog
func (s *storefrontService) Categories(ctx context.Context) ([]string, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.catalog.Categories(), nil
}

// AddToCart copies the catalog product into the cart
func (s *storefrontService) AddToCart(ctx context.Context, cartKey string, productID domain.ProductID) (domain.CartItem, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.CartItem{}, err
	}

	product, err := s.catalog.Find(productID)
	if err != nil {
		return domain.CartItem{}, err
	}

	item, err := s.carts.Store(cartKey).Add(ctx, product)
	if err != nil {
		s.logger.Error("Failed to add cart item", zap.String("cart_key", cartKey), zap.Error(err))
		return domain.CartItem{}, fmt.Errorf("failed to add to cart: %w", err)
	}

	return item, nil
}

// RemoveFromCart removes one entry by its stable id
func (s *storefrontService) RemoveFromCart(ctx context.Context, cartKey string, entryID uuid.UUID) error {
	return s.carts.Store(cartKey).RemoveEntry(ctx, entryID)
}

// RemoveFromCartAt removes the entry at a position of the current cart
func (s *storefrontService) RemoveFromCartAt(ctx context.Context, cartKey string, index int) error {
	return s.carts.Store(cartKey).RemoveAt(ctx, index)
}

// RemoveProductFromCart removes all entries of a product
func (s *storefrontService) RemoveProductFromCart(ctx context.Context, cartKey string, productID domain.ProductID) (int, error) {
	return s.carts.Store(cartKey).RemoveProduct(ctx, productID)
}

// ClearCart empties the cart
func (s *storefrontService) ClearCart(ctx context.Context, cartKey string) error {
	return s.carts.Store(cartKey).Clear(ctx)
}

// Cart returns the current items and total
func (s *storefrontService) Cart(ctx context.Context, cartKey string) (*CartSummary, error) {
	items, err := s.carts.Store(cartKey).List(ctx)
	if err != nil {
		return nil, err
	}

	return &CartSummary{
		Items: items,
		Total: cart.Sum(items),
	}, nil
}

// Checkout submits the cart once. A second call for the same cart while
// the first is unresolved fails with checkout.ErrSubmissionInFlight.
func (s *storefrontService) Checkout(ctx context.Context, cartKey string, student bool, coupon string) (*domain.CheckoutResult, error) {
	release, ok := s.guard.Acquire(cartKey)
	if !ok {
		s.logger.Info("Duplicate checkout rejected", zap.String("cart_key", cartKey))
		return nil, checkout.ErrSubmissionInFlight
	}
	defer release()

	items, err := s.carts.Store(cartKey).List(ctx)
	if err != nil {
		return nil, err
	}

	return s.submitter.Submit(ctx, items, student, coupon)
}
