package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

const catalogJSON = `[
	{"id":1,"title":"Phone","price":100,"category":"tech"},
	{"id":2,"title":"Shirt","price":20,"category":"clothes"},
	{"id":3,"title":"Laptop","price":900,"category":"tech"}
]`

// fakeShop imitates the remote catalog/buy API
type fakeShop struct {
	catalogStatus atomic.Int32
	catalogHits   atomic.Int32
	buyHits       atomic.Int32
	buyGate       chan struct{}

	mu      sync.Mutex
	lastBuy domain.CheckoutRequest
}

func (s *fakeShop) lastRequest() domain.CheckoutRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBuy
}

func newFakeShop(t *testing.T) (*fakeShop, *httptest.Server) {
	t.Helper()

	shop := &fakeShop{}
	shop.catalogStatus.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		shop.catalogHits.Add(1)
		status := int(shop.catalogStatus.Load())
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(catalogJSON))
		}
	})
	mux.HandleFunc("POST /buy/", func(w http.ResponseWriter, r *http.Request) {
		shop.buyHits.Add(1)
		if shop.buyGate != nil {
			<-shop.buyGate
		}
		var req domain.CheckoutRequest
		json.NewDecoder(r.Body).Decode(&req)
		shop.mu.Lock()
		shop.lastBuy = req
		shop.mu.Unlock()
		if req.Coupon == "BAD" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid coupon"}`))
			return
		}
		w.Write([]byte(`{"totalCost":95,"reference":"XYZ"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return shop, srv
}

func newTestService(t *testing.T, baseURL string) StorefrontService {
	t.Helper()

	logger := zap.NewNop()
	client := catalog.NewHTTPClient(5 * time.Second)

	return NewStorefrontService(
		catalog.NewStore(catalog.NewHTTPSource(baseURL, client), logger),
		cart.NewManager(repository.NewMemoryRecordRepository(), logger),
		checkout.NewSubmitter(baseURL, client, logger),
		logger,
	)
}

func TestBrowseLoadsCatalogOnce(t *testing.T) {
	shop, srv := newFakeShop(t)
	svc := newTestService(t, srv.URL)
	ctx := context.Background()

	got, err := svc.Browse(ctx, domain.QuerySpec{Category: "TECH", Sort: domain.SortPriceDesc})
	if err != nil {
		t.Fatalf("Browse() error = %v", err)
	}

	var titles []string
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	if diff := cmp.Diff([]string{"Laptop", "Phone"}, titles); diff != "" {
		t.Errorf("Browse() mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.Categories(ctx); err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if shop.catalogHits.Load() != 1 {
		t.Errorf("catalog fetched %d times, want 1", shop.catalogHits.Load())
	}
}

func TestBrowseRetriesLoadOnNextCallAfterFailure(t *testing.T) {
	shop, srv := newFakeShop(t)
	svc := newTestService(t, srv.URL)
	ctx := context.Background()

	shop.catalogStatus.Store(http.StatusServiceUnavailable)
	_, err := svc.Browse(ctx, domain.QuerySpec{})

	var fetchErr *catalog.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Browse() error = %v, want *catalog.FetchError", err)
	}
	if shop.catalogHits.Load() != 1 {
		t.Fatalf("failed load must not retry, got %d fetches", shop.catalogHits.Load())
	}

	shop.catalogStatus.Store(http.StatusOK)
	got, err := svc.Browse(ctx, domain.QuerySpec{})
	if err != nil {
		t.Fatalf("second Browse() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Browse() returned %d products, want 3", len(got))
	}
}

func TestCartFlowAndCheckout(t *testing.T) {
	shop, srv := newFakeShop(t)
	svc := newTestService(t, srv.URL)
	ctx := context.Background()
	key := "cart:test"

	phone, err := svc.AddToCart(ctx, key, domain.TextID("1"))
	if err != nil {
		t.Fatalf("AddToCart(1) error = %v", err)
	}
	if _, err := svc.AddToCart(ctx, key, domain.TextID("2")); err != nil {
		t.Fatalf("AddToCart(2) error = %v", err)
	}
	if _, err := svc.AddToCart(ctx, key, domain.TextID("2")); err != nil {
		t.Fatalf("AddToCart(2) error = %v", err)
	}

	if _, err := svc.AddToCart(ctx, key, domain.TextID("99")); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("AddToCart(99) error = %v, want ErrProductNotFound", err)
	}

	summary, err := svc.Cart(ctx, key)
	if err != nil {
		t.Fatalf("Cart() error = %v", err)
	}
	if len(summary.Items) != 3 || summary.Total != 140 {
		t.Errorf("Cart() = %d items / %v, want 3 / 140", len(summary.Items), summary.Total)
	}

	if err := svc.RemoveFromCart(ctx, key, phone.EntryID); err != nil {
		t.Fatalf("RemoveFromCart() error = %v", err)
	}

	result, err := svc.Checkout(ctx, key, true, "DEISI")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if result.Reference != "XYZ" || result.TotalCost != 95 {
		t.Errorf("Checkout() = %+v", result)
	}
	sent := shop.lastRequest()
	if diff := cmp.Diff([]domain.ProductID{domain.NumberID(2), domain.NumberID(2)}, sent.Products); diff != "" {
		t.Errorf("checkout products mismatch (-want +got):\n%s", diff)
	}
	for _, id := range sent.Products {
		if !id.IsNumeric() {
			t.Errorf("checkout sent id %v as a string, catalog sent a number", id)
		}
	}
	if !sent.Student || sent.Coupon != "DEISI" {
		t.Errorf("checkout options = %+v", sent)
	}

	removed, err := svc.RemoveProductFromCart(ctx, key, domain.TextID("2"))
	if err != nil || removed != 2 {
		t.Errorf("RemoveProductFromCart() = %d, %v; want 2, nil", removed, err)
	}

	if err := svc.RemoveFromCartAt(ctx, key, 0); !errors.Is(err, cart.ErrOutOfRange) {
		t.Errorf("RemoveFromCartAt(0) on empty cart error = %v, want ErrOutOfRange", err)
	}
}

func TestCheckoutRejectedCoupon(t *testing.T) {
	_, srv := newFakeShop(t)
	svc := newTestService(t, srv.URL)
	ctx := context.Background()

	svc.AddToCart(ctx, "k", domain.TextID("1"))
	_, err := svc.Checkout(ctx, "k", false, "BAD")

	var httpErr *checkout.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Message != "Invalid coupon" {
		t.Fatalf("Checkout() error = %v, want HTTPError(Invalid coupon)", err)
	}

	summary, _ := svc.Cart(ctx, "k")
	if len(summary.Items) != 1 {
		t.Errorf("rejected checkout changed the cart: %d items", len(summary.Items))
	}
}

func TestCheckoutRejectsSecondSubmissionInFlight(t *testing.T) {
	shop, srv := newFakeShop(t)
	shop.buyGate = make(chan struct{})
	svc := newTestService(t, srv.URL)
	ctx := context.Background()

	svc.AddToCart(ctx, "k", domain.TextID("1"))

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(ctx, "k", false, "")
		firstDone <- err
	}()

	deadline := time.Now().Add(5 * time.Second)
	for shop.buyHits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := svc.Checkout(ctx, "k", false, ""); !errors.Is(err, checkout.ErrSubmissionInFlight) {
		t.Errorf("second Checkout() error = %v, want ErrSubmissionInFlight", err)
	}

	close(shop.buyGate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}
	if shop.buyHits.Load() != 1 {
		t.Errorf("buy endpoint hit %d times, want 1", shop.buyHits.Load())
	}

	if _, err := svc.Checkout(ctx, "k", false, ""); err != nil {
		t.Errorf("Checkout() after completion error = %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	shop, srv := newFakeShop(t)
	svc := newTestService(t, srv.URL)

	_, err := svc.Checkout(context.Background(), "empty", false, "")
	if !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("Checkout() error = %v, want ErrEmptyCart", err)
	}
	if shop.buyHits.Load() != 0 {
		t.Error("empty cart reached the buy endpoint")
	}
}
