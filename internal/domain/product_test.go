package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestProductUnmarshalCanonicalizesFieldVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Product
	}{
		{
			name: "canonical fields",
			raw:  `{"id":1,"title":"Phone","description":"d","image":"http://x/p.png","price":100,"category":"tech"}`,
			want: Product{ID: TextID("1"), Title: "Phone", Description: "d", Image: "http://x/p.png", Price: 100, Category: "tech"},
		},
		{
			name: "categoria fallback and trimmed",
			raw:  `{"id":2,"title":"Shirt","price":20,"categoria":"  Clothes "}`,
			want: Product{ID: TextID("2"), Title: "Shirt", Price: 20, Category: "Clothes"},
		},
		{
			name: "type fallback when category empty",
			raw:  `{"id":3,"title":"Mug","price":5,"category":"","type":"kitchen"}`,
			want: Product{ID: TextID("3"), Title: "Mug", Price: 5, Category: "kitchen"},
		},
		{
			name: "name used when title missing",
			raw:  `{"id":"sku-9","name":"Sticker","price":"2.5"}`,
			want: Product{ID: TextID("sku-9"), Title: "Sticker", Price: 2.5},
		},
		{
			name: "invalid price coerces to zero",
			raw:  `{"id":4,"title":"Bad","price":"bad"}`,
			want: Product{ID: TextID("4"), Title: "Bad", Price: 0},
		},
		{
			name: "missing price coerces to zero",
			raw:  `{"id":5,"title":"Free"}`,
			want: Product{ID: TextID("5"), Title: "Free"},
		},
		{
			name: "non-string category is stringified",
			raw:  `{"id":6,"title":"Number","price":1,"category":42}`,
			want: Product{ID: TextID("6"), Title: "Number", Price: 1, Category: "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Product
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProductUnmarshalRejectsNonObject(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`"phone"`), &p); err == nil {
		t.Fatal("expected error for non-object product")
	}
}

func TestProductIDRoundTripsOriginalForm(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `7`, want: `7`},
		{raw: `7.0`, want: `7.0`},
		{raw: `"7"`, want: `"7"`},
		{raw: `"007"`, want: `"007"`},
		{raw: `"+5"`, want: `"+5"`},
		{raw: `"sku-7"`, want: `"sku-7"`},
	}

	for _, tt := range tests {
		var id ProductID
		if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.raw, err)
		}
		out, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("Marshal(%q) error = %v", id, err)
		}
		if string(out) != tt.want {
			t.Errorf("round trip of %s = %s, want %s", tt.raw, out, tt.want)
		}
	}
}

func TestProductIDEqualIgnoresWireForm(t *testing.T) {
	var fromNumber, fromString ProductID
	if err := json.Unmarshal([]byte(`7`), &fromNumber); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"7"`), &fromString); err != nil {
		t.Fatal(err)
	}

	if !fromNumber.Equal(fromString) {
		t.Error("7 and \"7\" must name the same product")
	}
	if fromNumber.Equal(TextID("007")) {
		t.Error("7 and \"007\" must stay distinct")
	}
	if !fromNumber.IsNumeric() || fromString.IsNumeric() {
		t.Errorf("IsNumeric() = %v/%v, want true/false", fromNumber.IsNumeric(), fromString.IsNumeric())
	}
}

func TestCheckoutRequestKeepsStringIDsQuoted(t *testing.T) {
	var catalog []Product
	if err := json.Unmarshal([]byte(`[{"id":"007","price":1},{"id":"+5","price":2},{"id":8,"price":3}]`), &catalog); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	items := make([]CartItem, 0, len(catalog))
	for _, p := range catalog {
		items = append(items, NewCartItem(p))
	}

	data, err := json.Marshal(NewCheckoutRequest(items, false, ""))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"products":["007","+5",8],"student":false,"coupon":""}`
	if string(data) != want {
		t.Errorf("body = %s, want %s", data, want)
	}
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{in: 10.0, want: 10},
		{in: "12.50", want: 12.5},
		{in: " 3 ", want: 3},
		{in: "bad", want: 0},
		{in: nil, want: 0},
		{in: map[string]any{"amount": 1}, want: 0},
		{in: "NaN", want: 0},
	}

	for _, tt := range tests {
		if got := CoercePrice(tt.in); got != tt.want {
			t.Errorf("CoercePrice(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCartItemPersistsAsProductShape(t *testing.T) {
	item := CartItem{
		EntryID: uuid.MustParse("5f0c2b1e-8d3a-4c39-9a43-0f6c9d2b7e11"),
		Product: Product{ID: NumberID(5), Title: "Cap", Price: 30, Category: "clothes"},
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if fields["entryId"] != item.EntryID.String() {
		t.Errorf("entryId = %v, want %s", fields["entryId"], item.EntryID)
	}
	if fields["id"] != float64(5) {
		t.Errorf("id = %v, want numeric 5", fields["id"])
	}
	if fields["title"] != "Cap" {
		t.Errorf("title = %v, want Cap", fields["title"])
	}

	var back CartItem
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal(CartItem) error = %v", err)
	}
	if diff := cmp.Diff(item, back); diff != "" {
		t.Errorf("CartItem mismatch (-want +got):\n%s", diff)
	}
}

func TestCartItemWithoutEntryIDDecodesToNil(t *testing.T) {
	var item CartItem
	if err := json.Unmarshal([]byte(`{"id":1,"title":"Legacy","price":"9"}`), &item); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if item.EntryID != uuid.Nil {
		t.Errorf("EntryID = %s, want nil", item.EntryID)
	}
	if item.Product.Price != 9 {
		t.Errorf("Price = %v, want 9", item.Product.Price)
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortOrder
		wantErr bool
	}{
		{raw: "", want: SortNone},
		{raw: "price_asc", want: SortPriceAsc},
		{raw: "precoCrescente", want: SortPriceAsc},
		{raw: "PRICE_DESC", want: SortPriceDesc},
		{raw: "precoDecrescente", want: SortPriceDesc},
		{raw: "alphabetical", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSortOrder(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNewCheckoutRequestKeepsCartOrder(t *testing.T) {
	items := []CartItem{
		NewCartItem(Product{ID: NumberID(3)}),
		NewCartItem(Product{ID: NumberID(1)}),
		NewCartItem(Product{ID: NumberID(3)}),
	}

	req := NewCheckoutRequest(items, true, "DEISI10")

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"products":[3,1,3],"student":true,"coupon":"DEISI10"}`
	if string(data) != want {
		t.Errorf("body = %s, want %s", data, want)
	}
}
