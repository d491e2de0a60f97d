package query

import (
	"strconv"
	"strings"
	"testing"
	"unicode"

	"storefront/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genProduct() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),
		gen.OneConstOf("tech", "Tech", " clothes ", "CLOTHES", "home", ""),
		gen.IntRange(0, 20),
	).Map(func(values []interface{}) domain.Product {
		return domain.Product{
			Title:    values[0].(string),
			Category: values[1].(string),
			Price:    float64(values[2].(int)),
		}
	})
}

func genCatalog() gopter.Gen {
	return gen.SliceOf(genProduct()).Map(func(products []domain.Product) []domain.Product {
		for i := range products {
			products[i].ID = domain.TextID(strconv.Itoa(i))
		}
		return products
	})
}

func indexOf(p domain.Product) int {
	i, _ := strconv.Atoi(p.ID.String())
	return i
}

func randomCase(s string, seed int) string {
	var b strings.Builder
	for i, r := range s {
		if (i+seed)%2 == 0 {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func TestProperty_EmptySpecIsIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("apply with an empty query returns the input unchanged", prop.ForAll(
		func(catalog []domain.Product) bool {
			got := Apply(catalog, domain.QuerySpec{})
			if len(catalog) == 0 {
				return len(got) == 0
			}
			if diff := cmp.Diff(catalog, got); diff != "" {
				t.Logf("FAIL: identity mismatch (-want +got):\n%s", diff)
				return false
			}
			return true
		},
		genCatalog(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CategoryFilterKeepsOnlyMatches(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every result has a category equal to the filter", prop.ForAll(
		func(catalog []domain.Product, filter string) bool {
			got := Apply(catalog, domain.QuerySpec{Category: filter})

			want := 0
			for _, p := range catalog {
				if domain.CategoryKey(p.Category) == domain.CategoryKey(filter) {
					want++
				}
			}
			if len(got) != want {
				t.Logf("FAIL: expected %d matches for %q, got %d", want, filter, len(got))
				return false
			}

			for _, p := range got {
				if !strings.EqualFold(strings.TrimSpace(p.Category), strings.TrimSpace(filter)) {
					t.Logf("FAIL: %q does not match filter %q", p.Category, filter)
					return false
				}
			}
			return true
		},
		genCatalog(),
		gen.OneConstOf("tech", "TECH", "clothes", " Clothes", "home", "garden"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SearchIsCaseInsensitive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every result title contains the term regardless of case", prop.ForAll(
		func(catalog []domain.Product, term string, seed int) bool {
			varied := make([]domain.Product, len(catalog))
			for i, p := range catalog {
				p.Title = randomCase(p.Title, seed+i)
				varied[i] = p
			}

			got := Apply(varied, domain.QuerySpec{Search: randomCase(term, seed)})
			for _, p := range got {
				if !strings.Contains(strings.ToLower(p.Title), strings.ToLower(term)) {
					t.Logf("FAIL: %q does not contain %q", p.Title, term)
					return false
				}
			}

			plain := Apply(catalog, domain.QuerySpec{Search: term})
			if len(plain) != len(got) {
				t.Logf("FAIL: case variation changed result size %d -> %d", len(plain), len(got))
				return false
			}
			return true
		},
		genCatalog(),
		gen.AlphaString().Map(func(s string) string {
			if len(s) > 2 {
				return s[:2]
			}
			return s
		}),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_PriceSortIsStableAndReversible(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ascending and descending sorts are stable mirrors", prop.ForAll(
		func(catalog []domain.Product) bool {
			asc := Apply(catalog, domain.QuerySpec{Sort: domain.SortPriceAsc})
			desc := Apply(catalog, domain.QuerySpec{Sort: domain.SortPriceDesc})

			if len(asc) != len(catalog) || len(desc) != len(catalog) {
				return false
			}

			for i := 1; i < len(asc); i++ {
				if asc[i-1].Price > asc[i].Price {
					t.Logf("FAIL: ascending order broken at %d", i)
					return false
				}
				if asc[i-1].Price == asc[i].Price && indexOf(asc[i-1]) > indexOf(asc[i]) {
					t.Logf("FAIL: ascending sort is not stable at %d", i)
					return false
				}
				if desc[i-1].Price < desc[i].Price {
					t.Logf("FAIL: descending order broken at %d", i)
					return false
				}
				if desc[i-1].Price == desc[i].Price && indexOf(desc[i-1]) > indexOf(desc[i]) {
					t.Logf("FAIL: descending sort is not stable at %d", i)
					return false
				}
			}

			// distinct prices appear in opposite relative order
			for i := range asc {
				for j := i + 1; j < len(asc); j++ {
					if asc[i].Price == asc[j].Price {
						continue
					}
					if position(desc, asc[i]) < position(desc, asc[j]) {
						t.Logf("FAIL: %v and %v keep their order in both sorts", asc[i].ID, asc[j].ID)
						return false
					}
				}
			}
			return true
		},
		genCatalog(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func position(products []domain.Product, target domain.Product) int {
	for i, p := range products {
		if p.ID.Equal(target.ID) {
			return i
		}
	}
	return -1
}

func TestProperty_ApplyNeverMutatesInput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the caller's slice is unchanged after apply", prop.ForAll(
		func(catalog []domain.Product, sort domain.SortOrder) bool {
			before := make([]domain.Product, len(catalog))
			copy(before, catalog)

			_ = Apply(catalog, domain.QuerySpec{Category: "tech", Search: "a", Sort: sort})

			return cmp.Equal(before, catalog)
		},
		genCatalog(),
		gen.OneConstOf(domain.SortNone, domain.SortPriceAsc, domain.SortPriceDesc),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestApplyCategoryScenario(t *testing.T) {
	catalog := []domain.Product{
		{ID: domain.TextID("1"), Title: "Phone", Price: 100, Category: "tech"},
		{ID: domain.TextID("2"), Title: "Shirt", Price: 20, Category: "clothes"},
	}

	got := Apply(catalog, domain.QuerySpec{Category: "tech"})

	want := []domain.Product{{ID: domain.TextID("1"), Title: "Phone", Price: 100, Category: "tech"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyComposesFilterSearchAndSort(t *testing.T) {
	catalog := []domain.Product{
		{ID: domain.TextID("1"), Title: "Red T-Shirt", Price: 25, Category: "clothes"},
		{ID: domain.TextID("2"), Title: "Laptop", Price: 900, Category: "tech"},
		{ID: domain.TextID("3"), Title: "Blue shirt", Price: 15, Category: "Clothes"},
		{ID: domain.TextID("4"), Title: "Shirt Hanger", Price: 3, Category: "home"},
		{ID: domain.TextID("5"), Title: "Green SHIRT", Price: 25, Category: "clothes "},
	}

	got := Apply(catalog, domain.QuerySpec{Category: "CLOTHES", Search: "Shirt", Sort: domain.SortPriceDesc})

	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID.String())
	}
	want := []string{"1", "5", "3"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Apply() ids mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyNoMatchesReturnsEmptySlice(t *testing.T) {
	catalog := []domain.Product{{ID: domain.TextID("1"), Title: "Phone", Category: "tech"}}

	got := Apply(catalog, domain.QuerySpec{Search: "sofa"})
	if got == nil {
		t.Fatal("Apply() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("Apply() returned %d products, want 0", len(got))
	}
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	catalog := []domain.Product{
		{Category: "tech"},
		{Category: "clothes"},
		{Category: "Tech"},
		{Category: ""},
		{Category: "home"},
	}

	want := []string{"tech", "clothes", "home"}
	if diff := cmp.Diff(want, Categories(catalog)); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}
