package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

type mockProductRepo struct {
	products map[uuid.UUID]*Product
	reviews  *mockReviewRepo
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *Product) error {
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	if m.reviews != nil {
		for rid, r := range m.reviews.reviews {
			if r.ProductID == id {
				delete(m.reviews.reviews, rid)
			}
		}
	}
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *mockProductRepo) List(_ context.Context, filter ListFilter, page pagination.Params) ([]Product, int64, error) {
	var matched []Product
	for _, p := range m.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		matched = append(matched, *p)
	}

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockProductRepo) UpdateRating(_ context.Context, id uuid.UUID, summary RatingSummary) error {
	if p, ok := m.products[id]; ok {
		p.AverageRating = summary.AverageRating
		p.NumOfReviews = summary.NumOfReviews
	}
	return nil
}

type mockCategoryRepo struct {
	categories map[uuid.UUID]*Category
	products   *mockProductRepo
}

func newMockCategoryRepo(products *mockProductRepo) *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*Category), products: products}
}

func (m *mockCategoryRepo) add(name string) *Category {
	c := &Category{ID: uuid.New(), Name: name}
	m.categories[c.ID] = c
	return c
}

func (m *mockCategoryRepo) Create(_ context.Context, c *Category) error {
	c.ID = uuid.New()
	clone := *c
	m.categories[c.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *Category) error {
	clone := *c
	m.categories[c.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *mockCategoryRepo) FindByName(_ context.Context, name string) (*Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]Category, error) {
	var out []Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	if m.products != nil {
		for _, p := range m.products.products {
			if p.CategoryID == id {
				n++
			}
		}
	}
	return n, nil
}

type mockReviewRepo struct {
	reviews map[uuid.UUID]*Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[uuid.UUID]*Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, r *Review) error {
	r.ID = uuid.New()
	clone := *r
	m.reviews[r.ID] = &clone
	return nil
}

func (m *mockReviewRepo) Update(_ context.Context, r *Review) error {
	clone := *r
	m.reviews[r.ID] = &clone
	return nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (m *mockReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*Review, error) {
	for _, r := range m.reviews {
		if r.UserID == userID && r.ProductID == productID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockReviewRepo) ListWithProduct(_ context.Context) ([]ReviewWithProduct, error) {
	var out []ReviewWithProduct
	for _, r := range m.reviews {
		out = append(out, ReviewWithProduct{Review: *r})
	}
	return out, nil
}

func (m *mockReviewRepo) Summarize(_ context.Context, productID uuid.UUID) (RatingSummary, error) {
	var sum, n int
	for _, r := range m.reviews {
		if r.ProductID == productID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return RatingSummary{}, nil
	}
	return RatingSummary{AverageRating: float64(sum) / float64(n), NumOfReviews: n}, nil
}
