// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/catalog"
	"github.com/cartly/cartly/internal/platform/apperr"
)

// # In-Memory Fakes

type memoryProductRepository struct {
	products  map[string]*catalog.Product
	listCalls int
}

func newMemoryProductRepository() *memoryProductRepository {
	return &memoryProductRepository{products: make(map[string]*catalog.Product)}
}

func (repository *memoryProductRepository) List(_ context.Context) ([]catalog.Product, error) {
	result := []catalog.Product{}
	for _, product := range repository.products {
		result = append(result, *product)
	}
	return result, nil
}

func (repository *memoryProductRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	if product, ok := repository.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, apperr.NotFound("Product not found")
}

func (repository *memoryProductRepository) FindFeatured(_ context.Context) ([]catalog.Product, error) {
	repository.listCalls++
	result := []catalog.Product{}
	for _, product := range repository.products {
		if product.IsFeatured {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (repository *memoryProductRepository) FindByCategory(_ context.Context, category catalog.Category) ([]catalog.Product, error) {
	result := []catalog.Product{}
	for _, product := range repository.products {
		if product.Category == category {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (repository *memoryProductRepository) Random(_ context.Context, count int) ([]catalog.Product, error) {
	result := []catalog.Product{}
	for _, product := range repository.products {
		if len(result) == count {
			break
		}
		result = append(result, *product)
	}
	return result, nil
}

func (repository *memoryProductRepository) Create(_ context.Context, product *catalog.Product) error {
	repository.products[product.ID] = product
	return nil
}

func (repository *memoryProductRepository) SetFeatured(_ context.Context, id string, featured bool) (*catalog.Product, error) {
	product, ok := repository.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	product.IsFeatured = featured
	copied := *product
	return &copied, nil
}

func (repository *memoryProductRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.products[id]; !ok {
		return apperr.NotFound("Product not found")
	}
	delete(repository.products, id)
	return nil
}

type memoryFeaturedCache struct {
	snapshot    []catalog.Product
	populated   bool
	invalidated int
}

func (cache *memoryFeaturedCache) Get(_ context.Context) ([]catalog.Product, error) {
	if !cache.populated {
		return nil, apperr.NotFound("Featured products not cached")
	}
	return cache.snapshot, nil
}

func (cache *memoryFeaturedCache) Set(_ context.Context, products []catalog.Product, _ time.Duration) error {
	cache.snapshot = products
	cache.populated = true
	return nil
}

func (cache *memoryFeaturedCache) Invalidate(_ context.Context) error {
	cache.snapshot = nil
	cache.populated = false
	cache.invalidated++
	return nil
}

// # Tests

func newTestService() (*catalog.Service, *memoryProductRepository, *memoryFeaturedCache) {
	repo := newMemoryProductRepository()
	cache := &memoryFeaturedCache{}
	return catalog.NewService(repo, cache), repo, cache
}

func TestService_Create(t *testing.T) {
	service, repo, _ := newTestService()

	product, err := service.Create(context.Background(), catalog.CreateInput{
		Name:       "Café Brûlée Maker",
		PriceCents: 4999,
		Category:   catalog.CategoryElectronics,
		Stock:      -5,
		Image:      "https://img.cartly.sh/cafe.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "cafe-brulee-maker", product.Slug)
	assert.Equal(t, int64(4999), product.PriceCents)

	// Negative stock is clamped, never rejected
	assert.Equal(t, 0, product.Stock)
	assert.Contains(t, repo.products, product.ID)
}

func TestService_Featured_ReadThrough(t *testing.T) {
	service, repo, cache := newTestService()

	created, err := service.Create(context.Background(), catalog.CreateInput{
		Name:       "Linen Shirt",
		PriceCents: 2999,
		Category:   catalog.CategoryFashion,
		Stock:      10,
		Image:      "https://img.cartly.sh/shirt.png",
	})
	require.NoError(t, err)

	_, err = repo.SetFeatured(context.Background(), created.ID, true)
	require.NoError(t, err)

	// First read misses the cache and populates it
	products, err := service.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.True(t, cache.populated)

	// Second read is served from the cache
	products, err = service.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestService_ToggleFeatured_InvalidatesCache(t *testing.T) {
	service, _, cache := newTestService()

	product, err := service.Create(context.Background(), catalog.CreateInput{
		Name:       "Go in Practice",
		PriceCents: 3599,
		Category:   catalog.CategoryBooks,
		Stock:      3,
		Image:      "https://img.cartly.sh/book.png",
	})
	require.NoError(t, err)

	// Warm the cache, then toggle
	_, err = service.Featured(context.Background())
	require.NoError(t, err)

	updated, err := service.ToggleFeatured(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, 1, cache.invalidated)

	// Toggling again flips it back
	updated, err = service.ToggleFeatured(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsFeatured)
}

func TestService_ToggleFeatured_UnknownProduct(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.ToggleFeatured(context.Background(), "0199e8f0-0000-7000-8000-000000000000")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_Delete_InvalidatesCache(t *testing.T) {
	service, repo, cache := newTestService()

	product, err := service.Create(context.Background(), catalog.CreateInput{
		Name:       "Desk Lamp",
		PriceCents: 1999,
		Category:   catalog.CategoryElectronics,
		Stock:      7,
		Image:      "https://img.cartly.sh/lamp.png",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), product.ID))
	assert.NotContains(t, repo.products, product.ID)
	assert.Equal(t, 1, cache.invalidated)
}

func TestService_Recommendations_ClampsCount(t *testing.T) {
	service, _, _ := newTestService()

	for _, name := range []string{"Desk Lamp", "Wool Scarf", "Linen Shirt", "Go in Practice"} {
		_, err := service.Create(context.Background(), catalog.CreateInput{
			Name:       name,
			PriceCents: 1999,
			Category:   catalog.CategoryElectronics,
			Stock:      5,
			Image:      "https://img.cartly.sh/item.png",
		})
		require.NoError(t, err)
	}

	// Zero and negative counts fall back to the default sample size
	products, err := service.Recommendations(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, products, catalog.RecommendationCount)

	products, err = service.Recommendations(context.Background(), -3)
	require.NoError(t, err)
	assert.Len(t, products, catalog.RecommendationCount)

	// An explicit count within bounds is honored
	products, err = service.Recommendations(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestService_ByCategory(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Create(context.Background(), catalog.CreateInput{
		Name:       "Wool Scarf",
		PriceCents: 1499,
		Category:   catalog.CategoryFashion,
		Stock:      20,
		Image:      "https://img.cartly.sh/scarf.png",
	})
	require.NoError(t, err)

	fashion, err := service.ByCategory(context.Background(), catalog.CategoryFashion)
	require.NoError(t, err)
	assert.Len(t, fashion, 1)

	books, err := service.ByCategory(context.Background(), catalog.CategoryBooks)
	require.NoError(t, err)
	assert.Empty(t, books)
}
