package products

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mytheresa/northwind-console/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repo ---

type MockProductRepo struct {
	Products map[uint]*models.Product
	Err      error
	nextID   uint

	// Fields to capture call arguments
	lastFilter  *models.ProductFilter
	lastCreated *models.Product
	createCalls int
	updateCalls int
	saved       bool
	lastDeleted uint
}

func newMockRepo(products ...models.Product) *MockProductRepo {
	m := &MockProductRepo{Products: map[uint]*models.Product{}}
	for i := range products {
		p := products[i]
		m.Products[p.ID] = &p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *MockProductRepo) GetFilteredProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.lastFilter = &filter
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Product
	for id := uint(1); id <= m.nextID; id++ {
		p, ok := m.Products[id]
		if !ok {
			continue
		}
		if filter == models.FilterActive && p.Discontinued || filter == models.FilterDiscontinued && !p.Discontinued {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrProductNotFound, id)
	}
	product := *p
	return &product, nil
}

func (m *MockProductRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	m.createCalls++
	m.lastCreated = p
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.Products[p.ID] = &stored
	return nil
}

func (m *MockProductRepo) UpdateProduct(ctx context.Context, id uint, apply func(*models.Product) bool) (*models.Product, error) {
	m.updateCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrProductNotFound, id)
	}
	working := *p
	if apply(&working) {
		m.saved = true
		m.Products[id] = &working
	}
	result := working
	return &result, nil
}

func (m *MockProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	m.lastDeleted = id
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Products[id]; !ok {
		return fmt.Errorf("%w: %d", models.ErrProductNotFound, id)
	}
	delete(m.Products, id)
	return nil
}

// --- Helpers ---

func ptr[T any](v T) *T {
	return &v
}

func newTestProduct(id uint, name string, discontinued bool) models.Product {
	return models.Product{
		ID:           id,
		Name:         ptr(name),
		CategoryID:   ptr(uint(1)),
		UnitPrice:    decimal.NewNullDecimal(decimal.NewFromInt(18)),
		UnitsInStock: ptr(int16(39)),
		Discontinued: discontinued,
	}
}

func newHandler(repo *MockProductRepo) *ProductHandler {
	return NewProductHandler(repo, zerolog.Nop())
}

// --- Tests ---

func TestParseFilter(t *testing.T) {
	assert.Equal(t, models.FilterAll, ParseFilter("1"))
	assert.Equal(t, models.FilterActive, ParseFilter("2"))
	assert.Equal(t, models.FilterDiscontinued, ParseFilter(" 3 "))
	assert.Equal(t, models.FilterAll, ParseFilter(""))
	assert.Equal(t, models.FilterAll, ParseFilter("9"))
}

func TestHandleList(t *testing.T) {
	allMockProducts := []models.Product{
		newTestProduct(1, "Chai", false),
		newTestProduct(2, "Chang", true),
		newTestProduct(3, "Aniseed Syrup", false),
	}

	testCases := []struct {
		name          string
		filter        models.ProductFilter
		repoErr       error
		expectedIDs   []uint
		expectedError error
	}{
		{name: "All", filter: models.FilterAll, expectedIDs: []uint{1, 2, 3}},
		{name: "Active", filter: models.FilterActive, expectedIDs: []uint{1, 3}},
		{name: "Discontinued", filter: models.FilterDiscontinued, expectedIDs: []uint{2}},
		{
			name:          "Repository error",
			filter:        models.FilterAll,
			repoErr:       fmt.Errorf("%w: %w", models.ErrStoreFailure, errors.New("db down")),
			expectedError: models.ErrStoreFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := newMockRepo(allMockProducts...)
			repo.Err = tc.repoErr
			handler := newHandler(repo)

			// Act
			products, err := handler.HandleList(context.Background(), tc.filter)

			// Assert
			require.NotNil(t, repo.lastFilter)
			assert.Equal(t, tc.filter, *repo.lastFilter)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, products)
				return
			}
			require.NoError(t, err)
			ids := make([]uint, len(products))
			for i, p := range products {
				ids[i] = p.ID
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func TestHandleGet(t *testing.T) {
	repo := newMockRepo(newTestProduct(1, "Chai", false))
	handler := newHandler(repo)
	ctx := context.Background()

	product, err := handler.HandleGet(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Chai", product.DisplayName())

	_, err = handler.HandleGet(ctx, "2")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, err = handler.HandleGet(ctx, "one")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestHandleInsert(t *testing.T) {
	testCases := []struct {
		name          string
		input         Input
		repoErr       error
		expectedError error
		checkRepoCall func(t *testing.T, repo *MockProductRepo)
		checkError    func(t *testing.T, err error)
	}{
		{
			name: "Success with every field",
			input: Input{
				Name:            "Chai",
				SupplierID:      "1",
				CategoryID:      "1",
				QuantityPerUnit: "10 boxes x 20 bags",
				UnitPrice:       "18.00",
				UnitsInStock:    "39",
				Discontinued:    "n",
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				require.NotNil(t, repo.lastCreated)
				p := repo.lastCreated
				assert.Equal(t, "Chai", *p.Name)
				assert.Equal(t, uint(1), *p.SupplierID)
				assert.Equal(t, uint(1), *p.CategoryID)
				assert.Equal(t, "10 boxes x 20 bags", *p.QuantityPerUnit)
				assert.True(t, p.UnitPrice.Decimal.Equal(decimal.NewFromInt(18)))
				assert.Equal(t, int16(39), *p.UnitsInStock)
				assert.False(t, p.Discontinued)
			},
		},
		{
			name:  "Blank optional fields are stored as null",
			input: Input{Name: "Chang", Discontinued: "Y"},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				p := repo.lastCreated
				assert.Nil(t, p.SupplierID)
				assert.Nil(t, p.CategoryID)
				assert.Nil(t, p.QuantityPerUnit)
				assert.False(t, p.UnitPrice.Valid)
				assert.Nil(t, p.UnitsInStock)
				assert.True(t, p.Discontinued)
			},
		},
		{
			name:          "Malformed price aborts the insert",
			input:         Input{Name: "Chai", UnitPrice: "cheap"},
			expectedError: models.ErrValidation,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 0, repo.createCalls, "nothing may be written after a parse failure")
			},
		},
		{
			name:          "Out of range price aborts the insert",
			input:         Input{Name: "Chai", UnitPrice: "1e400"},
			expectedError: models.ErrValidation,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 0, repo.createCalls)
			},
		},
		{
			name:          "Price with three decimal places aborts the insert",
			input:         Input{Name: "Chai", UnitPrice: "18.255"},
			expectedError: models.ErrValidation,
			checkError: func(t *testing.T, err error) {
				var fields models.FieldErrors
				require.ErrorAs(t, err, &fields)
				require.Len(t, fields, 1)
				assert.Equal(t, "unit price", fields[0].Field)
			},
		},
		{
			name:          "Every rejected field is reported",
			input:         Input{SupplierID: "x", UnitsInStock: "lots", UnitPrice: "1.5"},
			expectedError: models.ErrValidation,
			checkError: func(t *testing.T, err error) {
				var fields models.FieldErrors
				require.ErrorAs(t, err, &fields)
				require.Len(t, fields, 2)
				assert.Equal(t, "supplier id", fields[0].Field)
				assert.Equal(t, "units in stock", fields[1].Field)
			},
		},
		{
			name:          "Name too long",
			input:         Input{Name: "A product name that is far longer than forty characters"},
			expectedError: models.ErrValidation,
		},
		{
			name:          "Repository error",
			input:         Input{Name: "Chai"},
			repoErr:       fmt.Errorf("%w: %w", models.ErrStoreFailure, errors.New("insert failed")),
			expectedError: models.ErrStoreFailure,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 1, repo.createCalls)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := newMockRepo()
			repo.Err = tc.repoErr
			handler := newHandler(repo)

			// Act
			id, err := handler.HandleInsert(context.Background(), tc.input)

			// Assert
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Zero(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(1), id)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
			if tc.checkError != nil {
				tc.checkError(t, err)
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	testCases := []struct {
		name          string
		idText        string
		input         Input
		expectedError error
		check         func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo)
	}{
		{
			name:   "All blank input is a no-op",
			idText: "1",
			input:  Input{},
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.False(t, result.Changed)
				assert.Empty(t, result.Rejected)
				assert.False(t, repo.saved)
				assert.Equal(t, before, *repo.Products[1])
			},
		},
		{
			name:   "Only provided fields change",
			idText: "1",
			input:  Input{UnitsInStock: "17", Discontinued: "y"},
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.True(t, result.Changed)
				after := repo.Products[1]
				assert.Equal(t, int16(17), *after.UnitsInStock)
				assert.True(t, after.Discontinued)
				assert.Equal(t, *before.Name, *after.Name)
				assert.Equal(t, *before.CategoryID, *after.CategoryID)
				assert.True(t, before.UnitPrice.Decimal.Equal(after.UnitPrice.Decimal))
			},
		},
		{
			name:   "Malformed price is skipped while other fields apply",
			idText: "1",
			input:  Input{Name: "Chai Tea", UnitPrice: "free", UnitsInStock: "x"},
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.True(t, result.Changed)
				require.Len(t, result.Rejected, 2)
				assert.Equal(t, "unit price", result.Rejected[0].Field)
				assert.Equal(t, "units in stock", result.Rejected[1].Field)

				after := repo.Products[1]
				assert.Equal(t, "Chai Tea", *after.Name)
				assert.True(t, before.UnitPrice.Decimal.Equal(after.UnitPrice.Decimal), "rejected price keeps the stored value")
				assert.Equal(t, *before.UnitsInStock, *after.UnitsInStock)
			},
		},
		{
			name:   "Out of range price is skipped while other fields apply",
			idText: "1",
			input:  Input{UnitPrice: "123456789012.5", UnitsInStock: "5"},
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.True(t, result.Changed)
				require.Len(t, result.Rejected, 1)
				assert.Equal(t, "unit price", result.Rejected[0].Field)

				after := repo.Products[1]
				assert.Equal(t, int16(5), *after.UnitsInStock)
				assert.True(t, before.UnitPrice.Decimal.Equal(after.UnitPrice.Decimal))
			},
		},
		{
			name:   "Discontinued answer other than y clears the flag",
			idText: "2",
			input:  Input{Discontinued: "n"},
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.True(t, before.Discontinued)
				assert.False(t, repo.Products[2].Discontinued)
			},
		},
		{
			name:          "Missing product",
			idText:        "9",
			input:         Input{Name: "Ghost"},
			expectedError: models.ErrNotFound,
		},
		{
			name:          "Invalid id",
			idText:        "abc",
			input:         Input{Name: "Ghost"},
			expectedError: models.ErrValidation,
			check: func(t *testing.T, before models.Product, result *UpdateResult, repo *MockProductRepo) {
				assert.Equal(t, 0, repo.updateCalls)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := newMockRepo(newTestProduct(1, "Chai", false), newTestProduct(2, "Chang", true))
			before := *repo.Products[1]
			if tc.idText == "2" {
				before = *repo.Products[2]
			}
			handler := newHandler(repo)

			// Act
			result, err := handler.HandleUpdate(context.Background(), tc.idText, tc.input)

			// Assert
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
			if tc.check != nil {
				tc.check(t, before, result, repo)
			}
		})
	}
}

func TestHandleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes", func(t *testing.T) {
		repo := newMockRepo(newTestProduct(1, "Chai", false))
		require.NoError(t, newHandler(repo).HandleDelete(ctx, "1"))
		assert.Equal(t, uint(1), repo.lastDeleted)
		assert.Empty(t, repo.Products)
	})

	t.Run("Refused by order lines", func(t *testing.T) {
		repo := newMockRepo(newTestProduct(1, "Chai", false))
		repo.Err = &models.DependentsError{Entity: "product", ID: 1, Dependent: "order lines", Count: 3}

		err := newHandler(repo).HandleDelete(ctx, "1")
		assert.ErrorIs(t, err, models.ErrHasDependents)
		assert.Len(t, repo.Products, 1)
	})

	t.Run("Invalid id never reaches the repository", func(t *testing.T) {
		repo := newMockRepo()
		err := newHandler(repo).HandleDelete(ctx, "")
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Zero(t, repo.lastDeleted)
	})
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "-", Price(decimal.NullDecimal{}))
	assert.Equal(t, "18.00", Price(decimal.NewNullDecimal(decimal.NewFromInt(18))))
	assert.Equal(t, "21.35", Price(decimal.NewNullDecimal(decimal.RequireFromString("21.35"))))
}
