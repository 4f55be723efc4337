package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mytheresa/northwind-console/app/input"
	"github.com/mytheresa/northwind-console/app/logger"
	"github.com/mytheresa/northwind-console/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Input is the raw text entered for each product field.
type Input struct {
	Name            string
	SupplierID      string
	CategoryID      string
	QuantityPerUnit string
	UnitPrice       string
	UnitsInStock    string
	Discontinued    string
}

// UpdateResult reports what an update did. Rejected lists the fields whose
// input could not be parsed; the other fields were still saved.
type UpdateResult struct {
	Product  *models.Product
	Changed  bool
	Rejected models.FieldErrors
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uint, apply func(*models.Product) bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductHandler struct {
	repo ProductProvider
	log  zerolog.Logger
}

func NewProductHandler(r ProductProvider, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		repo: r,
		log:  log.With().Str("handler", "products").Logger(),
	}
}

// ParseFilter maps the display menu choice to a filter: "2" active,
// "3" discontinued, anything else all products.
func ParseFilter(selection string) models.ProductFilter {
	switch strings.TrimSpace(selection) {
	case "2":
		return models.FilterActive
	case "3":
		return models.FilterDiscontinued
	default:
		return models.FilterAll
	}
}

func (h *ProductHandler) HandleList(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	log := h.opLogger("list")

	products, err := h.repo.GetFilteredProducts(ctx, filter)
	if err != nil {
		logger.Failure(log, err).Str("filter", filter.String()).Msg("failed to list products")
		return nil, err
	}

	log.Info().
		Int("count", len(products)).
		Str("filter", filter.String()).
		Msg("displayed products")
	return products, nil
}

func (h *ProductHandler) HandleGet(ctx context.Context, idText string) (*models.Product, error) {
	log := h.opLogger("get")

	id, err := input.ID("product id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid product id")
		return nil, err
	}

	product, err := h.repo.GetByID(ctx, id)
	if err != nil {
		logger.Failure(log, err).Uint("product_id", id).Msg("failed to get product")
		return nil, err
	}

	log.Info().Uint("product_id", id).Msg("displayed product")
	return product, nil
}

// HandleInsert adds a product. Any rejected field aborts the insert.
func (h *ProductHandler) HandleInsert(ctx context.Context, in Input) (uint, error) {
	log := h.opLogger("insert")

	product, err := in.toProduct()
	if err != nil {
		logger.Failure(log, err).Msg("rejected new product")
		return 0, err
	}

	if err := h.repo.CreateProduct(ctx, product); err != nil {
		logger.Failure(log, err).Str("name", product.DisplayName()).Msg("error adding product")
		return 0, err
	}

	log.Info().
		Uint("product_id", product.ID).
		Str("name", product.DisplayName()).
		Msg("product added")
	return product.ID, nil
}

// HandleUpdate applies every non-blank field of in to product idText.
// Fields that fail to parse are reported in the result and skipped; the
// remaining fields are saved.
func (h *ProductHandler) HandleUpdate(ctx context.Context, idText string, in Input) (*UpdateResult, error) {
	log := h.opLogger("update")

	id, err := input.ID("product id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid product id")
		return nil, err
	}

	setters, rejected := in.toSetters()
	for _, fe := range rejected {
		log.Warn().
			Uint("product_id", id).
			Str("field", fe.Field).
			Str("value", fe.Value).
			Msg("skipped invalid field")
	}

	product, err := h.repo.UpdateProduct(ctx, id, func(p *models.Product) bool {
		for _, set := range setters {
			set(p)
		}
		return len(setters) > 0
	})
	if err != nil {
		logger.Failure(log, err).Uint("product_id", id).Msg("error updating product")
		return nil, err
	}

	result := &UpdateResult{
		Product:  product,
		Changed:  len(setters) > 0,
		Rejected: rejected,
	}
	log.Info().
		Uint("product_id", id).
		Int("fields", len(setters)).
		Int("rejected", len(rejected)).
		Msg("product updated")
	return result, nil
}

func (h *ProductHandler) HandleDelete(ctx context.Context, idText string) error {
	log := h.opLogger("delete")

	id, err := input.ID("product id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid product id")
		return err
	}

	if err := h.repo.DeleteProduct(ctx, id); err != nil {
		logger.Failure(log, err).Uint("product_id", id).Msg("product not deleted")
		return err
	}

	log.Info().Uint("product_id", id).Msg("product deleted")
	return nil
}

func (h *ProductHandler) opLogger(action string) zerolog.Logger {
	return h.log.With().
		Str("action", action).
		Str("op_id", uuid.NewString()).
		Logger()
}

// toProduct parses every field. All rejected fields are reported together.
func (in Input) toProduct() (*models.Product, error) {
	var (
		p    models.Product
		errs models.FieldErrors
		err  error
	)
	collect := func(e error) {
		if fe, ok := e.(*models.ValidationError); ok {
			errs = append(errs, fe)
		}
	}

	if p.Name, err = input.OptionalText("product name", in.Name, models.MaxProductNameLen); err != nil {
		collect(err)
	}
	if p.SupplierID, err = input.OptionalID("supplier id", in.SupplierID); err != nil {
		collect(err)
	}
	if p.CategoryID, err = input.OptionalID("category id", in.CategoryID); err != nil {
		collect(err)
	}
	if p.QuantityPerUnit, err = input.OptionalText("quantity per unit", in.QuantityPerUnit, models.MaxQuantityPerUnitLen); err != nil {
		collect(err)
	}
	if p.UnitPrice, err = input.OptionalPrice("unit price", in.UnitPrice); err != nil {
		collect(err)
	}
	if p.UnitsInStock, err = input.OptionalInt16("units in stock", in.UnitsInStock); err != nil {
		collect(err)
	}
	p.Discontinued = input.YesNo(in.Discontinued)

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// toSetters turns each non-blank, valid field into a setter.
func (in Input) toSetters() ([]func(*models.Product), models.FieldErrors) {
	var (
		setters []func(*models.Product)
		errs    models.FieldErrors
	)
	reject := func(err error) {
		if fe, ok := err.(*models.ValidationError); ok {
			errs = append(errs, fe)
		}
	}

	if !input.Blank(in.Name) {
		if v, err := input.OptionalText("product name", in.Name, models.MaxProductNameLen); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.Name = v })
		}
	}
	if !input.Blank(in.SupplierID) {
		if v, err := input.OptionalID("supplier id", in.SupplierID); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.SupplierID = v })
		}
	}
	if !input.Blank(in.CategoryID) {
		if v, err := input.OptionalID("category id", in.CategoryID); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.CategoryID = v })
		}
	}
	if !input.Blank(in.QuantityPerUnit) {
		if v, err := input.OptionalText("quantity per unit", in.QuantityPerUnit, models.MaxQuantityPerUnitLen); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.QuantityPerUnit = v })
		}
	}
	if !input.Blank(in.UnitPrice) {
		if v, err := input.OptionalPrice("unit price", in.UnitPrice); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.UnitPrice = v })
		}
	}
	if !input.Blank(in.UnitsInStock) {
		if v, err := input.OptionalInt16("units in stock", in.UnitsInStock); err != nil {
			reject(err)
		} else {
			setters = append(setters, func(p *models.Product) { p.UnitsInStock = v })
		}
	}
	if !input.Blank(in.Discontinued) {
		v := input.YesNo(in.Discontinued)
		setters = append(setters, func(p *models.Product) { p.Discontinued = v })
	}

	return setters, errs
}

// Price formats an optional price for display.
func Price(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
