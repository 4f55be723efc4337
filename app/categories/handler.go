package categories

import (
	"context"

	"github.com/google/uuid"
	"github.com/mytheresa/northwind-console/app/input"
	"github.com/mytheresa/northwind-console/app/logger"
	"github.com/mytheresa/northwind-console/models"
	"github.com/rs/zerolog"
)

// Input is the raw text entered for each category field.
type Input struct {
	Name        string
	Description string
}

type UpdateResult struct {
	Category *models.Category
	Changed  bool
	Rejected models.FieldErrors
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoriesWithActiveProducts(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uint, apply func(*models.Category) bool) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo CategoryProvider
	log  zerolog.Logger
}

func NewCategoryHandler(r CategoryProvider, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo: r,
		log:  log.With().Str("handler", "categories").Logger(),
	}
}

func (h *CategoryHandler) HandleGetAll(ctx context.Context) ([]models.Category, error) {
	log := h.opLogger("list")

	categories, err := h.repo.GetAllCategories(ctx)
	if err != nil {
		logger.Failure(log, err).Msg("failed to fetch categories")
		return nil, err
	}

	log.Info().Int("count", len(categories)).Msg("displayed categories")
	return categories, nil
}

// HandleGetWithActiveProducts lists categories with their products that are
// still sold. Categories without any such product are left out.
func (h *CategoryHandler) HandleGetWithActiveProducts(ctx context.Context) ([]models.Category, error) {
	log := h.opLogger("list_active")

	categories, err := h.repo.GetCategoriesWithActiveProducts(ctx)
	if err != nil {
		logger.Failure(log, err).Msg("failed to fetch categories with active products")
		return nil, err
	}

	log.Info().Int("count", len(categories)).Msg("displayed categories with active products")
	return categories, nil
}

func (h *CategoryHandler) HandleGet(ctx context.Context, idText string) (*models.Category, error) {
	log := h.opLogger("get")

	id, err := input.ID("category id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid category id")
		return nil, err
	}

	category, err := h.repo.GetByID(ctx, id)
	if err != nil {
		logger.Failure(log, err).Uint("category_id", id).Msg("failed to get category")
		return nil, err
	}

	log.Info().Uint("category_id", id).Msg("displayed category")
	return category, nil
}

func (h *CategoryHandler) HandleCreate(ctx context.Context, in Input) (uint, error) {
	log := h.opLogger("insert")

	if input.Blank(in.Name) {
		err := models.NewValidationError("category name", "", "is required")
		logger.Failure(log, err).Msg("missing category name")
		return 0, err
	}

	name, err := input.OptionalText("category name", in.Name, models.MaxCategoryNameLen)
	if err != nil {
		logger.Failure(log, err).Msg("rejected new category")
		return 0, err
	}

	category := &models.Category{
		Name:        *name,
		Description: input.Text(in.Description),
	}

	if err := h.repo.CreateCategory(ctx, category); err != nil {
		logger.Failure(log, err).Str("name", category.Name).Msg("failed to create category")
		return 0, err
	}

	log.Info().
		Uint("category_id", category.ID).
		Str("name", category.Name).
		Msg("category added")
	return category.ID, nil
}

// HandleUpdate applies the non-blank fields of in to category idText.
func (h *CategoryHandler) HandleUpdate(ctx context.Context, idText string, in Input) (*UpdateResult, error) {
	log := h.opLogger("update")

	id, err := input.ID("category id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid category id")
		return nil, err
	}

	var (
		setters  []func(*models.Category)
		rejected models.FieldErrors
	)
	if !input.Blank(in.Name) {
		if name, err := input.OptionalText("category name", in.Name, models.MaxCategoryNameLen); err != nil {
			rejected = append(rejected, err.(*models.ValidationError))
			log.Warn().Uint("category_id", id).Str("field", "category name").Msg("skipped invalid field")
		} else {
			setters = append(setters, func(c *models.Category) { c.Name = *name })
		}
	}
	if !input.Blank(in.Description) {
		description := input.Text(in.Description)
		setters = append(setters, func(c *models.Category) { c.Description = description })
	}

	category, err := h.repo.UpdateCategory(ctx, id, func(c *models.Category) bool {
		for _, set := range setters {
			set(c)
		}
		return len(setters) > 0
	})
	if err != nil {
		logger.Failure(log, err).Uint("category_id", id).Msg("failed to update category")
		return nil, err
	}

	log.Info().
		Uint("category_id", id).
		Int("fields", len(setters)).
		Msg("category updated")
	return &UpdateResult{Category: category, Changed: len(setters) > 0, Rejected: rejected}, nil
}

func (h *CategoryHandler) HandleDelete(ctx context.Context, idText string) error {
	log := h.opLogger("delete")

	id, err := input.ID("category id", idText)
	if err != nil {
		logger.Failure(log, err).Msg("invalid category id")
		return err
	}

	if err := h.repo.DeleteCategory(ctx, id); err != nil {
		logger.Failure(log, err).Uint("category_id", id).Msg("category not deleted")
		return err
	}

	log.Info().Uint("category_id", id).Msg("category deleted")
	return nil
}

func (h *CategoryHandler) opLogger(action string) zerolog.Logger {
	return h.log.With().
		Str("action", action).
		Str("op_id", uuid.NewString()).
		Logger()
}
