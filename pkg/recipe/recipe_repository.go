package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/entities"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, page, limit int) ([]*entities.Recipe, int64, error)
		GetAllRecipes(ctx context.Context) ([]entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceMaterials(ctx context.Context, recipeID uuid.UUID, materials []entities.RecipeMaterial) error
		DeleteRecipe(ctx context.Context, id string) error
		CountMaterialReferences(ctx context.Context, recipeID string) (int64, error)
		SaveCostFigures(ctx context.Context, recipe *entities.Recipe) error
		AppendCostHistory(ctx context.Context, entries []entities.CostHistoryEntry) error
		GetCostHistory(ctx context.Context, recipeID string, page, limit int) ([]entities.CostHistoryEntry, int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Materials").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Materials").
		Offset(offset).
		Limit(limit).
		Order("name asc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetAllRecipes loads the full snapshot the costing engine runs against.
func (r *recipeRepository) GetAllRecipes(ctx context.Context) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Materials").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) ReplaceMaterials(ctx context.Context, recipeID uuid.UUID, materials []entities.RecipeMaterial) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).
			Delete(&entities.RecipeMaterial{}).Error; err != nil {
			return err
		}
		if len(materials) == 0 {
			return nil
		}
		return tx.Create(&materials).Error
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).
			Delete(&entities.RecipeMaterial{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

// CountMaterialReferences counts the material lines of other recipes that
// point at this recipe. Deleting while referenced would orphan those lines.
func (r *recipeRepository) CountMaterialReferences(ctx context.Context, recipeID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeMaterial{}).
		Where("kind = ? AND sub_recipe_id = ?", entities.MaterialKindRecipe, recipeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveCostFigures persists only the engine-owned columns.
func (r *recipeRepository) SaveCostFigures(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(map[string]interface{}{
			"fixed_cost_percentage": recipe.FixedCostPercentage,
			"total_cost":            recipe.TotalCost,
			"unit_cost":             recipe.UnitCost,
			"suggested_price":       recipe.SuggestedPrice,
			"last_updated":          recipe.LastUpdated,
		}).Error
}

// AppendCostHistory inserts new ledger rows. Existing rows are never touched.
func (r *recipeRepository) AppendCostHistory(ctx context.Context, entries []entities.CostHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *recipeRepository) GetCostHistory(ctx context.Context, recipeID string, page, limit int) ([]entities.CostHistoryEntry, int64, error) {
	var entries []entities.CostHistoryEntry
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.CostHistoryEntry{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("date desc").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}
