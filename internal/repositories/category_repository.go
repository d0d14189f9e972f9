package repositories

import (
	"errors"
	"fmt"
	"time"

	"finance-analytics/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNameTaken     = errors.New("category name already exists")
	ErrParentCategoryMissing = errors.New("parent category not found")
)

// categoryRepository implements CategoryRepositoryInterface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

// Save creates or updates a category
func (r *categoryRepository) Save(category *models.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	category := &models.Category{ID: id}
	if err := r.db.First(category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetByName retrieves an active category by its unique name. Deactivated
// categories are invisible here, same as for the matcher.
func (r *categoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ? AND is_active = ?", name, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &category, nil
}

// GetAll retrieves all categories, active or not
func (r *categoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// GetAllActive retrieves active categories in stable creation order. The
// keyword matcher walks this list front to back, so the order decides which
// category wins when several match.
func (r *categoryRepository) GetAllActive() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get active categories: %w", err)
	}
	return categories, nil
}

// GetMainCategories retrieves active categories without a parent
func (r *categoryRepository) GetMainCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ? AND parent_category_id IS NULL", true).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get main categories: %w", err)
	}
	return categories, nil
}

// GetSubCategories retrieves active children of a parent category
func (r *categoryRepository) GetSubCategories(parentID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ? AND parent_category_id = ?", true, parentID).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}
	return categories, nil
}

// GetByExpenseFlag retrieves active categories filtered by expense/income flag
func (r *categoryRepository) GetByExpenseFlag(isExpense bool) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ? AND is_expense = ?", true, isExpense).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by expense flag: %w", err)
	}
	return categories, nil
}

// GetActiveColors retrieves the distinct colors in use by active categories
func (r *categoryRepository) GetActiveColors() ([]string, error) {
	var colors []string
	if err := r.db.Model(&models.Category{}).
		Where("is_active = ?", true).
		Distinct().
		Order("color_hex ASC").
		Pluck("color_hex", &colors).Error; err != nil {
		return nil, fmt.Errorf("failed to get active colors: %w", err)
	}
	return colors, nil
}

// Deactivate soft-deletes a category by clearing its active flag
func (r *categoryRepository) Deactivate(id uuid.UUID) error {
	result := r.db.Model(&models.Category{ID: id}).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to deactivate category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
