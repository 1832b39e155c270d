package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// DefaultCategories are created on startup when missing.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Housing",
	"Utilities",
	"Health",
	"Entertainment",
	"Shopping",
	"Other",
}

// categoryService handles category lookups.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// FindCategoryByID retrieves a category by ID.
func (s *categoryService) FindCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// FindCategoryByName retrieves a category by its exact (trimmed) name.
func (s *categoryService) FindCategoryByName(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrCategoryNotFound
	}

	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// FindAllCategories returns every category ordered by name.
func (s *categoryService) FindAllCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// EnsureDefaultCategories inserts any missing default category.
func (s *categoryService) EnsureDefaultCategories() error {
	for _, name := range DefaultCategories {
		category := models.Category{Name: name}
		if err := s.db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
