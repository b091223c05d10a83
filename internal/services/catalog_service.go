package services

import (
	"fmt"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"gorm.io/gorm"
)

// CatalogService serves the reference tables and chef-proposed categories.
type CatalogService interface {
	GetAppliances() ([]models.Appliance, error)
	GetAllergens() ([]models.Allergen, error)
	GetZipcodes() ([]models.Zipcode, error)
	// GetCategories returns approved categories plus the pending ones
	// proposed by userID (0 for none).
	GetCategories(userID uint) ([]models.Category, error)
	// CreateCategory proposes a category; it starts pending.
	CreateCategory(name string, userID uint) (*models.Category, error)
	// DeleteCategory removes a pending category its creator proposed.
	DeleteCategory(id, userID uint) error
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) GetAppliances() ([]models.Appliance, error) {
	items := []models.Appliance{}
	if err := s.db.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) GetAllergens() ([]models.Allergen, error) {
	items := []models.Allergen{}
	if err := s.db.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) GetZipcodes() ([]models.Zipcode, error) {
	items := []models.Zipcode{}
	if err := s.db.Order("zip").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) GetCategories(userID uint) ([]models.Category, error) {
	items := []models.Category{}
	err := s.db.Where("status = ? OR (status = ? AND created_by = ?)", models.CategoryApproved, models.CategoryPending, userID).
		Order("id").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) CreateCategory(name string, userID uint) (*models.Category, error) {
	name = strings.TrimSpace(name)
	var count int64
	if err := s.db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}
	category := &models.Category{Name: name, Status: models.CategoryPending, CreatedBy: userID}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id, userID uint) error {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return notFound(err)
	}
	if category.Status != models.CategoryPending || category.CreatedBy != userID {
		return ErrForbidden
	}
	return s.db.Delete(&category).Error
}
