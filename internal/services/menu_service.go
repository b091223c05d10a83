package services

import (
	"github.com/franciscosanchezn/taist-api/internal/models"
	"gorm.io/gorm"
)

// MenuService provides methods to interact with chefs' menu items
type MenuService interface {
	// GetMenusByChef lists a chef's menu items with their customizations
	GetMenusByChef(chefID uint) ([]models.Menu, error)
	// GetMenuByID retrieves a menu item by its ID
	GetMenuByID(id uint) (*models.Menu, error)
	CountMenus(chefID uint) (int64, error)
	CreateMenu(menu *models.Menu) error
	// UpdateMenu saves menu and replaces its customizations
	UpdateMenu(menu *models.Menu) error
	DeleteMenu(id uint) error
}

type menuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) MenuService {
	return &menuService{db: db}
}

func (s *menuService) GetMenusByChef(chefID uint) ([]models.Menu, error) {
	menus := []models.Menu{}
	if err := s.db.Preload("Customizations").Where("user_id = ?", chefID).Order("id").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (s *menuService) GetMenuByID(id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.Preload("Customizations").First(&menu, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &menu, nil
}

func (s *menuService) CountMenus(chefID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Menu{}).Where("user_id = ?", chefID).Count(&count).Error
	return count, err
}

func (s *menuService) CreateMenu(menu *models.Menu) error {
	return s.db.Create(menu).Error
}

func (s *menuService) UpdateMenu(menu *models.Menu) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuCustomization{}).Error; err != nil {
			return err
		}
		customizations := menu.Customizations
		menu.Customizations = nil
		if err := tx.Save(menu).Error; err != nil {
			return err
		}
		for i := range customizations {
			customizations[i].ID = 0
			customizations[i].MenuID = menu.ID
		}
		if len(customizations) > 0 {
			if err := tx.Create(&customizations).Error; err != nil {
				return err
			}
		}
		if customizations == nil {
			customizations = []models.MenuCustomization{}
		}
		menu.Customizations = customizations
		return nil
	})
}

func (s *menuService) DeleteMenu(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).Delete(&models.MenuCustomization{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Menu{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
