package database

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed/reference.yaml
var defaultSeed []byte

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("Database schema migrated")
	return nil
}

type namedRow struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedData is the reference data loaded into empty tables.
type SeedData struct {
	Categories []namedRow `yaml:"categories"`
	Allergens  []namedRow `yaml:"allergens"`
	Appliances []namedRow `yaml:"appliances"`
	Zipcodes   []string   `yaml:"zipcodes"`
}

// LoadSeed reads path, or the embedded defaults when path is empty.
func LoadSeed(path string) (*SeedData, error) {
	raw := defaultSeed
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// Seed inserts the reference rows that are missing. Existing rows are left
// alone, so renaming a category in the database survives restarts.
func Seed(db *gorm.DB, data *SeedData) error {
	categories := make([]models.Category, 0, len(data.Categories))
	for _, r := range data.Categories {
		categories = append(categories, models.Category{ID: r.ID, Name: r.Name, Status: models.CategoryApproved})
	}
	allergens := make([]models.Allergen, 0, len(data.Allergens))
	for _, r := range data.Allergens {
		allergens = append(allergens, models.Allergen{ID: r.ID, Name: r.Name})
	}
	appliances := make([]models.Appliance, 0, len(data.Appliances))
	for _, r := range data.Appliances {
		appliances = append(appliances, models.Appliance{ID: r.ID, Name: r.Name})
	}
	zipcodes := make([]models.Zipcode, 0, len(data.Zipcodes))
	for _, z := range data.Zipcodes {
		zipcodes = append(zipcodes, models.Zipcode{Zip: z})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := insertMissing(tx, categories); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if err := insertMissing(tx, allergens); err != nil {
			return fmt.Errorf("seed allergens: %w", err)
		}
		if err := insertMissing(tx, appliances); err != nil {
			return fmt.Errorf("seed appliances: %w", err)
		}
		if err := insertMissing(tx, zipcodes); err != nil {
			return fmt.Errorf("seed zipcodes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// explicit ids leave postgres sequences behind
	if db.Dialector.Name() == "postgres" {
		for _, table := range []string{"categories", "allergens", "appliances"} {
			err := db.Exec(fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %[1]s))", table)).Error
			if err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
	}

	log.WithFields(logrus.Fields{
		"categories": len(categories),
		"allergens":  len(allergens),
		"appliances": len(appliances),
		"zipcodes":   len(zipcodes),
	}).Info("Reference data seeded")
	return nil
}

func insertMissing[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
