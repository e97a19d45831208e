package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.Product{}); err != nil {
		log.Fatalf("Error migrating product database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UnitConversion{}); err != nil {
		log.Fatalf("Error migrating unit conversion database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MonthlyFixedCosts{}); err != nil {
		log.Fatalf("Error migrating fixed costs database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.RecipeMaterial{}); err != nil {
		log.Fatalf("Error migrating recipe material database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CostHistoryEntry{}); err != nil {
		log.Fatalf("Error migrating cost history database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
