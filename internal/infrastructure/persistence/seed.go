package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedCurrency struct {
	id, code, name, symbol string
}

// Same rows and IDs as the seed_master_data migration
var (
	seedUnitID     = uuid.MustParse("6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e0001")
	seedCurrencies = []seedCurrency{
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1001", "USD", "US Dollar", "$"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1002", "EUR", "Euro", "€"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1003", "GBP", "Pound Sterling", "£"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1004", "AUD", "Australian Dollar", "A$"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1005", "CAD", "Canadian Dollar", "C$"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1006", "CHF", "Swiss Franc", "CHF"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1007", "HKD", "Hong Kong Dollar", "HK$"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1008", "INR", "Indian Rupee", "₹"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1009", "MYR", "Malaysian Ringgit", "RM"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1010", "PHP", "Philippine Peso", "₱"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1011", "PLN", "Polish Zloty", "zł"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1012", "SGD", "Singapore Dollar", "S$"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1013", "SEK", "Swedish Krona", "kr"},
		{"6f1d3c2a-0b5e-4c8e-9a51-3f0c1d2e1014", "TWD", "New Taiwan Dollar", "NT$"},
	}
)

// SeedMasterData inserts the Unit unit of measure and the eBay trading
// currencies. Rows that already exist are left alone. Postgres gets the
// same data from migrations; this serves AutoMigrate'd SQLite databases.
func SeedMasterData(ctx context.Context, db *gorm.DB) error {
	now := time.Now().UTC()
	doNothing := clause.OnConflict{DoNothing: true}

	unit := models.UomModel{
		BaseModel: models.BaseModel{ID: seedUnitID, CreatedAt: now, UpdatedAt: now},
		Name:      "Unit",
		Symbol:    "u",
		Category:  "Units",
		Digits:    0,
		Active:    true,
	}
	if err := db.WithContext(ctx).Clauses(doNothing).Create(&unit).Error; err != nil {
		return fmt.Errorf("seed unit of measure: %w", err)
	}

	rows := make([]models.CurrencyModel, 0, len(seedCurrencies))
	for _, c := range seedCurrencies {
		rows = append(rows, models.CurrencyModel{
			BaseModel: models.BaseModel{ID: uuid.MustParse(c.id), CreatedAt: now, UpdatedAt: now},
			Code:      c.code,
			Name:      c.name,
			Symbol:    c.symbol,
			Digits:    2,
			Active:    true,
		})
	}
	if err := db.WithContext(ctx).Clauses(doNothing).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed currencies: %w", err)
	}
	return nil
}
