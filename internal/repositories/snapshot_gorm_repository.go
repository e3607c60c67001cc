package repositories

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sgp/internal/models"
)

// productRow is the database projection of a product. Position keeps the
// snapshot ordered on reload; Price and CreatedAt stay strings so they round-
// trip exactly.
type productRow struct {
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	SKU       string `gorm:"column:sku;uniqueIndex;type:varchar(30)"`
	Name      string
	Category  string
	Price     string
	Stock     int
	Active    bool
	CreatedAt string
}

func (productRow) TableName() string {
	return "products"
}

// GORMSnapshotRepository persists the snapshot in a relational table. It
// keeps the same whole-snapshot semantics as the JSON file: Save replaces
// every row in one transaction.
type GORMSnapshotRepository struct {
	db *gorm.DB
}

// OpenDialector maps a configured driver name to a GORM dialector.
func OpenDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// NewGORMSnapshotRepository opens the database and migrates the products
// table.
func NewGORMSnapshotRepository(dialector gorm.Dialector) (*GORMSnapshotRepository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if err := db.AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GORMSnapshotRepository{db: db}, nil
}

// Load reads every row in snapshot order.
func (r *GORMSnapshotRepository) Load() ([]models.Product, error) {
	var rows []productRow
	if err := r.db.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			price = decimal.Zero
		}
		products = append(products, models.Product{
			SKU:       row.SKU,
			Name:      row.Name,
			Category:  row.Category,
			Price:     price,
			Stock:     row.Stock,
			Active:    row.Active,
			CreatedAt: row.CreatedAt,
		})
	}
	return products, nil
}

// Save replaces the whole table with the given snapshot in one transaction.
func (r *GORMSnapshotRepository) Save(products []models.Product) error {
	rows := make([]productRow, 0, len(products))
	for i, p := range products {
		rows = append(rows, productRow{
			Position:  i,
			SKU:       p.SKU,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price.String(),
			Stock:     p.Stock,
			Active:    p.Active,
			CreatedAt: p.CreatedAt,
		})
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear products table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to write product snapshot: %w", err)
		}
		return nil
	})
}
