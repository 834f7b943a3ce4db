package persistence

import (
	"context"
	"fmt"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/currency"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/sale"
	"gorm.io/gorm"
)

// GormUnitOfWork implements integration.UnitOfWork using GORM transactions.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Begin opens a database transaction. Every repository handed out by the
// returned Transaction runs inside it.
func (u *GormUnitOfWork) Begin(ctx context.Context) (integration.Transaction, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin: %w", tx.Error)
	}
	return &gormTransaction{gormRepositories: gormRepositories{db: tx}}, nil
}

// gormRepositories provides access to all repositories on one *gorm.DB.
type gormRepositories struct {
	db *gorm.DB
}

func (r gormRepositories) Sales() sale.Repository                  { return NewGormSaleRepository(r.db) }
func (r gormRepositories) Parties() partner.PartyRepository        { return NewGormPartyRepository(r.db) }
func (r gormRepositories) Addresses() partner.AddressRepository    { return NewGormAddressRepository(r.db) }
func (r gormRepositories) Currencies() currency.Repository         { return NewGormCurrencyRepository(r.db) }
func (r gormRepositories) Channels() channel.Repository            { return NewGormChannelRepository(r.db) }
func (r gormRepositories) Exceptions() channel.ExceptionRepository { return NewGormChannelExceptionRepository(r.db) }
func (r gormRepositories) Uoms() catalog.UomRepository             { return NewGormUomRepository(r.db) }
func (r gormRepositories) Products() catalog.ProductRepository     { return NewGormProductRepository(r.db) }

// NewRepositories returns repositories running outside any explicit transaction
func NewRepositories(db *gorm.DB) integration.Repositories {
	return gormRepositories{db: db}
}

type gormTransaction struct {
	gormRepositories
	finished bool
}

func (t *gormTransaction) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.db.Commit().Error
}

func (t *gormTransaction) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.db.Rollback().Error
}

var (
	_ integration.UnitOfWork  = (*GormUnitOfWork)(nil)
	_ integration.Transaction = (*gormTransaction)(nil)
)
