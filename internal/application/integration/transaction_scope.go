package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/currency"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/sale"
)

// Repositories provides access to every repository an import touches.
// All repositories returned by one value share the same transaction.
type Repositories interface {
	Sales() sale.Repository
	Parties() partner.PartyRepository
	Addresses() partner.AddressRepository
	Currencies() currency.Repository
	Channels() channel.Repository
	Exceptions() channel.ExceptionRepository
	Uoms() catalog.UomRepository
	Products() catalog.ProductRepository
}

// Transaction is an open unit of work
type Transaction interface {
	Repositories
	Commit() error
	Rollback() error
}

// UnitOfWork begins transactions
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// RunInTransaction runs fn inside a new transaction. The transaction is
// committed when fn returns nil and rolled back when fn returns an error
// or panics.
func RunInTransaction(ctx context.Context, uow UnitOfWork, fn func(repos Repositories) error) (err error) {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	committed = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
