//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/erp/sale-ebay/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDatabase starts a disposable PostgreSQL container and applies
// the embedded migrations.
func newPostgresDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("sale_ebay_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(20251006090100), version)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return &Database{DB: db}
}

func TestPostgres_ImportFlowPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	db := newPostgresDatabase(t)
	uow := NewGormUnitOfWork(db.DB)

	repos := NewRepositories(db.DB)

	units, err := repos.Uoms().FindByName(ctx, catalog.UnitName)
	require.NoError(t, err)
	require.Len(t, units, 1, "seed migration provides exactly one Unit")

	usd, err := repos.Currencies().FindByCode(ctx, "USD")
	require.NoError(t, err)
	require.Len(t, usd, 1)
	assert.Equal(t, 2, usd[0].Digits)

	ch, err := channel.NewEbayChannel("eBay US", "EBAY-US", channel.EbayCredentials{
		AppID: "app", DevID: "dev", CertID: "cert", AuthToken: "token",
	})
	require.NoError(t, err)
	require.NoError(t, repos.Channels().Save(ctx, ch))

	var saved *sale.Sale
	err = integration.RunInTransaction(ctx, uow, func(tx integration.Repositories) error {
		party, err := partner.NewEbayParty("Jane Buyer", "jane_buyer")
		if err != nil {
			return err
		}
		if _, err := party.AddContact(partner.ContactTypeEmail, "jane@example.com"); err != nil {
			return err
		}
		if err := tx.Parties().Save(ctx, party); err != nil {
			return err
		}

		s, err := sale.NewSale("110-PG-1", party.ID, "USD", time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return err
		}
		s.SetEbayOrderID("110-PG-1")
		s.SetChannel(ch.ID)
		if _, err := s.AddLine(sale.LineInput{
			Description: "Vintage lamp",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.RequireFromString("10.25"),
			UnitID:      units[0].ID,
		}); err != nil {
			return err
		}
		saved = s
		return tx.Sales().Save(ctx, s)
	})
	require.NoError(t, err)

	found, err := repos.Sales().FindByEbayOrderID(ctx, "110-PG-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	require.Len(t, found.Lines, 1)
	assert.True(t, found.TotalAmount().Equal(decimal.RequireFromString("20.50")))

	dup, err := sale.NewSale("110-PG-1", found.PartyID, "USD", time.Now())
	require.NoError(t, err)
	dup.SetEbayOrderID("110-PG-1")
	err = repos.Sales().Save(ctx, dup)
	assert.ErrorIs(t, err, sale.ErrDuplicateOrder)

	exc, err := channel.NewException(ch.ID, channel.SaleOrigin(found.ID), channel.LogTotalMismatch)
	require.NoError(t, err)
	require.NoError(t, repos.Exceptions().Save(ctx, exc))

	open := false
	pending, err := repos.Exceptions().FindByChannel(ctx, ch.ID, &open)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, channel.LogTotalMismatch, pending[0].Log)
}

func TestPostgres_RollbackDiscardsWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	db := newPostgresDatabase(t)
	uow := NewGormUnitOfWork(db.DB)

	party := func() *partner.Party {
		p, err := partner.NewParty("Rolled Back")
		require.NoError(t, err)
		return p
	}()

	err := integration.RunInTransaction(ctx, uow, func(tx integration.Repositories) error {
		if err := tx.Parties().Save(ctx, party); err != nil {
			return err
		}
		return shared.NewDomainError("IMPORT_FAILED", "forced failure")
	})
	require.Error(t, err)

	_, err = NewRepositories(db.DB).Parties().FindByID(ctx, party.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
