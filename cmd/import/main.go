// Command import fetches one eBay order and records it as a sale.
//
// Against the configured Postgres database:
//
//	import -channel EBAY-US -order 110123456789-0
//
// Against a local SQLite file, bootstrapping master data and the channel
// from EBAY_* environment variables when they are missing:
//
//	EBAY_APP_ID=... EBAY_DEV_ID=... EBAY_CERT_ID=... EBAY_AUTH_TOKEN=... \
//	    import -sqlite sales.db -channel EBAY-US -order 110123456789-0
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/erp/sale-ebay/internal/infrastructure/config"
	"github.com/erp/sale-ebay/internal/infrastructure/ecommerce"
	"github.com/erp/sale-ebay/internal/infrastructure/logger"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	var (
		channelCode string
		orderID     string
		sqlitePath  string
		logLevel    string
	)

	flag.StringVar(&channelCode, "channel", "", "Code of the eBay channel the order belongs to (required)")
	flag.StringVar(&orderID, "order", "", "eBay order ID to import (required)")
	flag.StringVar(&sqlitePath, "sqlite", "", "Use this SQLite file instead of the configured Postgres database")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if channelCode == "" || orderID == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, channelCode, orderID, sqlitePath); err != nil {
		log.Error("Import failed", zap.String("order_id", orderID), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, channelCode, orderID, sqlitePath string) error {
	var (
		db       *persistence.Database
		defaults ecommerce.ClientDefaults
		err      error
	)

	if sqlitePath != "" {
		db, err = persistence.NewSQLiteDatabase(sqlitePath, nil)
		if err != nil {
			return err
		}
		if err := persistence.SeedMasterData(ctx, db.DB); err != nil {
			return err
		}
	} else {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabase(&cfg.Database, gormLog)
		if err != nil {
			return err
		}
		defaults = ecommerce.ClientDefaults{
			ProductionURL:      cfg.Ebay.ProductionURL,
			SandboxURL:         cfg.Ebay.SandboxURL,
			CompatibilityLevel: cfg.Ebay.CompatibilityLevel,
			Timeout:            cfg.Ebay.Timeout,
		}
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	uow := persistence.NewGormUnitOfWork(db.DB)

	channelID, err := resolveChannel(ctx, uow, log, channelCode, sqlitePath != "")
	if err != nil {
		return err
	}

	importer := integration.NewOrderImporter(
		uow,
		ecommerce.NewEbayClientFactory(defaults, log),
		integration.NewEbayPartyService(log),
		integration.NewEbayProductImporter(log),
		log,
	)

	result, err := importer.FindOrCreateUsingEbayID(channel.WithCurrentChannel(ctx, channelID), orderID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(integration.ToImportResponse(result), "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// resolveChannel looks the channel up by code. In bootstrap mode a missing
// channel is created from EBAY_* environment variables.
func resolveChannel(ctx context.Context, uow integration.UnitOfWork, log *zap.Logger, code string, bootstrap bool) (channelID uuid.UUID, err error) {
	err = integration.RunInTransaction(ctx, uow, func(repos integration.Repositories) error {
		ch, err := repos.Channels().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		channelID = ch.ID
		return nil
	})
	if err == nil || !bootstrap || !errors.Is(err, shared.ErrNotFound) {
		return channelID, err
	}

	env := viper.New()
	env.SetEnvPrefix("EBAY")
	env.AutomaticEnv()
	env.SetDefault("site_id", 0)
	env.SetDefault("sandbox", false)

	created, err := integration.NewChannelService(uow, log).CreateEbayChannel(ctx, integration.CreateEbayChannelRequest{
		Name:      code,
		Code:      code,
		AppID:     env.GetString("app_id"),
		DevID:     env.GetString("dev_id"),
		CertID:    env.GetString("cert_id"),
		AuthToken: env.GetString("auth_token"),
		SiteID:    env.GetInt("site_id"),
		Sandbox:   env.GetBool("sandbox"),
	})
	if err != nil {
		return channelID, fmt.Errorf("create channel %q: %w", code, err)
	}
	return created.ID, nil
}
