package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/config"
	"gorm.io/gorm"
)

const usage = `Usage: dbtool <command>

Commands:
  migrate   bring the schema to the current version
  schema    print every table with its columns and the schema version
  sweep     delete expired sessions
  seed      register the demo accounts (skipped when they exist)
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewZapLogger(logger.Settings{
		Level:  cfg.Logger.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ctx := context.Background()

	dbManager := database.NewManager(database.CreateConfigFromViperConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := run(ctx, flag.Arg(0), cfg, dbManager, tp, appLogger); err != nil {
		appLogger.Error("Command failed", map[string]any{"command": flag.Arg(0), "error": err.Error()})
		_ = dbManager.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, cfg *config.Config, dbManager *database.Manager, tp coreport.TimeProvider, appLogger coreport.Logger) error {
	switch command {
	case "migrate":
		return dbManager.Migrate(ctx)

	case "schema":
		version, err := dbManager.MigrationManager().GetCurrentVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("schema version: %s\n\n", version)
		return printSchema(dbManager.DB())

	case "sweep":
		removed, err := dbManager.SessionRepository().DeleteExpired(ctx, tp.Now())
		if err != nil {
			return err
		}
		fmt.Printf("removed %d expired sessions\n", removed)
		return nil

	case "seed":
		if err := dbManager.Migrate(ctx); err != nil {
			return err
		}
		service, err := newAuthService(cfg, dbManager, tp, appLogger)
		if err != nil {
			return err
		}
		created, err := migration.SeedDemoAccounts(ctx, service, migration.DemoAccounts, appLogger)
		if err != nil {
			return err
		}
		fmt.Printf("created %d of %d demo accounts\n", created, len(migration.DemoAccounts))
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func newAuthService(cfg *config.Config, dbManager *database.Manager, tp coreport.TimeProvider, appLogger coreport.Logger) (*auth.Service, error) {
	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, tp)
	if err != nil {
		return nil, fmt.Errorf("auth.jwtSecret: %w", err)
	}

	startingBalance, err := entity.ParseBalance(cfg.Account.StartingBalance)
	if err != nil {
		return nil, err
	}

	return auth.NewService(
		dbManager.AccountRepository(),
		dbManager.SessionRepository(),
		dbManager.CreateUnitOfWork(),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		nil,
		startingBalance,
		tp,
		appLogger,
	), nil
}

// printSchema lists tables and their columns in a stable order
func printSchema(db *gorm.DB) error {
	migrator := db.Migrator()

	tables, err := migrator.GetTables()
	if err != nil {
		return err
	}
	sort.Strings(tables)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, table := range tables {
		if strings.HasPrefix(table, "sqlite_") {
			continue
		}

		columns, err := migrator.ColumnTypes(table)
		if err != nil {
			return fmt.Errorf("reading columns of %s: %w", table, err)
		}

		fmt.Fprintf(w, "%s\n", table)
		for _, column := range columns {
			nullable, _ := column.Nullable()
			fmt.Fprintf(w, "  %s\t%s\tnullable=%t\n", column.Name(), column.DatabaseTypeName(), nullable)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
