package main

import (
	"encoding/json"
	"fmt"
	"os"

	"meal-subscription-be/internal/model"
	"meal-subscription-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// snapshot is the on-disk layout of database_export.json.
type snapshot struct {
	Users          []model.User          `json:"users"`
	Plans          []model.Plan          `json:"plans"`
	Subscriptions  []model.Subscription  `json:"subscriptions"`
	Orders         []model.Order         `json:"orders"`
	PaymentRecords []model.PaymentRecord `json:"paymentRecords"`
}

var snapshotFile string

var rootCmd = &cobra.Command{
	Use:           "datasync",
	Short:         "Export or import the subscription tables",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump users, plans, subscriptions, orders and payments to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		return exportData(db, snapshotFile)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the subscription tables with the contents of a JSON file",
	Long:  `Clears every exported table and re-inserts the snapshot inside a single transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		return importData(db, snapshotFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotFile, "file", "f", "database_export.json", "snapshot file")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func connect() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		color.Yellow("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	color.Cyan("Database connected")
	return db, nil
}

func exportData(db *gorm.DB, path string) error {
	var data snapshot

	if err := db.Find(&data.Users).Error; err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	if err := db.Find(&data.Plans).Error; err != nil {
		return fmt.Errorf("read plans: %w", err)
	}
	if err := db.Find(&data.Subscriptions).Error; err != nil {
		return fmt.Errorf("read subscriptions: %w", err)
	}
	if err := db.Find(&data.Orders).Error; err != nil {
		return fmt.Errorf("read orders: %w", err)
	}
	if err := db.Find(&data.PaymentRecords).Error; err != nil {
		return fmt.Errorf("read payment records: %w", err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}

	color.Green("✅ Exported %d users, %d plans, %d subscriptions, %d orders, %d payments to %s",
		len(data.Users), len(data.Plans), len(data.Subscriptions), len(data.Orders), len(data.PaymentRecords), path)
	return nil
}

// importData replaces the contents of every exported table in one transaction.
func importData(db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s not found: %w", path, err)
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		color.Yellow("Clearing existing data...")
		// Children first.
		for _, m := range []interface{}{&model.PaymentRecord{}, &model.Order{}, &model.Subscription{}, &model.Plan{}, &model.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}

		color.Yellow("Importing new data...")
		if err := createAll(tx, data.Users); err != nil {
			return fmt.Errorf("insert users: %w", err)
		}
		if err := createAll(tx, data.Plans); err != nil {
			return fmt.Errorf("insert plans: %w", err)
		}
		if err := createAll(tx, data.Subscriptions); err != nil {
			return fmt.Errorf("insert subscriptions: %w", err)
		}
		if err := createAll(tx, data.Orders); err != nil {
			return fmt.Errorf("insert orders: %w", err)
		}
		if err := createAll(tx, data.PaymentRecords); err != nil {
			return fmt.Errorf("insert payment records: %w", err)
		}

		color.Green("✅ Data imported successfully!")
		return nil
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}
