package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Leave balance maintenance",
}

var resetYear int

var balanceResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Carry every balance of the previous year into --year",
	Long:  `Roll each employee's balance of year-1 into the given year, capping the carry-forward. Failures are reported per employee.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := setupLogger(cfg)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		svc, err := buildServices(cfg, db, gdb, nil, lg)
		if err != nil {
			log.Fatalf("failed to build services: %v", err)
		}

		year := resetYear
		if year == 0 {
			year = svc.Balance.CurrentYear()
		}

		summary, err := svc.Balance.AnnualReset(context.Background(), year)
		if err != nil {
			log.Fatalf("annual reset failed: %v", err)
		}

		fmt.Printf("Reset into %d: %d processed, %d failed\n", summary.Year, summary.Processed, summary.Failed)
		for _, f := range summary.Failures {
			fmt.Printf("  %s: %s\n", f.EmployeeID, f.Error)
		}
	},
}

func init() {
	balanceResetCmd.Flags().IntVar(&resetYear, "year", 0, "Year to reset into (defaults to the current year)")

	balanceCmd.AddCommand(balanceResetCmd)
	rootCmd.AddCommand(balanceCmd)
}
