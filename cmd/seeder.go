package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/profile"
	"github.com/spf13/cobra"
)

var (
	clearData    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one user per role, each with a profile and a current-year balance.`,
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

		ctx := context.Background()
		if clearData {
			for _, table := range []string{"leave_approvals", "short_leaves", "annual_leaves", "leave_balances", "profiles", "users"} {
				if err := gdb.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seeder := internal.Identity{ID: "seed", Role: internal.RoleAdmin}
		year := svc.Balance.CurrentYear()

		for i, role := range internal.AllRoles() {
			email := strings.ToLower(string(role)) + "@mail.com"
			name := seedName(role)

			u, err := svc.Auth.Register(ctx, seeder, auth.RegisterDTO{
				Name:       name,
				Email:      email,
				Password:   seedPassword,
				Role:       string(role),
				Department: "Operations",
			})
			if errors.Is(err, internal.ErrUserExists) {
				fmt.Printf("%s already exists; skipping\n", email)
				continue
			}
			if err != nil {
				log.Fatalf("failed to seed %s: %v", email, err)
			}

			if _, err := svc.Profile.Update(ctx, u.ID, profile.UpdateProfileDTO{
				Name:                 name,
				Department:           "Operations",
				Email:                email,
				PersonNumber:         fmt.Sprintf("P-%03d", i+1),
				Sector:               "Head Office",
				SupervisorName:       seedName(internal.RoleSupervisor),
				SectionalHeadName:    seedName(internal.RoleSectionalHead),
				DepartmentalHeadName: seedName(internal.RoleDepartmentalHead),
				HRDirectorName:       seedName(internal.RoleHRDirector),
			}); err != nil {
				log.Fatalf("failed to seed profile for %s: %v", email, err)
			}

			if _, err := svc.Balance.GetOrCreate(ctx, u.ID, year); err != nil {
				log.Fatalf("failed to seed balance for %s: %v", email, err)
			}

			fmt.Printf("Seeded %s user: %s\n", role, email)
		}
	},
}

func seedName(role internal.Role) string {
	return "Demo " + string(role)
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "Password given to every seeded user")
}
