package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

func newCreateAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "createadmin",
		Short: "Create an admin account or promote an existing one",
		Long: `Create an account with admin rights without going through the HTTP API.
If the email already belongs to an account, that account is promoted to
admin instead. Useful after locking yourself out or when ALLOW_SIGNUP
is off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			config.LoadConfig()
			database.InitDB()

			repo := &repository.GormUserRepo{}
			existing, err := repo.GetByEmail(email)
			if err == nil {
				if existing.IsAdmin {
					fmt.Printf("%s is already an admin\n", email)
					return nil
				}
				existing.IsAdmin = true
				if err := repo.Update(existing); err != nil {
					return fmt.Errorf("failed to promote %s: %w", email, err)
				}
				fmt.Printf("Promoted %s to admin\n", email)
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up %s: %w", email, err)
			}

			if len(password) < 8 {
				return fmt.Errorf("--password must be at least 8 characters")
			}
			if name == "" {
				name = email
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			admin := &models.User{
				Name:         name,
				Email:        email,
				PasswordHash: string(hash),
				IsAdmin:      true,
			}
			if err := repo.Create(admin); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Created admin account %s (id %d)\n", email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the admin account")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the email)")
	cmd.Flags().StringVar(&password, "password", "", "Password for a newly created account")

	return cmd
}
