package cli

import (
	"flag"
	"fmt"
	"os"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/database/users"
)

// CreateAdminCommand creates an administrator account for the CRUD backend.
type CreateAdminCommand struct {
	Email    string
	Password string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Administrator email (required)")
	fs.StringVar(&cmd.Password, "password", "", "Administrator password (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -email <email> -password <password>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Creates an administrator for the admin API, or resets the password\n")
		fmt.Fprintf(os.Stderr, "when the email already exists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	user, err := users.NewRepository(db.DB).CreateAdmin(cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Administrator created: %s\n", user.Email)
	return nil
}
