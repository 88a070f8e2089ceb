package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/database"
	"github.com/mrlokans/hanzi/internal/database/users"
	"github.com/mrlokans/hanzi/internal/entities"
)

// CreateUserCommand creates an account for jwt auth mode.
type CreateUserCommand struct {
	Username     string
	Password     string
	Role         string
	DatabasePath string
	BcryptCost   int
	MinLength    int

	out io.Writer
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{out: os.Stdout}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username, 3-64 characters (required)")
	fs.StringVar(&cmd.Password, "password", os.Getenv("HANZI_PASSWORD"), "Password, at least 12 characters (default: $HANZI_PASSWORD)")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleAdmin), "Role: admin or user")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the vocabulary database")
	fs.IntVar(&cmd.BcryptCost, "cost", config.DefaultBcryptCost, "bcrypt cost")
	fs.IntVar(&cmd.MinLength, "min-length", config.DefaultMinPasswordLength, "Minimum password length in characters")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, "silent")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	svc := auth.NewService(users.NewRepository(db.DB), nil, config.Auth{BcryptCost: cmd.BcryptCost, MinPasswordLength: cmd.MinLength})
	user, err := svc.CreateUser(context.Background(), cmd.Username, cmd.Password, entities.UserRole(cmd.Role))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
