package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			database := db.ConnectWithRetry(config.Load())
			if err := db.Migrate(database); err != nil {
				return err
			}
			log.Printf("schema is up to date")
			return nil
		},
	}
}

func newCreateStaffCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff member, prompting for the password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
				return errors.New("--username and --email are required")
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			database := db.ConnectWithRetry(config.Load())
			if err := db.Migrate(database); err != nil {
				return err
			}

			member := model.Member{
				Username:     strings.TrimSpace(username),
				Email:        email,
				PasswordHash: hash,
				IsStaff:      true,
			}
			if err := repository.NewGormMemberRepository(database).Create(cmd.Context(), &member); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created staff member %s (%s)\n", member.Username, member.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")

	return cmd
}

func newIssueTokenCmd() *cobra.Command {
	var (
		login string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for an existing member",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			database := db.ConnectWithRetry(cfg)
			member, err := repository.NewGormMemberRepository(database).FindByLogin(cmd.Context(), login)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no member with login %q", login)
			}
			if err != nil {
				return err
			}

			token, err := auth.NewTokenVerifier(cfg.JWTSecret).Issue(member.ID, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "username or email of the member")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("login")

	return cmd
}

// readPassword reads without echo from a terminal, and falls back to a plain
// line read when stdin is piped.
func readPassword(prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Print(prompt)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
