package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/export"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/account"
	"github.com/spf13/cobra"
)

func migrateCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := repository.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func grantRoleCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role <uid> <role>",
		Short: "Set the role of a user (user or admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			users := repository.NewUserRepository(pool)
			directory, err := newDirectory(ctx, cfg, users)
			if err != nil {
				return err
			}

			accounts := account.NewAccountService(users, directory)
			if err := accounts.SetRole(ctx, args[0], domain.Role(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

func newDirectory(ctx context.Context, cfg *config.Config, users repository.UserRepository) (identity.Directory, error) {
	if cfg.Auth.Provider == config.AuthProviderFirebase {
		return identity.NewFirebase(ctx, cfg.Firebase)
	}
	return identity.NewLocalDirectory(users), nil
}

func exportBookingsCmd(connect connectFunc) *cobra.Command {
	var out, status string

	cmd := &cobra.Command{
		Use:   "export-bookings",
		Short: "Write bookings to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := bookingFilter(status)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			bookings, err := repository.NewBookingRepository(pool).List(ctx, filter)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := export.WriteBookingsXLSX(w, bookings); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d bookings to %s\n", len(bookings), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "bookings.xlsx", "output file, - for stdout")
	cmd.Flags().StringVarP(&status, "status", "s", "", "only export bookings with this status")

	return cmd
}

func bookingFilter(status string) (domain.BookingFilter, error) {
	if status == "" {
		return domain.BookingFilter{}, nil
	}
	parsed, ok := domain.ParseBookingStatus(status)
	if !ok {
		return domain.BookingFilter{}, fmt.Errorf("unknown booking status %q", status)
	}
	return domain.BookingFilter{Status: parsed}, nil
}
