package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clubconn/config"
	"clubconn/internal/repository/postgres"
)

const (
	keyDatabaseURL = "database-url"
	keyOwnerEmail  = "owner-email"
)

func newRootCmd(open opener) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CLUBCONN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "clubconnctl",
		Short:         "ClubConn operator tool",
		Long:          "clubconnctl runs database migrations, imports seed catalogs and applies one-off data backfills.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(keyDatabaseURL, "", "Postgres connection string (env CLUBCONN_DATABASE_URL, falls back to DATABASE_URL)")
	_ = v.BindPFlag(keyDatabaseURL, root.PersistentFlags().Lookup(keyDatabaseURL))

	c := &cli{v: v, open: open}
	root.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.backfillCodesCmd(),
		c.createAdminCmd(),
	)
	return root
}

type cli struct {
	v    *viper.Viper
	open opener
}

// withBackend loads config, applies the --database-url override and runs fn against an open backend.
func (c *cli) withBackend(cmd *cobra.Command, fn func(b backend) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dsn := c.v.GetString(keyDatabaseURL); dsn != "" {
		cfg.DBUrl = dsn
	}
	logger := config.NewLogger(cfg.Environment)

	b, err := c.open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run the embedded database migrations (default up)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := postgres.MigrateUp
			if len(args) == 1 {
				direction = args[0]
			}
			return c.withBackend(cmd, func(b backend) error {
				if err := b.Migrate(cmd.Context(), direction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", direction)
				return nil
			})
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var file, url string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import clubs and events from a catalog JSON file or URL",
		Long: "seed imports a catalog document ({\"clubs\":[...],\"events\":[...]}). Clubs are matched by slug and\n" +
			"events by club, title and start time, so running it twice creates nothing new.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := strings.TrimSpace(c.v.GetString(keyOwnerEmail))
			if owner == "" {
				return errors.New("--owner-email is required")
			}
			source := file
			if source == "" {
				source = url
			}
			return c.withBackend(cmd, func(b backend) error {
				res, err := b.Seed(cmd.Context(), source, owner)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "clubs: %d created, %d skipped\nevents: %d created, %d skipped\n",
					res.ClubsCreated, res.ClubsSkipped, res.EventsCreated, res.EventsSkipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a catalog JSON file")
	cmd.Flags().StringVar(&url, "url", "", "URL of a catalog JSON document")
	cmd.Flags().String(keyOwnerEmail, "", "Email of the existing user who will own imported clubs")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	cmd.MarkFlagsOneRequired("file", "url")
	_ = c.v.BindPFlag(keyOwnerEmail, cmd.Flags().Lookup(keyOwnerEmail))
	return cmd
}

func (c *cli) backfillCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-codes",
		Short: "Assign verification codes to certificates missing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(b backend) error {
				n, err := b.BackfillCodes(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "certificates updated: %d\n", n)
				return nil
			})
		},
	}
}

func (c *cli) createAdminCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Grant the admin role to a user, creating the account if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(b backend) error {
				user, err := b.CreateAdmin(cmd.Context(), email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin granted: %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
