package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/services"
)

func newAllowlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Inspect and change the allow-list",
	}
	cmd.AddCommand(
		newMutateCmd(a, "grant", "granted", "Grant access to an id or @handle", grant),
		newMutateCmd(a, "revoke", "revoked", "Revoke access from an id or @handle", revoke),
		newListCmd(a),
		newStatsCmd(a),
	)
	return cmd
}

type mutation func(ctx context.Context, l *services.Ledger, target string, by int64) (*domain.Principal, error)

func grant(ctx context.Context, l *services.Ledger, target string, by int64) (*domain.Principal, error) {
	return l.Grant(ctx, target, by)
}

func revoke(ctx context.Context, l *services.Ledger, target string, _ int64) (*domain.Principal, error) {
	return l.Revoke(ctx, target)
}

func newMutateCmd(a *app, use, done, short string, run mutation) *cobra.Command {
	var as int64
	cmd := &cobra.Command{
		Use:   use + " <id|@handle>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !services.NewAdminSet(a.cfg.Bot.AdminIDs).IsAdmin(as) {
				return fmt.Errorf("%w: %d is not in ADMIN_IDS", services.ErrPrivilegeDenied, as)
			}
			return withLedger(a, func(l *services.Ledger) error {
				p, err := run(cmd.Context(), l, args[0], as)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, p.Label())
				return err
			})
		},
	}
	cmd.Flags().Int64Var(&as, "as", 0, "admin id performing the change")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List authorized principals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(a, func(l *services.Ledger) error {
				items, more, err := l.ListAuthorized(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printPrincipals(cmd.OutOrStdout(), items, more)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", services.DefaultPageSize, "maximum rows; 0 lists everything")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show principal counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(a, func(l *services.Ledger) error {
				st, err := l.Stats(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "total=%d authorized=%d unauthorized=%d\n",
					st.TotalPrincipals, st.AuthorizedCount, st.Unauthorized())
				return err
			})
		},
	}
}

// withLedger runs fn against the configured store. Operator commands refuse
// to run degraded.
func withLedger(a *app, fn func(*services.Ledger) error) error {
	if !a.cfg.Store.Configured() {
		return fmt.Errorf("%w: DB_PATH is not set", services.ErrStoreUnavailable)
	}
	store, closeStore, err := openStore(a.cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(services.NewLedger(store))
}

func printPrincipals(w io.Writer, items []domain.Principal, more int64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHANDLE\tNAME")
	for _, p := range items {
		handle, name := "-", "-"
		if p.Handle != nil && *p.Handle != "" {
			handle = "@" + *p.Handle
		}
		if p.DisplayName != nil && *p.DisplayName != "" {
			name = *p.DisplayName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, handle, name)
	}
	if more > 0 {
		fmt.Fprintf(tw, "... and %d more\n", more)
	}
	return tw.Flush()
}
