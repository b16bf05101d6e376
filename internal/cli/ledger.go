package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventor-ai/balloond/internal/app/audit"
	"github.com/eventor-ai/balloond/internal/app/gate"
	"github.com/eventor-ai/balloond/internal/daemon"
	"github.com/eventor-ai/balloond/internal/infra/sqlite"
)

// ─── Operator Ledger Commands ───────────────────────────────────────────────
// These operate directly on the local store; they are for operators on the
// daemon host, not for end users.

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(featuresCmd)

	transactionsCmd.Flags().IntP("limit", "n", 20, "Number of transactions to show")
	grantCmd.Flags().String("reason", "operator grant", "Transaction description")
}

func openStore() (*sqlite.DB, daemon.Config, error) {
	cfg, err := daemon.LoadDefault()
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	db, err := sqlite.Open(cfg.StorePath())
	if err != nil {
		return nil, cfg, fmt.Errorf("open store: %w", err)
	}
	return db, cfg, nil
}

// ─── balance ────────────────────────────────────────────────────────────────

var balanceCmd = &cobra.Command{
	Use:   "balance ACTOR_ID",
	Short: "Show an account actor's balloon balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		balance, err := db.Balance(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d\n", balance)
		return nil
	},
}

// ─── grant ──────────────────────────────────────────────────────────────────

var grantCmd = &cobra.Command{
	Use:   "grant ACTOR_ID AMOUNT",
	Short: "Credit balloons to an account actor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		reason, _ := cmd.Flags().GetString("reason")

		db, _, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		balance, err := db.Earn(context.Background(), args[0], amount, reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "granted %d balloons to %s (balance now %d)\n", amount, args[0], balance)
		return nil
	},
}

// ─── transactions ───────────────────────────────────────────────────────────

var transactionsCmd = &cobra.Command{
	Use:   "transactions ACTOR_ID",
	Short: "List an account actor's recent ledger transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, _, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		txs, err := db.Transactions(context.Background(), args[0], limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tTYPE\tAMOUNT\tDESCRIPTION")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				tx.CreatedAt.Format(time.DateTime), tx.Kind, tx.Amount, tx.Description)
		}
		return w.Flush()
	},
}

// ─── audit ──────────────────────────────────────────────────────────────────

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check every account balance against its transaction sum",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		drifts := audit.New(db, newLogger()).RunOnce(context.Background())
		if len(drifts) == 0 {
			fmt.Fprintln(os.Stdout, "ledger clean: all balances match their transaction sums")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ACTOR\tBALANCE\tTX SUM")
		for _, d := range drifts {
			fmt.Fprintf(w, "%s\t%d\t%d\n", d.ActorID, d.Balance, d.TxSum)
		}
		w.Flush()
		return fmt.Errorf("%d actor(s) drifted", len(drifts))
	},
}

// ─── features ───────────────────────────────────────────────────────────────

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List gated AI features and their balloon costs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := daemon.LoadDefault()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FEATURE\tCOST\tFUNCTION\tDESCRIPTION")
		for _, f := range append(gate.DefaultCatalog(), cfg.Features...) {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Cost, f.Function, f.Description)
		}
		return w.Flush()
	},
}
