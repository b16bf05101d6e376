package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eventor-ai/balloond/internal/api"
	"github.com/eventor-ai/balloond/internal/app/audit"
	"github.com/eventor-ai/balloond/internal/app/gate"
	"github.com/eventor-ai/balloond/internal/app/ledger"
	"github.com/eventor-ai/balloond/internal/app/promo"
	"github.com/eventor-ai/balloond/internal/daemon"
	"github.com/eventor-ai/balloond/internal/domain"
	"github.com/eventor-ai/balloond/internal/infra/auth"
	"github.com/eventor-ai/balloond/internal/infra/funcs"
	"github.com/eventor-ai/balloond/internal/infra/guestwallet"
	"github.com/eventor-ai/balloond/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to config.toml (default <home>/config.toml)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the balloond HTTP API",
	Long:  `Start the balloond daemon: the balloon ledger, the AI feature gate, and the operator API.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfgPath, _ := cmd.Flags().GetString("config")
	var cfg daemon.Config
	var err error
	if cfgPath != "" {
		cfg, err = daemon.Load(cfgPath)
	} else {
		cfg, err = daemon.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.Open(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	guests := guestwallet.New(cfg.GuestDir(), cfg.Guest.InitialGrant)
	ledgerSvc := ledger.New(db, guests, db, logNotifier{log}, log)

	fnClient := funcs.New(cfg.Funcs.BaseURL, cfg.Funcs.APIKey,
		time.Duration(cfg.Funcs.TimeoutSec)*time.Second, log)
	catalog := append(gate.DefaultCatalog(), cfg.Features...)
	gateSvc := gate.New(ledgerSvc, fnClient, catalog, log)

	promoSvc := promo.New(ledgerSvc, db, promo.Config{
		SignupBonus: cfg.Promo.SignupBonus,
		DailyBonus:  cfg.Promo.DailyBonus,
	}, log)

	resolver := auth.NewResolver(cfg.Auth.JWTSecret)

	server := api.NewServer(ledgerSvc, gateSvc, promoSvc, resolver, log)
	server.EnableMetrics()
	server.SetSpendRate(cfg.Limits.SpendPerMinute)

	auditor := audit.New(db, log)
	server.SetAuditor(auditor)
	if cfg.Audit.Enabled {
		if err := auditor.Start(cfg.Audit.Schedule); err != nil {
			return fmt.Errorf("start auditor: %w", err)
		}
		defer auditor.Stop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	log.Info().Str("addr", addr).Str("store", cfg.StorePath()).Msg("balloond listening")
	return http.ListenAndServe(addr, server.Handler())
}

// logNotifier surfaces user-facing messages into the server log; the
// frontend renders its own toasts from API responses.
type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Notify(actor domain.Actor, severity, message string) {
	evt := n.log.Info()
	if severity == "destructive" {
		evt = n.log.Warn()
	}
	evt.Str("actor", actor.ID).Str("kind", string(actor.Kind)).Msg(message)
}
