package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"LedgerTools/internal/txspec"
	"LedgerTools/pkg/appcfg"
	"LedgerTools/pkg/logx"
)

type rootFlags struct {
	config  string
	node    string
	workers int
	lang    string
}

// NewRootCmd builds the command tree. Without a subcommand it opens the
// interactive menu.
func NewRootCmd() *cobra.Command {
	var (
		flags rootFlags
		app   *App
	)

	root := &cobra.Command{
		Use:           "ledgertools",
		Short:         "Offline-first XRP Ledger wallet and transaction tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := logx.Init(logx.Config{
				Level:                cfg.LogLevel,
				FilePath:             filepath.Join(cfg.LogsDir, "app", "{start}.log"),
				HideSecretsInConsole: cfg.HideSecretsInConsole,
				Quiet:                !strings.EqualFold(cfg.LogLevel, "debug"),
			}); err != nil {
				return fmt.Errorf("log init: %w", err)
			}
			logx.S().Infow("ledgertools started",
				"node", cfg.NodeURL,
				"lang", cfg.Language,
				"log_level", cfg.LogLevel,
				"cores", cfg.Cores,
				"hide_secrets_in_console", cfg.HideSecretsInConsole,
			)
			app = NewApp(cfg, NewTerminal())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app != nil {
				app.Close()
			}
			logx.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			NewRunner(app).Run(cmd.Context())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "configs/app.yaml", "application config file")
	pf.StringVar(&flags.node, "node", "", "ledger node JSON-RPC URL (overrides config)")
	pf.IntVar(&flags.workers, "workers", 0, "vanity search workers (overrides config cores)")
	pf.StringVar(&flags.lang, "lang", "", "menu language: en|ru")

	run := func(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return app.finish(fn(cmd.Context(), args))
		}
	}
	arg := func(args []string) string {
		if len(args) > 0 {
			return args[0]
		}
		return ""
	}

	txCmd := &cobra.Command{
		Use:   "tx [type]",
		Short: "Create a transaction field by field",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return txspec.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: run(func(ctx context.Context, args []string) error { return app.CreateTx(ctx, arg(args)) }),
	}

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List supported transaction types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, n := range txspec.Names() {
				spec, _ := txspec.Lookup(n)
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", n, spec.Description)
			}
		},
	}

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a transaction given as json, hex or mnemonic",
		Args:  cobra.NoArgs,
		RunE:  run(func(ctx context.Context, _ []string) error { return app.Sign(ctx) }),
	}

	submitCmd := &cobra.Command{
		Use:   "submit [blob]",
		Short: "Submit a signed transaction blob",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, args []string) error {
			if b := arg(args); b != "" {
				return app.SubmitBlob(ctx, b)
			}
			return app.Submit(ctx)
		}),
	}

	var entropy string
	walletCmd := &cobra.Command{Use: "wallet", Short: "Create or verify wallets"}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet, optionally by vanity search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.finish(app.CreateWallet(cmd.Context(), entropy, !rootChanged(cmd, "entropy")))
		},
	}
	createCmd.Flags().StringVar(&entropy, "entropy", "", "seed entropy text (at most 16 bytes are used)")
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Unlock a secret and show its address",
		Args:  cobra.NoArgs,
		RunE:  run(func(ctx context.Context, _ []string) error { return app.VerifyWallet(ctx) }),
	}
	walletCmd.AddCommand(createCmd, verifyCmd)

	lookupCmd := &cobra.Command{Use: "lookup", Short: "Read ledger state"}
	lookupCmd.AddCommand(
		&cobra.Command{
			Use:   "account [address]",
			Short: "Show account info and owned objects",
			Args:  cobra.MaximumNArgs(1),
			RunE:  run(func(ctx context.Context, args []string) error { return app.LookupAccount(ctx, arg(args)) }),
		},
		&cobra.Command{
			Use:   "object [index]",
			Short: "Show a ledger object by its index",
			Args:  cobra.MaximumNArgs(1),
			RunE:  run(func(ctx context.Context, args []string) error { return app.LookupObject(ctx, arg(args)) }),
		},
	)

	seedsCmd := &cobra.Command{Use: "seeds", Short: "Batch passphrase protection of seed files"}
	seedsCmd.AddCommand(
		&cobra.Command{
			Use:   "encrypt",
			Short: "Protect inputs/encrypt/seeds.txt into a JSONL keystore",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context, _ []string) error { return app.EncryptSeeds(ctx) }),
		},
		&cobra.Command{
			Use:   "decrypt",
			Short: "Recover seeds from inputs/decrypt/*.jsonl",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context, _ []string) error { return app.DecryptSeeds(ctx) }),
		},
	)

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show vanity pattern presets",
		Args:  cobra.NoArgs,
		RunE:  run(func(context.Context, []string) error { return app.ShowPatterns() }),
	}

	root.AddCommand(txCmd, typesCmd, signCmd, submitCmd, walletCmd, lookupCmd, seedsCmd, patternsCmd)
	return root
}

// loadConfig reads the app config and applies command line overrides.
func loadConfig(cmd *cobra.Command, f rootFlags) (*appcfg.Config, error) {
	cfg, err := appcfg.Load(f.config)
	if err != nil {
		return nil, fmt.Errorf("load app config: %w", err)
	}
	if rootChanged(cmd, "node") {
		cfg.NodeURL = strings.TrimSpace(f.node)
	}
	if rootChanged(cmd, "workers") {
		cfg.Cores = f.workers
	}
	if rootChanged(cmd, "lang") {
		cfg.Language = f.lang
	}
	return cfg, nil
}

// rootChanged reports whether the flag was set on the command line.
func rootChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	fl := cmd.Flags().Lookup(name)
	return fl != nil && fl.Changed
}

// reported is an error already shown to the operator.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// finish reports err and turns operator aborts into a clean exit.
func (a *App) finish(err error) error {
	err = a.report(err)
	switch {
	case err == nil,
		errors.Is(err, txspec.ErrStepBack),
		errors.Is(err, context.Canceled),
		errors.Is(err, ErrNoInput):
		return nil
	}
	return reported{err}
}

// Execute runs the command tree against os.Args and returns the process
// exit code.
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var r reported
	if !errors.As(err, &r) {
		fmt.Fprintln(os.Stderr, red("error: "+err.Error()))
	}
	return 1
}
