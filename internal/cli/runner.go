package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"LedgerTools/internal/txspec"
	"LedgerTools/pkg/logx"
)

// Runner is the interactive start menu.
type Runner struct {
	app *App
}

func NewRunner(app *App) *Runner {
	return &Runner{app: app}
}

func (r *Runner) Run(ctx context.Context) {
	t, m := r.app.Term, r.app.Msg
	for {
		fmt.Fprintln(t.out)
		fmt.Fprintln(t.out, bold(m.AppTitle))
		for _, item := range []string{
			m.MenuCreateTx, m.MenuSign, m.MenuSubmit, m.MenuCreate, m.MenuVerify,
			m.MenuLookupAcct, m.MenuLookupObj, m.MenuEncrypt, m.MenuDecrypt, m.MenuPatterns, m.MenuExit,
		} {
			fmt.Fprintln(t.out, item)
		}
		choice, err := t.Ask(ctx, m.MenuTitle, "")
		if err != nil {
			return
		}

		var action func(context.Context) error
		switch choice {
		case "1":
			action = func(ctx context.Context) error { return r.app.CreateTx(ctx, "") }
		case "2":
			action = r.app.Sign
		case "3":
			action = r.app.Submit
		case "4":
			action = func(ctx context.Context) error { return r.app.CreateWallet(ctx, "", true) }
		case "5":
			action = r.app.VerifyWallet
		case "6":
			action = func(ctx context.Context) error { return r.app.LookupAccount(ctx, "") }
		case "7":
			action = func(ctx context.Context) error { return r.app.LookupObject(ctx, "") }
		case "8":
			action = r.app.EncryptSeeds
		case "9":
			action = r.app.DecryptSeeds
		case "10":
			action = func(context.Context) error { return r.app.ShowPatterns() }
		case "0", "":
			logx.S().Debugw(m.ExitSelected)
			fmt.Fprintln(t.out, m.ExitText)
			return
		default:
			fmt.Fprintln(t.out, m.UnknownCommand, choice)
			continue
		}

		if err := r.app.report(action(ctx)); errors.Is(err, ErrNoInput) {
			return
		}
	}
}

// report prints the outcome of an action and passes err through.
func (a *App) report(err error) error {
	switch {
	case err == nil:
	case errors.Is(err, txspec.ErrStepBack), errors.Is(err, context.Canceled):
		a.Term.Notify("\n" + a.Msg.Aborted)
	case errors.Is(err, ErrNoInput):
	default:
		logx.S().Errorw("command failed", "err", err)
		a.Term.Notify(red(err.Error()))
	}
	return err
}

func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
