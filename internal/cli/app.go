package cli

import (
	"context"
	"fmt"
	"sync"

	"LedgerTools/internal/ledger"
	"LedgerTools/pkg/appcfg"
	"LedgerTools/pkg/i18n"
	"LedgerTools/pkg/logx"
)

// App carries what every command needs: configuration, the operator
// console, the transaction codec and a lazily dialed ledger client.
type App struct {
	Cfg   *appcfg.Config
	Term  *Terminal
	Msg   i18n.Messages
	Codec ledger.Codec

	mu     sync.Mutex
	client *ledger.Client
}

func NewApp(cfg *appcfg.Config, t *Terminal) *App {
	return &App{
		Cfg:   cfg,
		Term:  t,
		Msg:   i18n.Get(cfg.Language),
		Codec: ledger.XRPLCodec{},
	}
}

// Client dials the configured node on first use.
func (a *App) Client(ctx context.Context) (*ledger.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	a.Term.Notify(faint(fmt.Sprintf("connecting to %s", a.Cfg.NodeURL)))
	c, err := ledger.Dial(ctx, ledger.Options{URL: a.Cfg.NodeURL, Timeout: a.Cfg.RPCTimeout})
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
		logx.S().Debugw("ledger client closed")
	}
}

// lazyQuerier connects only when autofill actually needs the ledger.
type lazyQuerier struct{ app *App }

func (q lazyQuerier) AccountSequence(ctx context.Context, account string) (uint32, error) {
	c, err := q.app.Client(ctx)
	if err != nil {
		return 0, err
	}
	return c.AccountSequence(ctx, account)
}

func (q lazyQuerier) OpenLedgerFee(ctx context.Context) (uint64, error) {
	c, err := q.app.Client(ctx)
	if err != nil {
		return 0, err
	}
	return c.OpenLedgerFee(ctx)
}
