// Package ledger talks to a ledger node over JSON-RPC and adapts the binary
// transaction codec and signing to the rest of the tool.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Peersyst/xrpl-go/xrpl/queries/account"
	"github.com/Peersyst/xrpl-go/xrpl/queries/common"
	"github.com/Peersyst/xrpl-go/xrpl/queries/server"
	"github.com/Peersyst/xrpl-go/xrpl/queries/transactions"
	"github.com/Peersyst/xrpl-go/xrpl/queries/version"
	"github.com/Peersyst/xrpl-go/xrpl/rpc"
	"github.com/Peersyst/xrpl-go/xrpl/transaction/types"

	"LedgerTools/pkg/logx"
)

type Options struct {
	URL     string
	Timeout time.Duration
	Retry   RetryConfig
}

// Client is an owned connection handle. Dial it, pass it where ledger
// state is needed, and Close it when done.
type Client struct {
	hc    *http.Client
	rpc   *rpc.Client
	retry RetryConfig
	err   error

	mu     sync.Mutex
	closed bool
}

// Dial builds a client and pings the node with server_info.
func Dial(ctx context.Context, opt Options) (*Client, error) {
	c := New(opt)
	if _, err := c.ServerInfo(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("connect %s: %w", opt.URL, err)
	}
	logx.S().Infow("connected to ledger node", "url", opt.URL)
	return c, nil
}

// New builds a client without contacting the node.
func New(opt Options) *Client {
	to := opt.Timeout
	if to == 0 {
		to = 15 * time.Second
	}
	retry := opt.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}
	c := &Client{
		hc:    &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		retry: retry,
	}
	cfg, err := rpc.NewClientConfig(opt.URL, rpc.WithHTTPClient(c.hc), rpc.WithTimeout(to))
	if err != nil {
		c.err = fmt.Errorf("node url: %w", err)
		return c
	}
	c.rpc = rpc.NewClient(cfg)
	return c
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.hc.CloseIdleConnections()
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Call sends one request and decodes its result into out.
func (c *Client) Call(ctx context.Context, req rpc.XRPLRequest, out any) error {
	if c.isClosed() {
		return ErrClosed
	}
	if c.err != nil {
		return c.err
	}
	method := req.Method()
	res, err := withRetry(ctx, c.retry, method, func() (rpc.XRPLResponse, error) {
		return c.request(ctx, req)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := res.GetResult(out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

type reply struct {
	res rpc.XRPLResponse
	err error
}

// request runs one round trip. The rpc client has no context parameter,
// so a cancelled ctx returns at once and the round trip ends on its timeout.
func (c *Client) request(ctx context.Context, req rpc.XRPLRequest) (rpc.XRPLResponse, error) {
	done := make(chan reply, 1)
	go func() {
		res, err := c.rpc.Request(req)
		done <- reply{res, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, classify(req.Method(), r.err)
		}
		if r.res == nil {
			return nil, fmt.Errorf("%w: empty response", ErrNetwork)
		}
		return r.res, nil
	}
}

// classify separates node error results from transport failures. The rpc
// client reports both non-200 statuses and error results as ClientError.
func classify(method string, err error) error {
	var ce *rpc.ClientError
	if !errors.As(err, &ce) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if isCode(ce.ErrorString) {
		return &RPCError{Command: method, Code: ce.ErrorString}
	}
	return fmt.Errorf("%w: %s", ErrNetwork, strings.TrimSpace(ce.ErrorString))
}

// isCode reports whether s looks like a node error token such as actNotFound.
func isCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

type ServerInfo struct {
	BuildVersion    string `json:"build_version"`
	ServerState     string `json:"server_state"`
	CompleteLedgers string `json:"complete_ledgers"`
	NetworkID       int    `json:"network_id"`
}

func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var out struct {
		Info ServerInfo `json:"info"`
	}
	if err := c.Call(ctx, &server.InfoRequest{}, &out); err != nil {
		return nil, err
	}
	return &out.Info, nil
}

// AccountData is the account root as returned by account_info.
type AccountData struct {
	Account    string `json:"Account"`
	Balance    string `json:"Balance"`
	Flags      uint32 `json:"Flags"`
	OwnerCount uint32 `json:"OwnerCount"`
	Sequence   uint32 `json:"Sequence"`
	Domain     string `json:"Domain,omitempty"`
	RegularKey string `json:"RegularKey,omitempty"`
}

type AccountInfo struct {
	AccountData AccountData `json:"account_data"`
	LedgerIndex uint64      `json:"ledger_current_index,omitempty"`
	Validated   bool        `json:"validated"`
}

func (c *Client) AccountInfo(ctx context.Context, addr string) (*AccountInfo, error) {
	var out AccountInfo
	err := c.Call(ctx, &account.InfoRequest{
		Account:     types.Address(addr),
		LedgerIndex: common.Current,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountSequence returns the next sequence number for account.
func (c *Client) AccountSequence(ctx context.Context, addr string) (uint32, error) {
	info, err := c.AccountInfo(ctx, addr)
	if err != nil {
		return 0, err
	}
	return info.AccountData.Sequence, nil
}

// OpenLedgerFee returns the fee in drops needed to get into the open ledger.
func (c *Client) OpenLedgerFee(ctx context.Context) (uint64, error) {
	var out struct {
		Drops struct {
			OpenLedgerFee string `json:"open_ledger_fee"`
		} `json:"drops"`
	}
	if err := c.Call(ctx, &server.FeeRequest{}, &out); err != nil {
		return 0, err
	}
	fee, err := strconv.ParseUint(out.Drops.OpenLedgerFee, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("fee: bad open_ledger_fee %q", out.Drops.OpenLedgerFee)
	}
	return fee, nil
}

// AccountObjects lists ledger objects owned by account.
func (c *Client) AccountObjects(ctx context.Context, addr string) ([]map[string]any, error) {
	var out struct {
		AccountObjects []map[string]any `json:"account_objects"`
	}
	err := c.Call(ctx, &account.ObjectsRequest{
		Account:     types.Address(addr),
		LedgerIndex: common.Validated,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.AccountObjects, nil
}

// entryRequest is ledger_entry by object index, which the rpc package
// does not model.
type entryRequest struct {
	common.BaseRequest
	Index       string                 `json:"index"`
	LedgerIndex common.LedgerSpecifier `json:"ledger_index,omitempty"`
}

func (*entryRequest) Method() string { return "ledger_entry" }

func (*entryRequest) APIVersion() int { return version.RippledAPIV2 }

func (r *entryRequest) Validate() error {
	if r.Index == "" {
		return errors.New("ledger_entry: empty index")
	}
	return nil
}

// LedgerEntry fetches a ledger object by its 64-hex index.
func (c *Client) LedgerEntry(ctx context.Context, index string) (map[string]any, error) {
	var out struct {
		Node map[string]any `json:"node"`
	}
	err := c.Call(ctx, &entryRequest{Index: index, LedgerIndex: common.Validated}, &out)
	if err != nil {
		return nil, err
	}
	return out.Node, nil
}

type SubmitResult struct {
	EngineResult        string         `json:"engine_result"`
	EngineResultCode    int            `json:"engine_result_code"`
	EngineResultMessage string         `json:"engine_result_message"`
	Accepted            bool           `json:"accepted"`
	Applied             bool           `json:"applied"`
	Broadcast           bool           `json:"broadcast"`
	Kept                bool           `json:"kept"`
	Queued              bool           `json:"queued"`
	TxJSON              map[string]any `json:"tx_json"`
}

// Hash is the transaction hash reported by the node, if any.
func (r *SubmitResult) Hash() string {
	h, _ := r.TxJSON["hash"].(string)
	return h
}

// Pending reports whether the node kept, queued or broadcast the transaction.
func (r *SubmitResult) Pending() bool { return r.Kept || r.Queued || r.Broadcast }

// Submit sends a signed transaction blob.
func (c *Client) Submit(ctx context.Context, blob string) (*SubmitResult, error) {
	var out SubmitResult
	if err := c.Call(ctx, &transactions.SubmitRequest{TxBlob: blob}, &out); err != nil {
		return nil, err
	}
	logx.S().Infow("submitted", "engine_result", out.EngineResult, "hash", out.Hash())
	return &out, nil
}
