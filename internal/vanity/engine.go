// Package vanity searches for seeds whose address matches a pattern.
package vanity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"LedgerTools/internal/crypto"
	"LedgerTools/pkg/logx"
)

var (
	ErrNoMatch        = errors.New("no matching address found")
	ErrNoFreeEntropy  = errors.New("entropy fills the whole seed; nothing left to search")
	ErrWorkersStopped = errors.New("all workers stopped")
)

// message is what a worker sends its coordinator: a running iteration
// count, and a result when one was found.
type message struct {
	count  uint64
	result *Result
}

// Search runs the worker pool until ctx is done or StopAfter results are
// in. It returns only after every worker has exited, with every result any
// worker produced.
func Search(ctx context.Context, opt Options) ([]Result, error) {
	m, err := Compile(opt.Pattern, opt.CaseSensitive)
	if err != nil {
		return nil, err
	}
	if len(opt.Entropy) >= crypto.SeedLength {
		return nil, ErrNoFreeEntropy
	}
	applyDefaults(&opt)

	log := logx.S().With("module", "vanity")
	log.Infow("search started",
		"pattern", m.String(),
		"workers", opt.Workers,
		"algorithm", opt.Algorithm,
		"fixed_entropy_bytes", len(opt.Entropy),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	chans := make([]chan message, opt.Workers)
	var failed atomic.Bool
	var wg sync.WaitGroup
	wg.Add(opt.Workers)
	for i := range chans {
		chans[i] = make(chan message, 16)
		go func(id int, out chan<- message) {
			defer wg.Done()
			defer close(out)
			if err := work(ctx, id, m, opt, out); err != nil {
				failed.Store(true)
				logx.S().Errorw("worker stopped", "worker", id, "err", err)
			}
			if opt.onWorkerExit != nil {
				opt.onWorkerExit(id)
			}
		}(i, chans[i])
	}

	c := &coordinator{
		counts: make([]uint64, opt.Workers),
		open:   make([]bool, opt.Workers),
		opt:    opt,
	}
	for i := range c.open {
		c.open[i] = true
	}

	ticker := time.NewTicker(opt.PollInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
		for i, ch := range chans {
			c.drain(i, ch)
		}
		c.report(start)
		if opt.StopAfter > 0 && len(c.results) >= opt.StopAfter {
			break loop
		}
		if c.alive() == 0 {
			break loop
		}
	}

	cancel()
	for i, ch := range chans {
		for msg := range ch {
			c.handle(i, msg)
		}
		c.open[i] = false
	}
	wg.Wait()
	c.report(start)

	log.Infow("search stopped",
		"attempts", c.total(),
		"found", len(c.results),
		"elapsed", HumanDuration(time.Since(start)),
	)

	if len(c.results) == 0 {
		if failed.Load() {
			return nil, ErrWorkersStopped
		}
		return nil, ErrNoMatch
	}
	return c.results, nil
}

func applyDefaults(opt *Options) {
	if opt.Workers <= 0 {
		opt.Workers = runtime.NumCPU()
	}
	if opt.Algorithm == "" {
		opt.Algorithm = crypto.Ed25519
	}
	if opt.PollInterval <= 0 {
		opt.PollInterval = DefaultPollInterval
	}
	if opt.ReportEvery == 0 {
		opt.ReportEvery = DefaultReportEvery
	}
}

type coordinator struct {
	counts  []uint64
	open    []bool
	results []Result
	opt     Options
}

// drain takes whatever a worker has queued without blocking.
func (c *coordinator) drain(i int, ch <-chan message) {
	for c.open[i] {
		select {
		case msg, ok := <-ch:
			if !ok {
				c.open[i] = false
				return
			}
			c.handle(i, msg)
		default:
			return
		}
	}
}

func (c *coordinator) handle(i int, msg message) {
	if msg.count > c.counts[i] {
		c.counts[i] = msg.count
	}
	if msg.result == nil {
		return
	}
	c.results = append(c.results, *msg.result)
	logx.S().Infow("FOUND",
		"address", msg.result.Address,
		"worker", i,
		"attempt", msg.result.Attempt,
	)
	if c.opt.OnFound != nil {
		c.opt.OnFound(*msg.result)
	}
}

func (c *coordinator) total() uint64 {
	var n uint64
	for _, v := range c.counts {
		n += v
	}
	return n
}

func (c *coordinator) alive() int {
	n := 0
	for _, o := range c.open {
		if o {
			n++
		}
	}
	return n
}

func (c *coordinator) report(start time.Time) {
	if c.opt.OnProgress == nil {
		return
	}
	c.opt.OnProgress(Progress{Total: c.total(), Found: len(c.results), Elapsed: time.Since(start)})
}

func work(ctx context.Context, id int, m *Matcher, opt Options, out chan<- message) error {
	var r io.Reader
	if opt.NewReader != nil {
		r = opt.NewReader(id)
	}
	var n uint64
	for ctx.Err() == nil {
		seed, err := crypto.GenerateSeed(opt.Entropy, r)
		if err != nil {
			return err
		}
		kp, err := crypto.DeriveKeypair(seed, opt.Algorithm)
		if err != nil {
			return err
		}
		n++
		addr := kp.Address()

		if m.Match(addr) {
			fs, err := crypto.EncodeSeed(seed, opt.Algorithm)
			if err != nil {
				return err
			}
			// results are never dropped; the coordinator drains until close
			out <- message{count: n, result: &Result{
				Seed:       seed,
				Algorithm:  opt.Algorithm,
				FamilySeed: fs,
				Address:    addr,
				Worker:     id,
				Attempt:    n,
			}}
			continue
		}

		if n%opt.ReportEvery == 0 {
			select {
			case out <- message{count: n}:
			default:
			}
		}
	}
	return nil
}

// HumanDuration renders d as 12s, 3m05s or 1h02m03s.
func HumanDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
