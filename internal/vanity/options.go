package vanity

import (
	"io"
	"time"

	"LedgerTools/internal/crypto"
)

const (
	DefaultPollInterval = 25 * time.Millisecond
	DefaultReportEvery  = 15
)

type Options struct {
	Pattern       string
	CaseSensitive bool
	Algorithm     crypto.Algorithm // default ed25519

	Workers int // 0 = runtime.NumCPU()

	// Entropy is the operator's text; at most 15 bytes are fixed and the
	// rest of every candidate seed comes from the worker's reader.
	Entropy []byte
	// NewReader gives each worker its own entropy stream. Nil means crypto/rand.
	NewReader func(worker int) io.Reader

	// StopAfter ends the search once this many results are in. 0 runs until ctx is done.
	StopAfter int

	PollInterval time.Duration
	ReportEvery  uint64

	OnProgress func(Progress)
	OnFound    func(Result)

	onWorkerExit func(worker int)
}

// Result is a matching seed and its address.
type Result struct {
	Seed       []byte
	Algorithm  crypto.Algorithm
	FamilySeed string
	Address    string
	Worker     int
	Attempt    uint64
}

// Progress is the aggregate iteration count across all workers.
type Progress struct {
	Total   uint64
	Found   int
	Elapsed time.Duration
}

func (p Progress) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Total) / p.Elapsed.Seconds()
}
