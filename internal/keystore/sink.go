// Package keystore appends and reads protected seed records as JSON lines.
package keystore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record is one protected wallet. EncryptedSeed and Mnemonic both hold
// the passphrase-protected seed; Address is what the plain seed derives.
type Record struct {
	Address       string `json:"address"`
	Algorithm     string `json:"algorithm"`
	EncryptedSeed string `json:"encrypted_seed"`
	Mnemonic      string `json:"mnemonic"`
}

func AppendJSONL(path string, jsonBlob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(jsonBlob); err != nil {
		return err
	}
	_, err = f.Write([]byte("\n"))
	return err
}

func AppendRecord(path string, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return AppendJSONL(path, b)
}

// ReadRecords calls fn for every non-empty line of a JSONL file. A line
// that does not parse is passed to fn with its error and the scan goes on.
func ReadRecords(path string, fn func(line int, rec Record, err error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			fn(n, Record{}, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		fn(n, rec, nil)
	}
	return sc.Err()
}
