package logsink

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteLine appends payload to <dir>/<name>. Strings are written as is,
// anything else as one line of JSON.
func WriteLine(dir, name string, payload any) error {
	f, err := OpenAppend(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	switch v := payload.(type) {
	case string:
		_, err = f.WriteString(v + "\n")
	default:
		var b []byte
		b, err = json.Marshal(payload)
		if err != nil {
			return err
		}
		_, err = f.Write(append(b, '\n'))
	}
	return err
}

// WriteHint stores the operator's passphrase hint next to a run's output.
func WriteHint(dir, hint string) error {
	if hint == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, "hint.txt"), []byte(hint), 0o600)
}
