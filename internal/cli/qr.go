package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const MaxQRParts = 4

// SplitBlob cuts blob into parts chunks of equal length, the last one
// possibly shorter.
func SplitBlob(blob string, parts int) []string {
	if parts < 1 {
		parts = 1
	}
	size := (len(blob) + parts - 1) / parts
	if size == 0 {
		return []string{blob}
	}
	var out []string
	for off := 0; off < len(blob); off += size {
		end := off + size
		if end > len(blob) {
			end = len(blob)
		}
		out = append(out, blob[off:end])
	}
	return out
}

// RenderQR draws content as a QR code with half-block characters, two
// modules per text row.
func RenderQR(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", err
	}
	bm := q.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bm); y += 2 {
		for x := range bm[y] {
			top := bm[y][x]
			bottom := y+1 < len(bm) && bm[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// PrintQR asks how many codes to split blob into and prints them one by
// one, waiting for enter between parts.
func PrintQR(ctx context.Context, t *Terminal, blob string) error {
	var parts int
	_, err := t.AskValid(ctx, "split into multiple QR codes", fmt.Sprintf("1-%d", MaxQRParts), func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxQRParts {
			return errors.New("must be between 1 and 4 parts")
		}
		parts = n
		return nil
	})
	if err != nil {
		return err
	}

	chunks := SplitBlob(blob, parts)
	for i, c := range chunks {
		art, err := RenderQR(c)
		if err != nil {
			return fmt.Errorf("qr part %d: %w", i+1, err)
		}
		fmt.Fprint(t.out, art)
		if i == len(chunks)-1 {
			fmt.Fprintf(t.out, "part %d of %d\n", i+1, len(chunks))
			break
		}
		if _, err := t.Ask(ctx, fmt.Sprintf("part %d of %d - press enter for next", i+1, len(chunks)), ""); err != nil {
			return err
		}
	}
	return nil
}
