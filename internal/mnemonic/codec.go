// Package mnemonic turns short binary payloads into word sequences that can
// be copied by hand, and imports BIP-39 phrases.
//
// Frame layout (word list version 1): checksum byte, body, then a single 1
// bit followed by zero bits up to the next 11-bit boundary. Each 11-bit group
// indexes the 2048-word BIP-39 English list.
package mnemonic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// WordListVersion identifies the dictionary and bit grouping below.
// Phrases recorded under one version do not decode under another.
const WordListVersion = 1

const bitsPerWord = 11

var (
	ErrBadChecksum = errors.New("bad checksum")
	ErrUnknownWord = errors.New("unknown word")
	ErrBadPadding  = errors.New("malformed mnemonic length or padding")
)

var (
	dictionary = wordlists.English
	wordIndex  = make(map[string]int, len(wordlists.English))
)

func init() {
	if len(dictionary) != 1<<bitsPerWord {
		panic(fmt.Sprintf("mnemonic: dictionary has %d words", len(dictionary)))
	}
	for i, w := range dictionary {
		wordIndex[w] = i
	}
}

// Checksum is the byte sum of body mod 256.
func Checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	return sum
}

// WordCount is the number of words Encode emits for a body of n bytes.
func WordCount(n int) int {
	return (8*(n+1) + bitsPerWord) / bitsPerWord
}

// Encode renders body as space-separated words.
func Encode(body []byte) string {
	return strings.Join(EncodeWords(body), " ")
}

func EncodeWords(body []byte) []string {
	frame := make([]byte, 0, len(body)+1)
	frame = append(frame, Checksum(body))
	frame = append(frame, body...)

	var bw bitWriter
	for _, b := range frame {
		bw.write(uint32(b), 8)
	}
	bw.write(1, 1)
	for bw.n%bitsPerWord != 0 {
		bw.write(0, 1)
	}

	words := make([]string, 0, bw.n/bitsPerWord)
	for i := 0; i < bw.n; i += bitsPerWord {
		words = append(words, dictionary[bw.read(i, bitsPerWord)])
	}
	return words
}

// Decode parses a phrase produced by Encode and verifies its checksum.
func Decode(phrase string) ([]byte, error) {
	return DecodeWords(strings.Fields(phrase))
}

func DecodeWords(words []string) ([]byte, error) {
	if len(words) == 0 {
		return nil, ErrBadPadding
	}
	var bw bitWriter
	for i, w := range words {
		idx, ok := wordIndex[strings.ToLower(strings.TrimSpace(w))]
		if !ok {
			return nil, fmt.Errorf("%w %q at position %d", ErrUnknownWord, w, i+1)
		}
		bw.write(uint32(idx), bitsPerWord)
	}

	last := -1
	for i := bw.n - 1; i >= 0; i-- {
		if bw.read(i, 1) == 1 {
			last = i
			break
		}
	}
	if last < 8 || last%8 != 0 || bw.n-last > bitsPerWord {
		return nil, ErrBadPadding
	}

	frame := bw.buf[:last/8]
	body := make([]byte, len(frame)-1)
	copy(body, frame[1:])
	if Checksum(body) != frame[0] {
		return nil, ErrBadChecksum
	}
	return body, nil
}

type bitWriter struct {
	buf []byte
	n   int
}

func (w *bitWriter) write(v uint32, bits int) {
	for i := bits - 1; i >= 0; i-- {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.buf[w.n/8] |= 0x80 >> uint(w.n%8)
		}
		w.n++
	}
}

func (w *bitWriter) read(off, bits int) int {
	v := 0
	for i := 0; i < bits; i++ {
		p := off + i
		v = v<<1 | int(w.buf[p/8]>>uint(7-p%8)&1)
	}
	return v
}
