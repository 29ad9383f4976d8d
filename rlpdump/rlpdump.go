// Package rlpdump renders RLP-encoded batch data in a readable form.
package rlpdump

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// ErrTrailingData is returned by Decode when bytes follow the item.
var ErrTrailingData = errors.New("rlpdump: trailing data after item")

// Item is one top-level RLP value in a stream.
type Item struct {
	// Index is the item's position in the stream.
	Index int

	// Raw is the item's complete encoding, header included.
	Raw []byte
}

// Iterate splits raw into its top-level RLP items. If limit is positive, at
// most limit items are returned. Items decoded before an error are returned
// with it.
func Iterate(raw []byte, limit int) ([]Item, error) {
	s := rlp.NewStream(bytes.NewReader(raw), 0)

	var items []Item
	for limit <= 0 || len(items) < limit {
		if _, _, err := s.Kind(); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return items, fmt.Errorf("rlpdump: item %d: %w", len(items), err)
		}
		b, err := s.Raw()
		if err != nil {
			return items, fmt.Errorf("rlpdump: item %d: %w", len(items), err)
		}
		items = append(items, Item{Index: len(items), Raw: b})
	}
	return items, nil
}

// Decode converts one RLP item into plain values. Lists become []any,
// strings of up to 7 bytes become uint64, and longer strings become
// 0x-prefixed hex. item must hold exactly one value.
func Decode(item []byte) (any, error) {
	s := rlp.NewStream(bytes.NewReader(item), 0)
	v, err := readValue(s)
	if err != nil {
		return nil, fmt.Errorf("rlpdump: %w", err)
	}
	if _, _, err := s.Kind(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTrailingData, err)
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

// DecodeJSON is Decode rendered as indented JSON.
func DecodeJSON(item []byte) ([]byte, error) {
	v, err := Decode(item)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

func readValue(s *rlp.Stream) (any, error) {
	kind, _, err := s.Kind()
	if err != nil {
		return nil, err
	}

	if kind == rlp.List {
		if _, err := s.List(); err != nil {
			return nil, err
		}
		items := []any{}
		for {
			v, err := readValue(s)
			if errors.Is(err, rlp.EOL) {
				break
			}
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, s.ListEnd()
	}

	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) < 8 {
		var n uint64
		for _, c := range b {
			n = n<<8 | uint64(c)
		}
		return n, nil
	}
	return "0x" + hex.EncodeToString(b), nil
}
