package store

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Snapshot payload codecs.
const (
	codecJSON = "json"
	codecZstd = "zstd+json"
)

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	encErr  error

	decOnce sync.Once
	decoder *zstd.Decoder
	decErr  error
)

// compress zstd-encodes b. The shared encoder is safe for concurrent
// EncodeAll calls.
func compress(b []byte) ([]byte, error) {
	encOnce.Do(func() {
		encoder, encErr = zstd.NewWriter(nil)
	})
	if encErr != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", encErr)
	}
	return encoder.EncodeAll(b, nil), nil
}

func decompress(b []byte) ([]byte, error) {
	decOnce.Do(func() {
		decoder, decErr = zstd.NewReader(nil)
	})
	if decErr != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", decErr)
	}
	out, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}

func encodePayload(b []byte, zstdOn bool) (string, []byte, error) {
	if !zstdOn {
		return codecJSON, b, nil
	}
	c, err := compress(b)
	return codecZstd, c, err
}

func decodePayload(codec string, b []byte) ([]byte, error) {
	switch codec {
	case codecJSON:
		return b, nil
	case codecZstd:
		return decompress(b)
	}
	return nil, fmt.Errorf("unknown codec %q", codec)
}
