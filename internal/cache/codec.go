package cache

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/klauspost/compress/zstd"
)

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil)
		if codecErr != nil {
			codecErr = fmt.Errorf("creating zstd encoder: %w", codecErr)
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
		if codecErr != nil {
			codecErr = fmt.Errorf("creating zstd decoder: %w", codecErr)
		}
	})
	return encoder, decoder, codecErr
}

// Encode serialises v as zstd-compressed JSON.
func Encode(v *domain.Verdict) ([]byte, error) {
	enc, _, err := codec()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verdict: %w", err)
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decode reverses Encode.
func Decode(payload []byte) (*domain.Verdict, error) {
	_, dec, err := codec()
	if err != nil {
		return nil, err
	}
	data, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing verdict: %w", err)
	}
	var v domain.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return &v, nil
}
