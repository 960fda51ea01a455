package codec

import (
	"encoding/ascii85"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// MaxVoters bounds the voters a state may hold across all options. It is
// above the 200,000 member limit of a Telegram supergroup. Serialize and
// Deserialize enforce the same bound so every written state reads back.
const MaxVoters = 1 << 18

// maxDecodedSize bounds decompressed state: MaxVoters int64 values at 9
// bytes each plus array headers fit with room to spare.
const maxDecodedSize = 4 << 20

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error

	opts := cbor.CoreDetEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	encMode, err = opts.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: MaxVoters,
		MaxNestedLevels:  4,
	}.DecMode()
	if err != nil {
		panic(err)
	}

	encoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(false),
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic(err)
	}

	decoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodedSize),
	)
	if err != nil {
		panic(err)
	}
}

// Serialize encodes voter sets as canonical CBOR, compresses them with zstd
// and returns the Ascii85 text. Equal input always yields equal output.
func Serialize(sets [][]int64) (string, error) {
	total := 0
	for _, set := range sets {
		total += len(set)
	}
	if total > MaxVoters {
		return "", fmt.Errorf("%w: %d voters, limit %d", ErrStateTooLarge, total, MaxVoters)
	}

	raw, err := encMode.Marshal(sets)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}

	compressed := encoder.EncodeAll(raw, nil)

	text := make([]byte, ascii85.MaxEncodedLen(len(compressed)))
	n := ascii85.Encode(text, compressed)
	return string(text[:n]), nil
}

// Deserialize reverses Serialize. Every failure wraps ErrCorruptPayload.
func Deserialize(payload string) ([][]int64, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptPayload)
	}

	// 'z' expands a single character into four bytes, so 4x is the upper bound.
	compressed := make([]byte, 4*len(payload))
	ndst, nsrc, err := ascii85.Decode(compressed, []byte(payload), true)
	if err != nil {
		return nil, fmt.Errorf("%w: ascii85: %v", ErrCorruptPayload, err)
	}
	if nsrc != len(payload) {
		return nil, fmt.Errorf("%w: ascii85: trailing data", ErrCorruptPayload)
	}

	raw, err := decoder.DecodeAll(compressed[:ndst], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCorruptPayload, err)
	}

	var sets [][]int64
	if err := decMode.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("%w: cbor: %v", ErrCorruptPayload, err)
	}
	total := 0
	for _, set := range sets {
		total += len(set)
	}
	if total > MaxVoters {
		return nil, fmt.Errorf("%w: %d voters, limit %d", ErrCorruptPayload, total, MaxVoters)
	}
	for i := range sets {
		if sets[i] == nil {
			sets[i] = []int64{}
		}
	}
	return sets, nil
}
