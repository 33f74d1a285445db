package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// Load reads a TensorMap in .labt format, validating the magic bytes,
// format version and trailing SHA-256 checksum.
func Load(r io.Reader) (*tensormap.TensorMap, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if len(raw) < 4+4+8+ChecksumSize {
		return nil, ErrTruncated
	}

	payload := raw[:len(raw)-ChecksumSize]
	stored := raw[len(raw)-ChecksumSize:]
	computed := sha256.Sum256(payload)
	if [ChecksumSize]byte(stored) != computed {
		return nil, ErrChecksumMismatch
	}

	if string(payload[:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, payload[:4])
	}
	version := binary.LittleEndian.Uint32(payload[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	headerSize := binary.LittleEndian.Uint64(payload[8:16])
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	if uint64(len(payload)) < 16+headerSize {
		return nil, ErrTruncated
	}

	var hdr header
	if err := json.Unmarshal(payload[16:16+headerSize], &hdr); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}

	position := int64(16) + int64(headerSize)
	padding := (DataAlignment - (position % DataAlignment)) % DataAlignment
	dataStart := position + padding
	if dataStart > int64(len(payload)) {
		return nil, ErrTruncated
	}
	data := payload[dataStart:]

	keys, err := metaToLabels(hdr.Keys)
	if err != nil {
		return nil, err
	}

	blocks := make([]*tensormap.TensorBlock, 0, len(hdr.Blocks))
	for _, meta := range hdr.Blocks {
		block, err := readBlock(meta, data)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return tensormap.New(keys, blocks)
}

func readBlock(meta blockMeta, data []byte) (*tensormap.TensorBlock, error) {
	samples, err := metaToLabels(meta.Samples)
	if err != nil {
		return nil, err
	}
	properties, err := metaToLabels(meta.Properties)
	if err != nil {
		return nil, err
	}
	components, err := metaListToLabels(meta.Components)
	if err != nil {
		return nil, err
	}
	values, err := readArray(meta.Values, data)
	if err != nil {
		return nil, err
	}

	block, err := tensormap.NewBlock(values, samples, components, properties)
	if err != nil {
		return nil, err
	}

	for _, gradMeta := range meta.Gradients {
		gradSamples, err := metaToLabels(gradMeta.Samples)
		if err != nil {
			return nil, err
		}
		gradComponents, err := metaListToLabels(gradMeta.Components)
		if err != nil {
			return nil, err
		}
		gradValues, err := readArray(gradMeta.Values, data)
		if err != nil {
			return nil, err
		}
		gradient, err := tensormap.NewGradient(gradValues, gradSamples, gradComponents, properties)
		if err != nil {
			return nil, err
		}
		if err := block.AddGradient(gradMeta.Origin, gradient); err != nil {
			return nil, err
		}
	}
	return block, nil
}

func readArray(meta arrayMeta, data []byte) (*tensormap.Array, error) {
	shape := tensormap.Shape(meta.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	// The element count comes from an untrusted header: multiply with an
	// overflow guard instead of trusting Shape.NumElements, so a crafted
	// shape cannot wrap negative and slip past the bounds check.
	count := 1
	for _, dim := range shape {
		if dim != 0 && count > math.MaxInt/8/dim {
			return nil, fmt.Errorf("%w: shape %v element count overflows", ErrOutOfBounds, shape)
		}
		count *= dim
	}
	end := meta.Offset + int64(8*count)
	if meta.Offset < 0 || end > int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d, size %d", ErrOutOfBounds, meta.Offset, 8*count)
	}

	values := make([]float64, count)
	for i := range values {
		bits := binary.LittleEndian.Uint64(data[meta.Offset+int64(8*i):])
		values[i] = math.Float64frombits(bits)
	}
	return tensormap.NewArrayFrom(shape, values)
}

func metaListToLabels(metas []labelsMeta) ([]labels.Labels, error) {
	out := make([]labels.Labels, len(metas))
	for i, meta := range metas {
		l, err := metaToLabels(meta)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}
