package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"math"

	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// Save writes a TensorMap in .labt format. The header, the data section
// and the trailing SHA-256 checksum are all produced in one pass.
func Save(w io.Writer, tm *tensormap.TensorMap) error {
	hdr, buffers := buildHeader(tm)

	headerJSON, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(headerJSON))
	}

	// Everything written before the trailing checksum goes through the
	// hash as well.
	digest := sha256.New()
	out := io.MultiWriter(w, digest)

	if _, err := io.WriteString(out, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := out.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	position := int64(4+4+8) + int64(len(headerJSON))
	padding := (DataAlignment - (position % DataAlignment)) % DataAlignment
	if padding > 0 {
		if _, err := out.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	for _, buffer := range buffers {
		if err := writeFloat64s(out, buffer); err != nil {
			return fmt.Errorf("failed to write values: %w", err)
		}
	}

	return writeChecksum(w, digest)
}

// buildHeader lays out every value buffer in the data section, in block
// order with each block's gradients following its values.
func buildHeader(tm *tensormap.TensorMap) (header, [][]float64) {
	hdr := header{
		FormatVersion: FormatVersion,
		Keys:          labelsToMeta(tm.Keys()),
	}

	var buffers [][]float64
	var offset int64
	place := func(values *tensormap.Array) arrayMeta {
		meta := arrayMeta{Shape: values.Shape(), Offset: offset}
		buffers = append(buffers, values.Data())
		offset += int64(8 * len(values.Data()))
		return meta
	}

	for _, block := range tm.Blocks() {
		meta := blockMeta{
			Samples:    labelsToMeta(block.Samples()),
			Properties: labelsToMeta(block.Properties()),
			Values:     place(block.Values()),
		}
		for _, component := range block.Components() {
			meta.Components = append(meta.Components, labelsToMeta(component))
		}
		for _, origin := range block.GradientOrigins() {
			gradient, _ := block.Gradient(origin)
			gradMeta := gradientMeta{
				Origin:  origin,
				Samples: labelsToMeta(gradient.Samples()),
				Values:  place(gradient.Values()),
			}
			for _, component := range gradient.Components() {
				gradMeta.Components = append(gradMeta.Components, labelsToMeta(component))
			}
			meta.Gradients = append(meta.Gradients, gradMeta)
		}
		hdr.Blocks = append(hdr.Blocks, meta)
	}
	return hdr, buffers
}

func writeFloat64s(w io.Writer, values []float64) error {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func writeChecksum(w io.Writer, digest hash.Hash) error {
	if _, err := w.Write(digest.Sum(nil)); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	return nil
}
