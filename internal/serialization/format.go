// Package serialization implements the .labt on-disk format for
// TensorMaps:
//
//	magic "LABT" | version uint32 | header size uint64 | JSON header |
//	padding to 64 bytes | float64 data section | SHA-256 checksum
//
// The JSON header records keys and every block's sample/component/
// property Labels verbatim, preserving column names and entry order
// exactly, so a round-trip reproduces an equal TensorMap.
package serialization

import (
	"github.com/labtensor-ml/labtensor/internal/labels"
)

// Format constants.
const (
	MagicBytes    = "LABT"
	FormatVersion = 1
	DataAlignment = 64 // Align the data section for mmap-friendly access.
	ChecksumSize  = 32 // SHA-256
	MaxHeaderSize = 100_000_000
)

// header is the JSON header of a .labt file.
type header struct {
	FormatVersion int         `json:"format_version"`
	Keys          labelsMeta  `json:"keys"`
	Blocks        []blockMeta `json:"blocks"`
}

// labelsMeta is the serialized form of a Labels set.
type labelsMeta struct {
	Names   []string  `json:"names"`
	Entries [][]int32 `json:"entries"`
}

// arrayMeta locates one value buffer inside the data section.
type arrayMeta struct {
	Shape  []int `json:"shape"`
	Offset int64 `json:"offset"` // bytes from the start of the data section
}

// blockMeta describes one TensorBlock.
type blockMeta struct {
	Samples    labelsMeta     `json:"samples"`
	Components []labelsMeta   `json:"components"`
	Properties labelsMeta     `json:"properties"`
	Values     arrayMeta      `json:"values"`
	Gradients  []gradientMeta `json:"gradients,omitempty"`
}

// gradientMeta describes one Gradient. Properties are not repeated:
// they are identical to the parent block's by construction.
type gradientMeta struct {
	Origin     string       `json:"origin"`
	Samples    labelsMeta   `json:"samples"`
	Components []labelsMeta `json:"components"`
	Values     arrayMeta    `json:"values"`
}

func labelsToMeta(l labels.Labels) labelsMeta {
	meta := labelsMeta{
		Names:   l.Names(),
		Entries: make([][]int32, l.Count()),
	}
	for i := 0; i < l.Count(); i++ {
		meta.Entries[i] = l.Entry(i)
	}
	return meta
}

func metaToLabels(meta labelsMeta) (labels.Labels, error) {
	entries := make([]labels.Entry, len(meta.Entries))
	for i, entry := range meta.Entries {
		entries[i] = entry
	}
	return labels.New(meta.Names, entries)
}
