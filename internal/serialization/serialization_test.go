package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

func sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func testTensorMap(t *testing.T) *tensormap.TensorMap {
	t.Helper()

	properties := labels.MustNew([]string{"n"}, []labels.Entry{{0}, {1}})

	values, err := tensormap.NewArrayFrom(tensormap.Shape{2, 2}, sequence(4))
	require.NoError(t, err)
	first, err := tensormap.NewBlock(values,
		labels.MustNew([]string{"structure", "center"}, []labels.Entry{{0, 1}, {0, 2}}),
		nil, properties)
	require.NoError(t, err)

	direction := labels.MustNew([]string{"direction"}, []labels.Entry{{0}, {1}, {2}})
	gradValues, err := tensormap.NewArrayFrom(tensormap.Shape{2, 3, 2}, sequence(12))
	require.NoError(t, err)
	gradient, err := tensormap.NewGradient(gradValues,
		labels.MustNew([]string{"sample", "atom"}, []labels.Entry{{0, 0}, {1, 1}}),
		[]labels.Labels{direction}, properties)
	require.NoError(t, err)
	require.NoError(t, first.AddGradient("positions", gradient))

	component := labels.MustNew([]string{"spherical_harmonics_m"}, []labels.Entry{{-1}, {0}, {1}})
	withComponent, err := tensormap.NewArrayFrom(tensormap.Shape{1, 3, 2}, sequence(6))
	require.NoError(t, err)
	second, err := tensormap.NewBlock(withComponent,
		labels.MustNew([]string{"structure", "center"}, []labels.Entry{{0, 0}}),
		[]labels.Labels{component}, properties)
	require.NoError(t, err)

	keys := labels.MustNew([]string{"species_center"}, []labels.Entry{{1}, {6}})
	tm, err := tensormap.New(keys, []*tensormap.TensorBlock{first, second})
	require.NoError(t, err)
	return tm
}

func TestRoundTrip(t *testing.T) {
	original := testTensorMap(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, original))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.True(t, loaded.Keys().Equal(original.Keys()))
	require.Equal(t, original.Len(), loaded.Len())

	for i := 0; i < original.Len(); i++ {
		want, err := original.BlockByID(i)
		require.NoError(t, err)
		got, err := loaded.BlockByID(i)
		require.NoError(t, err)

		assert.True(t, got.Samples().Equal(want.Samples()))
		assert.True(t, got.Properties().Equal(want.Properties()))
		require.Len(t, got.Components(), len(want.Components()))
		for c := range want.Components() {
			assert.True(t, got.Components()[c].Equal(want.Components()[c]))
		}
		assert.True(t, got.Values().Equal(want.Values()))
		assert.Equal(t, want.GradientOrigins(), got.GradientOrigins())

		for _, origin := range want.GradientOrigins() {
			wantGrad, ok := want.Gradient(origin)
			require.True(t, ok)
			gotGrad, ok := got.Gradient(origin)
			require.True(t, ok)
			assert.True(t, gotGrad.Samples().Equal(wantGrad.Samples()))
			assert.True(t, gotGrad.Values().Equal(wantGrad.Values()))
		}
	}
}

func TestLoadChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, testTensorMap(t)))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-ChecksumSize-1] ^= 0xff

	_, err := Load(bytes.NewReader(corrupted))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

// resign replaces the trailing checksum after the payload was tampered
// with, so the payload checks themselves are reached.
func resign(data []byte) []byte {
	payload := data[:len(data)-ChecksumSize]
	sum := sha256.Sum256(payload)
	return append(append([]byte{}, payload...), sum[:]...)
}

func TestLoadInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, testTensorMap(t)))

	data := buf.Bytes()
	copy(data[:4], "NOPE")

	_, err := Load(bytes.NewReader(resign(data)))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoadUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, testTensorMap(t)))

	data := buf.Bytes()
	data[4] = 0xfe

	_, err := Load(bytes.NewReader(resign(data)))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadTruncated(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("LABT")))
	assert.ErrorIs(t, err, ErrTruncated)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, testTensorMap(t)))
	data := buf.Bytes()

	// Cutting inside the data section invalidates the checksum first.
	_, err = Load(bytes.NewReader(data[:len(data)-ChecksumSize-8]))
	assert.Error(t, err)
}

// rawFile assembles a checksummed .labt file around a hand-written
// header, for headers Save would never produce.
func rawFile(t *testing.T, header string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(MagicBytes)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(FormatVersion)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.WriteString(header)
	padding := (DataAlignment - buf.Len()%DataAlignment) % DataAlignment
	buf.Write(make([]byte, padding))
	sum := sha256.Sum256(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes()
}

func TestLoadShapeOverflow(t *testing.T) {
	// The dimension product wraps negative in native int arithmetic, so
	// a naive size check would pass and the allocation would panic.
	header := `{"format_version":1,` +
		`"keys":{"names":["k"],"entries":[[0]]},` +
		`"blocks":[{` +
		`"samples":{"names":["s"],"entries":[[0]]},` +
		`"properties":{"names":["p"],"entries":[[0]]},` +
		`"values":{"shape":[3,3074457345618258603],"offset":0}}]}`

	_, err := Load(bytes.NewReader(rawFile(t, header)))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLoadOffsetOutOfBounds(t *testing.T) {
	header := `{"format_version":1,` +
		`"keys":{"names":["k"],"entries":[[0]]},` +
		`"blocks":[{` +
		`"samples":{"names":["s"],"entries":[[0]]},` +
		`"properties":{"names":["p"],"entries":[[0]]},` +
		`"values":{"shape":[1,1],"offset":4096}}]}`

	_, err := Load(bytes.NewReader(rawFile(t, header)))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLoadEmptyMap(t *testing.T) {
	keys, err := labels.New([]string{"species_center"}, nil)
	require.NoError(t, err)
	tm, err := tensormap.New(keys, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tm))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
	assert.Equal(t, []string{"species_center"}, loaded.Keys().Names())
}
