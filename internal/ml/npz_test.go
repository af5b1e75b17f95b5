package ml

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNPZ(t *testing.T, arrays map[string]any) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := npz.NewWriter(&buf)
	for name, v := range arrays {
		require.NoError(t, w.Write(name, v))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func sampleArrays() map[string]any {
	return map[string]any{
		"format":  "csr",
		"shape":   []int64{4, 3},
		"indptr":  []int32{0, 1, 3, 3, 4},
		"indices": []int32{0, 1, 2, 0},
		"data":    []float64{1, 3, 4, 2},
	}
}

func TestReadNPZ(t *testing.T) {
	t.Parallel()

	raw := writeNPZ(t, sampleArrays())
	m, err := ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 4, m.NNZ())

	scores, err := m.CosineSimilarities(vec(3, 1, 3, 2, 4))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[1], 1e-12)
	assert.Equal(t, 0.0, scores[0])
}

func TestReadNPZWidensOtherDtypes(t *testing.T) {
	t.Parallel()

	arrays := sampleArrays()
	arrays["data"] = []float32{1, 3, 4, 2}
	arrays["indptr"] = []int64{0, 1, 3, 3, 4}
	arrays["indices"] = []uint32{0, 1, 2, 0}

	raw := writeNPZ(t, arrays)
	m, err := ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rows())

	scores, err := m.CosineSimilarities(vec(3, 1, 3, 2, 4))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[1], 1e-6)
}

func TestReadNPZRejectsInvalidArchives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missing data", mutate: func(a map[string]any) { delete(a, "data") }},
		{name: "missing format", mutate: func(a map[string]any) { delete(a, "format") }},
		{name: "csc format", mutate: func(a map[string]any) { a["format"] = "csc" }},
		{name: "three dimensional shape", mutate: func(a map[string]any) { a["shape"] = []int64{4, 3, 1} }},
		{name: "float indices", mutate: func(a map[string]any) { a["indices"] = []float64{0, 1, 2, 0} }},
		{name: "string data", mutate: func(a map[string]any) { a["data"] = "abcd" }},
		{name: "inconsistent csr", mutate: func(a map[string]any) { a["indptr"] = []int32{0, 1, 3, 3, 3} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			arrays := sampleArrays()
			tt.mutate(arrays)
			raw := writeNPZ(t, arrays)

			_, err := ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
			require.Error(t, err)
		})
	}
}

func TestReadNPZRejectsGarbageEntries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"format.npy", "shape.npy", "indptr.npy", "indices.npy", "data.npy"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("garbage data here"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	raw := buf.Bytes()
	_, err := ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
	require.Error(t, err)
}

func TestReadNPZRejectsNonZip(t *testing.T) {
	t.Parallel()

	raw := []byte("definitely not a zip archive")
	_, err := ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
	require.Error(t, err)
}
