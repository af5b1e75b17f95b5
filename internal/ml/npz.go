package ml

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// ReadNPZ decodes a CSR matrix from an archive written by scipy.sparse.save_npz.
// Compressed and uncompressed archives are both accepted.
func ReadNPZ(r io.ReaderAt, size int64) (*CSRMatrix, error) {
	zr, err := npz.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open npz: %w", err)
	}

	a := npzArchive{r: zr, keys: make(map[string]string)}
	for _, key := range zr.Keys() {
		a.keys[strings.TrimSuffix(key, ".npy")] = key
	}

	var format string
	if err := a.read("format", &format); err != nil {
		return nil, err
	}
	if format = strings.TrimRight(format, "\x00"); format != "csr" {
		return nil, fmt.Errorf("unsupported sparse format %q, want csr", format)
	}

	shape, err := a.ints("shape")
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("shape has %d dimensions, want 2", len(shape))
	}
	indptr, err := a.ints("indptr")
	if err != nil {
		return nil, err
	}
	indices, err := a.ints("indices")
	if err != nil {
		return nil, err
	}
	data, err := a.floats("data")
	if err != nil {
		return nil, err
	}

	return NewCSRMatrix(shape[0], shape[1], indptr, indices, data)
}

// npzArchive resolves array names with or without the .npy suffix.
type npzArchive struct {
	r    *npz.Reader
	keys map[string]string
}

func (a npzArchive) key(name string) (string, error) {
	key, ok := a.keys[name]
	if !ok {
		return "", fmt.Errorf("npz is missing %s.npy", name)
	}
	return key, nil
}

func (a npzArchive) read(name string, ptr any) error {
	key, err := a.key(name)
	if err != nil {
		return err
	}
	if err := a.r.Read(key, ptr); err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return nil
}

func (a npzArchive) dtype(name string) (string, error) {
	key, err := a.key(name)
	if err != nil {
		return "", err
	}
	hdr := a.r.Header(key)
	if hdr == nil {
		return "", fmt.Errorf("%s has no npy header", key)
	}
	return hdr.Descr.Type, nil
}

// ints reads an integer array of any width scipy writes.
func (a npzArchive) ints(name string) ([]int, error) {
	dtype, err := a.dtype(name)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case "<i4":
		var v []int32
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		return widen(v), nil
	case "<i8":
		var v []int64
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		return widen(v), nil
	case "<u4":
		var v []uint32
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		return widen(v), nil
	case "<u8":
		var v []uint64
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		for _, x := range v {
			if x > math.MaxInt64 {
				return nil, fmt.Errorf("%s: value %d overflows int", name, x)
			}
		}
		return widen(v), nil
	default:
		return nil, fmt.Errorf("%s: dtype %q is not a supported integer type", name, dtype)
	}
}

// floats reads a float array. Integer arrays are converted.
func (a npzArchive) floats(name string) ([]float64, error) {
	dtype, err := a.dtype(name)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case "<f8":
		var v []float64
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "<f4":
		var v []float32
		if err := a.read(name, &v); err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	}

	ints, err := a.ints(name)
	if err != nil {
		return nil, fmt.Errorf("%s: dtype %q is not a supported numeric type", name, dtype)
	}
	out := make([]float64, len(ints))
	for i, x := range ints {
		out[i] = float64(x)
	}
	return out, nil
}

func widen[T int32 | int64 | uint32 | uint64](vals []T) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}
