package consteval

import "fmt"

// Value is a compile-time constant: a scalar when Dims is empty, otherwise a
// row-major array with len(Data) == product(Dims).
type Value struct {
	Dims []int
	Data []int32
}

func Scalar(v int32) Value {
	return Value{Data: []int32{v}}
}

func (v Value) IsScalar() bool { return len(v.Dims) == 0 }

// Item returns the scalar payload. It panics on arrays.
func (v Value) Item() int32 {
	if !v.IsScalar() {
		panic(fmt.Sprintf("consteval: Item on array of dims %v", v.Dims))
	}
	return v.Data[0]
}

// Index applies subscripts. A partial index yields a sub-array. ok is false
// for too many subscripts or an out-of-range index.
func (v Value) Index(indices []int32) (Value, bool) {
	if len(indices) > len(v.Dims) {
		return Value{}, false
	}
	off := 0
	stride := len(v.Data)
	for i, idx := range indices {
		stride /= v.Dims[i]
		if idx < 0 || int(idx) >= v.Dims[i] {
			return Value{}, false
		}
		off += int(idx) * stride
	}
	return Value{Dims: v.Dims[len(indices):], Data: v.Data[off : off+stride]}, true
}

// Product returns the number of scalars in an array of dims.
func Product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
