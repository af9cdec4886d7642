package slicego

import (
	"flag"
	"os"
	"reflect"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/slicego/types/shapes"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var engine *Engine

func TestMain(m *testing.M) {
	klog.InitFlags(nil)
	flag.Parse()
	engine = New()
	os.Exit(m.Run())
}

// bufferFromFlat creates a buffer with the given flat values, inferring the
// dtype from the slice element type. Without dims the buffer is a scalar.
func bufferFromFlat(flat any, dims ...int) *Buffer {
	dtype := dtypes.FromGoType(reflect.TypeOf(flat).Elem())
	return must.M1(engine.BufferFromFlatData(flat, shapes.Make(dtype, dims...)))
}

// vector creates the 1-D Int64 buffers used as begin/end/strides operands.
func vector(values ...int64) *Buffer {
	if values == nil {
		values = []int64{}
	}
	return bufferFromFlat(values, len(values))
}
