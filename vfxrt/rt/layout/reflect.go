package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	typeMat2 = reflect.TypeOf(mgl32.Mat2{})
	typeMat3 = reflect.TypeOf(mgl32.Mat3{})
	typeMat4 = reflect.TypeOf(mgl32.Mat4{})
)

type cacheKey struct {
	rules Rules
	t     reflect.Type
}

var layoutCache sync.Map // cacheKey -> Layout

// Of returns the layout of t under the given rules.
func (r Rules) Of(t reflect.Type) (Layout, error) {
	key := cacheKey{rules: r, t: t}
	if l, ok := layoutCache.Load(key); ok {
		return l.(Layout), nil
	}
	l, err := r.compute(t)
	if err != nil {
		return Layout{}, err
	}
	layoutCache.Store(key, l)
	return l, nil
}

// MustOf is like Of but panics on unsupported types.
func (r Rules) MustOf(t reflect.Type) Layout {
	l, err := r.Of(t)
	if err != nil {
		panic(err)
	}
	return l
}

func isScalar(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Int32 || k == reflect.Uint32
}

func isVector(t reflect.Type) bool {
	return t.Kind() == reflect.Array && t.Len() >= 2 && t.Len() <= 4 && isScalar(t.Elem().Kind())
}

func skipField(f reflect.StructField) bool {
	return f.Tag.Get("gpu") == "-"
}

func (r Rules) compute(t reflect.Type) (Layout, error) {
	switch {
	case isScalar(t.Kind()):
		return Layout{Size: 4, Align: 4}, nil
	case t == typeMat2:
		return Layout{Size: 16, Align: 8}, nil
	case t == typeMat3:
		return Layout{Size: 48, Align: 16}, nil
	case t == typeMat4:
		return Layout{Size: 64, Align: 16}, nil
	case isVector(t):
		switch t.Len() {
		case 2:
			return Layout{Size: 8, Align: 8}, nil
		case 3:
			return Layout{Size: 12, Align: 16}, nil
		default:
			return Layout{Size: 16, Align: 16}, nil
		}
	}

	switch t.Kind() {
	case reflect.Array:
		if t.Len() == 0 {
			return Layout{}, fmt.Errorf("%w: zero-length array %v", ErrUnsupportedType, t)
		}
		elem, err := r.Of(t.Elem())
		if err != nil {
			return Layout{}, err
		}
		align := elem.Align
		if r == Std140 {
			align = AlignUp(align, 16)
		}
		stride := AlignUp(elem.Size, align)
		return Layout{Size: stride * uint64(t.Len()), Align: align}, nil

	case reflect.Struct:
		var offset, align uint64
		members := 0
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if skipField(f) {
				continue
			}
			fl, err := r.Of(f.Type)
			if err != nil {
				return Layout{}, fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
			}
			offset = AlignUp(offset, fl.Align) + fl.Size
			align = max(align, fl.Align)
			members++
		}
		if members == 0 {
			return Layout{}, fmt.Errorf("%w: struct %v has no gpu fields", ErrUnsupportedType, t)
		}
		if r == Std140 {
			align = AlignUp(align, 16)
		}
		return Layout{Size: AlignUp(offset, align), Align: align}, nil
	}

	return Layout{}, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

// put encodes v into dst following the layout rules. Padding bytes are left
// untouched; callers zero dst beforehand.
func (r Rules) put(v reflect.Value, dst []byte) {
	t := v.Type()
	switch {
	case isScalar(t.Kind()):
		putScalar(v, dst)
		return
	case t == typeMat3:
		// Each column of a mat3x3 occupies a 16 byte slot.
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				putScalar(v.Index(col*3+row), dst[col*16+row*4:])
			}
		}
		return
	case t == typeMat2 || t == typeMat4 || isVector(t):
		for i := 0; i < t.Len(); i++ {
			putScalar(v.Index(i), dst[i*4:])
		}
		return
	}

	switch t.Kind() {
	case reflect.Array:
		elem := r.MustOf(t.Elem())
		align := elem.Align
		if r == Std140 {
			align = AlignUp(align, 16)
		}
		stride := AlignUp(elem.Size, align)
		for i := 0; i < t.Len(); i++ {
			r.put(v.Index(i), dst[uint64(i)*stride:])
		}

	case reflect.Struct:
		var offset uint64
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if skipField(f) {
				continue
			}
			fl := r.MustOf(f.Type)
			offset = AlignUp(offset, fl.Align)
			r.put(v.Field(i), dst[offset:])
			offset += fl.Size
		}

	default:
		panic(fmt.Errorf("%w: %v", ErrUnsupportedType, t))
	}
}

func putScalar(v reflect.Value, dst []byte) {
	switch v.Kind() {
	case reflect.Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v.Float())))
	case reflect.Int32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v.Int())))
	case reflect.Uint32:
		binary.LittleEndian.PutUint32(dst, uint32(v.Uint()))
	default:
		panic(fmt.Errorf("%w: scalar %v", ErrUnsupportedType, v.Type()))
	}
}
