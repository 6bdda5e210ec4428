package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// CBOR major types handled outside the library.
const (
	cborText  = 3
	cborArray = 4
	cborMap   = 5
	cborTag   = 6

	cborBreak      = 0xff
	cborIndefinite = 31
)

var errMalformedCBOR = errors.New("malformed cbor")

// Scalars go through fxamacker/cbor; array and map heads are handled here
// because the library only decodes maps into unordered Go maps.
var (
	cborEnc, _ = cbor.EncOptions{ShortestFloat: cbor.ShortestFloat16}.EncMode()
	cborDec, _ = cbor.DecOptions{
		MaxNestedLevels: 256,
		IntDec:          cbor.IntDecConvertNone,
		BigIntDec:       cbor.BigIntDecodePointer,
	}.DecMode()
)

type cborFormat struct{}

func (cborFormat) decode(data []byte) (*tree.Mapping, error) {
	v, rest, err := decodeCBORValue(data, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after document", errMalformedCBOR)
	}
	m, ok := v.AsMapping()
	if !ok {
		return nil, fmt.Errorf("%w: document root must be a map", errMalformedCBOR)
	}
	return m, nil
}

// cborHead reads an initial byte and its argument.
func cborHead(data []byte) (major byte, arg uint64, indefinite bool, rest []byte, err error) {
	if len(data) == 0 {
		return 0, 0, false, nil, fmt.Errorf("%w: unexpected end of data", errMalformedCBOR)
	}
	major = data[0] >> 5
	info := data[0] & 0x1f
	data = data[1:]
	switch {
	case info < 24:
		return major, uint64(info), false, data, nil
	case info == 24:
		if len(data) < 1 {
			break
		}
		return major, uint64(data[0]), false, data[1:], nil
	case info == 25:
		if len(data) < 2 {
			break
		}
		return major, uint64(binary.BigEndian.Uint16(data)), false, data[2:], nil
	case info == 26:
		if len(data) < 4 {
			break
		}
		return major, uint64(binary.BigEndian.Uint32(data)), false, data[4:], nil
	case info == 27:
		if len(data) < 8 {
			break
		}
		return major, binary.BigEndian.Uint64(data), false, data[8:], nil
	case info == cborIndefinite:
		return major, 0, true, data, nil
	default:
		return 0, 0, false, nil, fmt.Errorf("%w: reserved additional info %d", errMalformedCBOR, info)
	}
	return 0, 0, false, nil, fmt.Errorf("%w: unexpected end of data", errMalformedCBOR)
}

func decodeCBORValue(data []byte, depth int) (tree.Value, []byte, error) {
	if depth > maxDepth {
		return tree.Value{}, nil, errTooDeep()
	}
	major, arg, indefinite, rest, err := cborHead(data)
	if err != nil {
		return tree.Value{}, nil, err
	}
	switch major {
	case cborArray:
		return decodeCBORArray(rest, arg, indefinite, depth)
	case cborMap:
		return decodeCBORMap(rest, arg, indefinite, depth)
	case cborTag:
		// Tags around containers are dropped; tagged scalars (bignums,
		// timestamps) are decoded by the library.
		if len(rest) > 0 {
			if inner := rest[0] >> 5; inner == cborArray || inner == cborMap {
				return decodeCBORValue(rest, depth+1)
			}
		}
	}
	return decodeCBORScalar(data)
}

func decodeCBORArray(data []byte, n uint64, indefinite bool, depth int) (tree.Value, []byte, error) {
	items := make([]tree.Value, 0, min(n, uint64(len(data))))
	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite {
			if len(data) == 0 {
				return tree.Value{}, nil, fmt.Errorf("%w: missing break", errMalformedCBOR)
			}
			if data[0] == cborBreak {
				data = data[1:]
				break
			}
		}
		v, rest, err := decodeCBORValue(data, depth+1)
		if err != nil {
			return tree.Value{}, nil, err
		}
		items = append(items, v)
		data = rest
	}
	return tree.Seq(items...), data, nil
}

func decodeCBORMap(data []byte, n uint64, indefinite bool, depth int) (tree.Value, []byte, error) {
	m := tree.NewMapping(int(min(n, uint64(len(data)))))
	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite {
			if len(data) == 0 {
				return tree.Value{}, nil, fmt.Errorf("%w: missing break", errMalformedCBOR)
			}
			if data[0] == cborBreak {
				data = data[1:]
				break
			}
		}
		key, rest, err := decodeCBORValue(data, depth+1)
		if err != nil {
			return tree.Value{}, nil, err
		}
		if key.Kind() != tree.KindString {
			return tree.Value{}, nil, fmt.Errorf("%w: map key must be a text string", errMalformedCBOR)
		}
		v, rest, err := decodeCBORValue(rest, depth+1)
		if err != nil {
			return tree.Value{}, nil, err
		}
		m.Set(key.Text(), v)
		data = rest
	}
	return tree.Map(m), data, nil
}

func decodeCBORScalar(data []byte) (tree.Value, []byte, error) {
	var x any
	rest, err := cborDec.UnmarshalFirst(data, &x)
	if err != nil {
		return tree.Value{}, nil, err
	}
	v, err := scalarValue(x)
	if err != nil {
		return tree.Value{}, nil, fmt.Errorf("cbor: %w", err)
	}
	return v, rest, nil
}

// scalarValue converts a library-decoded scalar into a tree value. Byte
// strings become base64 text, timestamps RFC 3339 text.
func scalarValue(x any) (tree.Value, error) {
	switch t := x.(type) {
	case nil:
		return tree.Null(), nil
	case bool:
		return tree.Bool(t), nil
	case string:
		return tree.String(t), nil
	case int64:
		return tree.Int(t), nil
	case uint64:
		return tree.Uint(t), nil
	case int8, int16, int32, int:
		return tree.Number(fmt.Sprint(t)), nil
	case uint8, uint16, uint32, uint:
		return tree.Number(fmt.Sprint(t)), nil
	case float32:
		return tree.Float(float64(t)), nil
	case float64:
		return tree.Float(t), nil
	case *big.Int:
		return tree.Number(t.String()), nil
	case big.Int:
		return tree.Number(t.String()), nil
	case []byte:
		return tree.String(base64.StdEncoding.EncodeToString(t)), nil
	case time.Time:
		return tree.String(t.UTC().Format(time.RFC3339Nano)), nil
	case cbor.Tag:
		return scalarValue(t.Content)
	default:
		return tree.Value{}, fmt.Errorf("unsupported scalar %T", x)
	}
}

func (cborFormat) encode(buf *bytes.Buffer, v tree.Value) error {
	switch v.Kind() {
	case tree.KindSequence:
		items := v.Sequence()
		writeCBORHead(buf, cborArray, uint64(len(items)))
		for _, item := range items {
			if err := (cborFormat{}).encode(buf, item); err != nil {
				return err
			}
		}
		return nil
	case tree.KindMapping:
		m := v.Mapping()
		writeCBORHead(buf, cborMap, uint64(m.Len()))
		for k, item := range m.All() {
			writeCBORHead(buf, cborText, uint64(len(k)))
			buf.WriteString(k)
			if err := (cborFormat{}).encode(buf, item); err != nil {
				return err
			}
		}
		return nil
	}

	x, err := nativeScalar(v)
	if err != nil {
		return fmt.Errorf("cbor: %w", err)
	}
	b, err := cborEnc.Marshal(x)
	if err != nil {
		return fmt.Errorf("cbor: %w", err)
	}
	buf.Write(b)
	return nil
}

func writeCBORHead(buf *bytes.Buffer, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		buf.WriteByte(m | byte(n))
	case n <= 0xff:
		buf.WriteByte(m | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(m | 25)
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(n)))
	case n <= 0xffffffff:
		buf.WriteByte(m | 26)
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	default:
		buf.WriteByte(m | 27)
		buf.Write(binary.BigEndian.AppendUint64(nil, n))
	}
}

// nativeScalar converts a scalar tree value into the Go value the binary
// encoders expect.
func nativeScalar(v tree.Value) (any, error) {
	switch v.Kind() {
	case tree.KindNull:
		return nil, nil
	case tree.KindString:
		return v.Text(), nil
	case tree.KindBool:
		return v.Bool(), nil
	case tree.KindNumber:
		return nativeNumber(v)
	default:
		return nil, fmt.Errorf("not a scalar: %s", v.Kind())
	}
}

func nativeNumber(v tree.Value) (any, error) {
	text := v.Text()
	if v.IsInteger() {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return u, nil
		}
		b, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", text)
		}
		return b, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}
