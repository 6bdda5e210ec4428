package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

var errMalformedMsgPack = errors.New("malformed msgpack")

type msgpackFormat struct{}

// decode reads container lengths itself so map entries come out in wire
// order; scalars go through DecodeInterfaceLoose.
func (msgpackFormat) decode(data []byte) (*tree.Mapping, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	if !isMsgPackMap(c) {
		return nil, fmt.Errorf("%w: document root must be a map", errMalformedMsgPack)
	}
	m, err := decodeMsgPackMap(dec, 1)
	if err != nil {
		return nil, err
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", errMalformedMsgPack)
	}
	return m, nil
}

func isMsgPackMap(c byte) bool {
	return msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isMsgPackArray(c byte) bool {
	return msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func decodeMsgPackMap(dec *msgpack.Decoder, depth int) (*tree.Mapping, error) {
	if depth > maxDepth {
		return nil, errTooDeep()
	}
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	m := tree.NewMapping(max(n, 0))
	for range n {
		c, err := dec.PeekCode()
		if err != nil {
			return nil, err
		}
		if !msgpcode.IsString(c) {
			return nil, fmt.Errorf("%w: map key must be a string", errMalformedMsgPack)
		}
		key, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		v, err := decodeMsgPackValue(dec, depth)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func decodeMsgPackValue(dec *msgpack.Decoder, depth int) (tree.Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return tree.Value{}, err
	}
	switch {
	case isMsgPackMap(c):
		m, err := decodeMsgPackMap(dec, depth+1)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Map(m), nil
	case isMsgPackArray(c):
		if depth+1 > maxDepth {
			return tree.Value{}, errTooDeep()
		}
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return tree.Value{}, err
		}
		items := make([]tree.Value, 0, max(n, 0))
		for range n {
			v, err := decodeMsgPackValue(dec, depth+1)
			if err != nil {
				return tree.Value{}, err
			}
			items = append(items, v)
		}
		return tree.Seq(items...), nil
	}

	x, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return tree.Value{}, err
	}
	v, err := scalarValue(x)
	if err != nil {
		return tree.Value{}, fmt.Errorf("msgpack: %w", err)
	}
	return v, nil
}

func (msgpackFormat) encode(buf *bytes.Buffer, v tree.Value) error {
	enc := msgpack.NewEncoder(buf)
	return encodeMsgPack(enc, v)
}

func encodeMsgPack(enc *msgpack.Encoder, v tree.Value) error {
	switch v.Kind() {
	case tree.KindNull:
		return enc.EncodeNil()
	case tree.KindString:
		return enc.EncodeString(v.Text())
	case tree.KindBool:
		return enc.EncodeBool(v.Bool())
	case tree.KindNumber:
		return encodeMsgPackNumber(enc, v)
	case tree.KindSequence:
		items := v.Sequence()
		if err := enc.EncodeArrayLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := encodeMsgPack(enc, item); err != nil {
				return err
			}
		}
		return nil
	case tree.KindMapping:
		m := v.Mapping()
		if err := enc.EncodeMapLen(m.Len()); err != nil {
			return err
		}
		for k, item := range m.All() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeMsgPack(enc, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("msgpack: unknown value kind %d", v.Kind())
	}
}

func encodeMsgPackNumber(enc *msgpack.Encoder, v tree.Value) error {
	text := v.Text()
	if v.IsInteger() {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return enc.EncodeInt(i)
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return enc.EncodeUint(u)
		}
		return fmt.Errorf("msgpack: integer %s out of range", text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("msgpack: invalid number %q", text)
	}
	return enc.EncodeFloat64(f)
}
