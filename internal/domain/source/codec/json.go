package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

var errMalformedJSON = errors.New("malformed json")

type jsonFormat struct{}

// decode walks the token stream so object key order is kept.
func (jsonFormat) decode(data []byte) (*tree.Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: document root must be an object", errMalformedJSON)
	}
	m, err := decodeJSONObject(dec, 1)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", errMalformedJSON)
	}
	return m, nil
}

func decodeJSONObject(dec *json.Decoder, depth int) (*tree.Mapping, error) {
	if depth > maxDepth {
		return nil, errTooDeep()
	}
	m := tree.NewMapping(0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errMalformedJSON
		}
		v, err := decodeJSONValue(dec, depth)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func decodeJSONArray(dec *json.Decoder, depth int) (tree.Value, error) {
	if depth > maxDepth {
		return tree.Value{}, errTooDeep()
	}
	items := []tree.Value{}
	for dec.More() {
		v, err := decodeJSONValue(dec, depth)
		if err != nil {
			return tree.Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return tree.Value{}, err
	}
	return tree.Seq(items...), nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (tree.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return tree.Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m, err := decodeJSONObject(dec, depth+1)
			if err != nil {
				return tree.Value{}, err
			}
			return tree.Map(m), nil
		case '[':
			return decodeJSONArray(dec, depth+1)
		default:
			return tree.Value{}, errMalformedJSON
		}
	case string:
		return tree.String(t), nil
	case json.Number:
		return tree.Number(t.String()), nil
	case bool:
		return tree.Bool(t), nil
	case nil:
		return tree.Null(), nil
	default:
		return tree.Value{}, errMalformedJSON
	}
}

func (jsonFormat) encode(buf *bytes.Buffer, v tree.Value) error {
	switch v.Kind() {
	case tree.KindNull:
		buf.WriteString("null")
	case tree.KindString:
		writeJSONString(buf, v.Text())
	case tree.KindNumber:
		if !json.Valid([]byte(v.Text())) {
			return fmt.Errorf("json: unsupported number %q", v.Text())
		}
		buf.WriteString(v.Text())
	case tree.KindBool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case tree.KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Sequence() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := (jsonFormat{}).encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case tree.KindMapping:
		buf.WriteByte('{')
		first := true
		for k, item := range v.Mapping().All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := (jsonFormat{}).encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("json: unknown value kind %d", v.Kind())
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// writeJSONString quotes s like encoding/json does, without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			buf.WriteString(s[start:i])
			switch b {
			case '"', '\\':
				buf.WriteByte('\\')
				buf.WriteByte(b)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[b>>4])
				buf.WriteByte(hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString(s[start:i])
			buf.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		if r == '\u2028' || r == '\u2029' {
			buf.WriteString(s[start:i])
			buf.WriteString(`\u202`)
			buf.WriteByte(hexDigits[r&0xF])
			i += size
			start = i
			continue
		}
		i += size
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}
