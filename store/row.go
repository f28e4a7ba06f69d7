package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
)

// Kind tags the type of a column value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindBytes
	KindJSON
)

// Value is a loosely-typed column value. Numbers are kept in their
// decimal string form and nested JSON documents as raw bytes so that a
// row fetched from one store inserts into another without loss.
type Value struct {
	Kind   Kind
	Bool   bool
	Number string
	Str    string
	Bytes  []byte
	JSON   json.RawMessage
}

func NullValue() Value           { return Value{Kind: KindNull} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func NumberValue(s string) Value { return Value{Kind: KindNumber, Number: s} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BytesValue(b []byte) Value  { return Value{Kind: KindBytes, Bytes: b} }
func JSONValue(raw []byte) Value { return Value{Kind: KindJSON, JSON: json.RawMessage(raw)} }
func IntValue(i int64) Value     { return NumberValue(strconv.FormatInt(i, 10)) }
func FloatValue(f float64) Value { return NumberValue(strconv.FormatFloat(f, 'g', -1, 64)) }

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return v.Number
	case KindString:
		return v.Str
	case KindBytes:
		return `\x` + hex.EncodeToString(v.Bytes)
	case KindJSON:
		return string(v.JSON)
	}
	return fmt.Sprintf("<unknown kind %d>", v.Kind)
}

// Row is an ordered mapping of column name to Value. Order is the order
// columns were observed on the wire and is preserved on re-encode.
type Row struct {
	columns []string
	values  []Value
}

// Set appends the column, or overwrites it in place if already present.
func (r *Row) Set(column string, v Value) {
	for i, c := range r.columns {
		if c == column {
			r.values[i] = v
			return
		}
	}
	r.columns = append(r.columns, column)
	r.values = append(r.values, v)
}

func (r Row) Get(column string) (Value, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return Value{}, false
}

func (r Row) Columns() []string {
	return r.columns
}

func (r Row) Values() []Value {
	return r.values
}

func (r Row) Len() int {
	return len(r.columns)
}

// MarshalJSON encodes the row as a JSON object with columns in their
// original order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[i].appendJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", c)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v Value) appendJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	case KindNumber:
		return []byte(v.Number), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindBytes:
		// Postgres hex bytea form, which PostgREST accepts on insert.
		return json.Marshal(`\x` + hex.EncodeToString(v.Bytes))
	case KindJSON:
		return v.JSON, nil
	}
	return nil, errors.Newf("unknown value kind %d", v.Kind)
}

// UnmarshalJSON decodes a JSON object, preserving column order and
// keeping numbers and nested documents in raw form.
func (r *Row) UnmarshalJSON(data []byte) error {
	r.columns = nil
	r.values = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Newf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Newf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "column %s", key)
		}
		v, err := valueFromRaw(raw)
		if err != nil {
			return errors.Wrapf(err, "column %s", key)
		}
		r.columns = append(r.columns, key)
		r.values = append(r.values, v)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func valueFromRaw(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 {
		return Value{}, errors.New("empty value")
	}
	switch raw[0] {
	case 'n':
		return NullValue(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case '{', '[':
		// Keep nested documents opaque.
		return JSONValue(raw), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, err
		}
		return NumberValue(n.String()), nil
	}
}

// valueFromNative converts a Go value as produced by a SQL driver scan
// into a tagged Value.
func valueFromNative(v interface{}) Value {
	switch v := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(v)
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case float32:
		return FloatValue(float64(v))
	case float64:
		return FloatValue(v)
	case string:
		return StringValue(v)
	case []byte:
		return BytesValue(v)
	case json.RawMessage:
		return JSONValue(v)
	case time.Time:
		return StringValue(v.Format(time.RFC3339Nano))
	case pgtype.Numeric:
		// pgx scans numeric columns into pgtype.Numeric; its driver
		// value is the Postgres text form, which keeps full precision.
		if !v.Valid {
			return NullValue()
		}
		val, err := v.Value()
		if err != nil {
			return StringValue(fmt.Sprint(v))
		}
		return NumberValue(val.(string))
	case [16]byte:
		// uuid columns.
		return StringValue(fmt.Sprintf("%x-%x-%x-%x-%x", v[0:4], v[4:6], v[6:8], v[8:10], v[10:16]))
	case map[string]interface{}, []interface{}:
		// json/jsonb columns arrive pre-decoded from pgx.
		b, err := json.Marshal(v)
		if err != nil {
			return StringValue(fmt.Sprint(v))
		}
		return JSONValue(b)
	default:
		return StringValue(fmt.Sprint(v))
	}
}

// nativeArg converts a Value into an argument for a parameterized SQL
// statement. Numbers and JSON travel as text and are coerced by the
// server against the column type.
func (v Value) nativeArg() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindString:
		return v.Str
	case KindBytes:
		return v.Bytes
	case KindJSON:
		return string(v.JSON)
	}
	return nil
}
