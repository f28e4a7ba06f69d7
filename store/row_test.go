package store

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestRowRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		desc string
		in   string
	}{
		{
			desc: "column order preserved",
			in:   `{"z":1,"a":2,"m":3}`,
		},
		{
			desc: "all scalar kinds",
			in:   `{"id":42,"name":"ada","active":true,"ratio":0.5,"note":null}`,
		},
		{
			desc: "large numbers keep their digits",
			in:   `{"big":9007199254740993,"precise":0.30000000000000004}`,
		},
		{
			desc: "nested documents stay opaque",
			in:   `{"meta":{"tags":["a","b"],"depth":{"x":1}},"list":[1,2,3]}`,
		},
		{
			desc: "empty object",
			in:   `{}`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			var r Row
			require.NoError(t, json.Unmarshal([]byte(tc.in), &r))
			out, err := json.Marshal(r)
			require.NoError(t, err)
			require.JSONEq(t, tc.in, string(out))
			// Byte-for-byte: order and number formatting survive.
			require.Equal(t, tc.in, string(out))
		})
	}
}

func TestRowKinds(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id":42,"name":"ada","active":true,"note":null,"meta":{"a":1}}`), &r,
	))
	require.Equal(t, 5, r.Len())
	require.Equal(t, []string{"id", "name", "active", "note", "meta"}, r.Columns())

	id, ok := r.Get("id")
	require.True(t, ok)
	require.Equal(t, KindNumber, id.Kind)
	require.Equal(t, "42", id.Number)

	name, _ := r.Get("name")
	require.Equal(t, KindString, name.Kind)
	require.Equal(t, "ada", name.Str)

	active, _ := r.Get("active")
	require.Equal(t, KindBool, active.Kind)
	require.True(t, active.Bool)

	note, _ := r.Get("note")
	require.Equal(t, KindNull, note.Kind)

	meta, _ := r.Get("meta")
	require.Equal(t, KindJSON, meta.Kind)
	require.JSONEq(t, `{"a":1}`, string(meta.JSON))

	_, ok = r.Get("missing")
	require.False(t, ok)
}

func TestRowSetOverwrites(t *testing.T) {
	var r Row
	r.Set("a", IntValue(1))
	r.Set("b", IntValue(2))
	r.Set("a", IntValue(3))
	require.Equal(t, []string{"a", "b"}, r.Columns())
	a, _ := r.Get("a")
	require.Equal(t, "3", a.Number)
}

func TestBytesValueEncoding(t *testing.T) {
	var r Row
	r.Set("payload", BytesValue([]byte{0xde, 0xad}))
	out, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, `{"payload":"\\xdead"}`, string(out))
}

func TestValueFromNative(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		in       interface{}
		expected Value
	}{
		{desc: "nil", in: nil, expected: NullValue()},
		{desc: "bool", in: true, expected: BoolValue(true)},
		{desc: "int64", in: int64(42), expected: NumberValue("42")},
		{desc: "string", in: "ada", expected: StringValue("ada")},
		{desc: "bytea", in: []byte{0xde, 0xad}, expected: BytesValue([]byte{0xde, 0xad})},
		{
			desc:     "numeric keeps decimal form",
			in:       pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true},
			expected: NumberValue("123.45"),
		},
		{
			desc:     "numeric with positive exponent",
			in:       pgtype.Numeric{Int: big.NewInt(7), Exp: 3, Valid: true},
			expected: NumberValue("7000"),
		},
		{
			desc:     "invalid numeric is null",
			in:       pgtype.Numeric{},
			expected: NullValue(),
		},
		{
			desc: "uuid formats with dashes",
			in: [16]byte{
				0x9f, 0x2c, 0x5d, 0x11, 0x4e, 0x8a, 0x4b, 0x1f,
				0x92, 0x0d, 0x3a, 0x7b, 0x6c, 0x5e, 0x4f, 0x3d,
			},
			expected: StringValue("9f2c5d11-4e8a-4b1f-920d-3a7b6c5e4f3d"),
		},
		{
			desc:     "jsonb object re-marshals as JSON",
			in:       map[string]interface{}{"a": float64(1)},
			expected: JSONValue([]byte(`{"a":1}`)),
		},
		{
			desc:     "json array re-marshals as JSON",
			in:       []interface{}{float64(1), "x"},
			expected: JSONValue([]byte(`[1,"x"]`)),
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, valueFromNative(tc.in))
		})
	}
}

func TestValueString(t *testing.T) {
	for _, tc := range []struct {
		v        Value
		expected string
	}{
		{v: NullValue(), expected: "NULL"},
		{v: BoolValue(true), expected: "true"},
		{v: IntValue(-5), expected: "-5"},
		{v: StringValue("x"), expected: "x"},
		{v: BytesValue([]byte{0x01}), expected: `\x01`},
		{v: JSONValue([]byte(`[1]`)), expected: "[1]"},
	} {
		require.Equal(t, tc.expected, tc.v.String())
	}
}
