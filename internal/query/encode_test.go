package query

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Empty(t *testing.T) {
	got, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = Encode(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEncode_SortsKeys(t *testing.T) {
	got, err := Encode(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", got)
}

func TestEncode_Scalars(t *testing.T) {
	type currency string

	got, err := Encode(map[string]any{
		"active":   true,
		"amount":   decimal.RequireFromString("12.5"),
		"count":    uint8(7),
		"currency": currency("EUR"),
		"id":       json.Number("9007199254740993"),
		"rate":     0.1,
		"since":    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"active=true&amount=12.5&count=7&currency=EUR&id=9007199254740993&rate=0.1&since=2020-01-01T00%3A00%3A00Z",
		got)
}

func TestEncode_StrictEscaping(t *testing.T) {
	got, err := Encode(map[string]any{"q": "a b&c=d/é!*'()~"})
	require.NoError(t, err)
	assert.Equal(t, "q=a%20b%26c%3Dd%2F%C3%A9%21%2A%27%28%29~", got)
}

func TestEncode_NilRendersBareKey(t *testing.T) {
	var p *string
	got, err := Encode(map[string]any{"a": nil, "b": p, "c": "x"})
	require.NoError(t, err)
	assert.Equal(t, "a&b&c=x", got)
}

func TestEncode_PointerIsDereferenced(t *testing.T) {
	s := "EUR"
	got, err := Encode(map[string]any{"currency": &s})
	require.NoError(t, err)
	assert.Equal(t, "currency=EUR", got)
}

func TestEncode_SlicesRepeatKeys(t *testing.T) {
	got, err := Encode(map[string]any{
		"status": []string{"paid", "pending"},
		"ids":    []any{3, 1, nil},
		"none":   []int{},
	})
	require.NoError(t, err)
	assert.Equal(t, "ids=3&ids=1&ids&status=paid&status=pending", got)
}

func TestEncode_NestedMapsUseBrackets(t *testing.T) {
	got, err := Encode(map[string]any{
		"filter": map[string]any{
			"to":   "2020-02-01",
			"from": "2020-01-01",
			"tags": []string{"x", "y"},
		},
		"meta": map[string]int{"b": 2, "a": 1},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"filter%5Bfrom%5D=2020-01-01&filter%5Btags%5D=x&filter%5Btags%5D=y&filter%5Bto%5D=2020-02-01&meta%5Ba%5D=1&meta%5Bb%5D=2",
		got)
}

func TestEncode_StructUsesJSONTags(t *testing.T) {
	type page struct {
		Limit  int    `json:"limit"`
		Cursor string `json:"cursor,omitempty"`
	}
	got, err := Encode(map[string]any{"page": page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, "page%5Blimit%5D=10", got)
}

// paymentID is a fixed-size identifier with a text form, shaped like uuid.UUID.
type paymentID [4]byte

func (id paymentID) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(id[:])), nil
}

// reference encodes to a JSON string without implementing MarshalText.
type reference struct {
	prefix string
	n      int
}

func (r reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.prefix + "-" + strconv.Itoa(r.n))
}

// optional encodes to JSON null.
type optional struct{}

func (optional) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func TestEncode_TextMarshalerIsScalar(t *testing.T) {
	id := paymentID{10, 11, 12, 13}

	got, err := Encode(map[string]any{"id": id, "ids": []paymentID{id, {1, 2, 3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, "id=0a0b0c0d&ids=0a0b0c0d&ids=01020304", got)

	body, err := json.Marshal(map[string]any{"id": id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"0a0b0c0d"}`, string(body), "query and body agree on the value")
}

func TestEncode_StdlibTextMarshalers(t *testing.T) {
	got, err := Encode(map[string]any{
		"addr":  netip.MustParseAddr("10.0.0.1"),
		"big":   big.NewInt(123456789),
		"bigv":  *big.NewInt(42),
		"nobig": (*big.Int)(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "addr=10.0.0.1&big=123456789&bigv=42&nobig", got)
}

func TestEncode_NullDecimal(t *testing.T) {
	got, err := Encode(map[string]any{"amt": decimal.NewNullDecimal(decimal.RequireFromString("12.5"))})
	require.NoError(t, err)
	assert.Equal(t, "amt=12.5", got)
}

func TestEncode_StructWithScalarJSON(t *testing.T) {
	got, err := Encode(map[string]any{
		"ref": reference{prefix: "inv", n: 7},
		"opt": optional{},
	})
	require.NoError(t, err)
	assert.Equal(t, "opt&ref=inv-7", got)
}

func TestEncode_UnsupportedTypes(t *testing.T) {
	_, err := Encode(map[string]any{"fn": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fn")

	_, err = Encode(map[string]any{"m": map[int]string{1: "a"}})
	require.Error(t, err)

	_, err = Encode(map[string]any{"list": []any{make(chan int)}})
	require.Error(t, err)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "AZaz09-_.~", Escape("AZaz09-_.~"))
	assert.Equal(t, "%5B%5D%20%2B", Escape("[] +"))
}
