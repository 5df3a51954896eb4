package domain

import (
	"testing"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/testutil"
)

func TestParseRecordPreservesOrder(t *testing.T) {
	line := []byte(`{"z":1,"a":"https://example.com","m":{"nested":true},"b":[1,"two"]}`)

	rec, err := ParseRecord(line)
	testutil.AssertNoError(t, err, "parse")

	keys := rec.Keys()
	want := []string{"z", "a", "m", "b"}
	testutil.AssertEqual(t, len(keys), len(want), "key count")
	for i := range want {
		testutil.AssertEqual(t, keys[i], want[i], "key order")
	}

	testutil.AssertEqual(t, string(rec.Serialize()), `{"z":1,"a":"https://example.com","m":{"nested":true},"b":[1,"two"]}`, "round trip")
}

func TestParseRecordRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"truncated", `{"a":`},
		{"not an object", `[1,2,3]`},
		{"bare scalar", `"hello"`},
		{"trailing garbage", `{"a":1} extra`},
		{"unterminated", `{"a":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.line))
			testutil.AssertError(t, err, "should reject")
			testutil.AssertTrue(t, errors.IsParse(err), "should be a parse error")
		})
	}
}

func TestRecordMutation(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"a":"x","b":"y","c":"z"}`))
	testutil.AssertNoError(t, err, "parse")

	rec.SetString("b", "https://new.example")
	rec.Delete("a")

	testutil.AssertFalse(t, rec.Has("a"), "a should be deleted")
	testutil.AssertEqual(t, string(rec.Serialize()), `{"b":"https://new.example","c":"z"}`, "mutated output")

	rec.SetStrings("d", []string{"u1", "u2"})
	testutil.AssertEqual(t, string(rec.Serialize()), `{"b":"https://new.example","c":"z","d":["u1","u2"]}`, "appended array field")
}

func TestSetKeepsPosition(t *testing.T) {
	rec, _ := ParseRecord([]byte(`{"a":1,"b":2}`))
	rec.SetString("a", "replaced")

	testutil.AssertEqual(t, string(rec.Serialize()), `{"a":"replaced","b":2}`, "replaced value keeps slot")
}

func TestAsString(t *testing.T) {
	rec, _ := ParseRecord([]byte(`{"s":"hello","n":42}`))

	raw, _ := rec.Field("s")
	s, ok := AsString(raw)
	testutil.AssertTrue(t, ok, "string value")
	testutil.AssertEqual(t, s, "hello", "decoded string")

	raw, _ = rec.Field("n")
	_, ok = AsString(raw)
	testutil.AssertFalse(t, ok, "number is not a string")
}

func TestAsStringArray(t *testing.T) {
	rec, _ := ParseRecord([]byte(`{"urls":["a","b"],"mixed":["a",1,null,"b"],"scalar":"x","nil":null}`))

	raw, _ := rec.Field("urls")
	arr, ok := AsStringArray(raw)
	testutil.AssertTrue(t, ok, "array value")
	testutil.AssertEqual(t, len(arr), 2, "two strings")

	raw, _ = rec.Field("mixed")
	arr, ok = AsStringArray(raw)
	testutil.AssertTrue(t, ok, "mixed array is still an array")
	testutil.AssertEqual(t, len(arr), 2, "non-string elements dropped")
	testutil.AssertEqual(t, arr[0], "a", "order preserved")
	testutil.AssertEqual(t, arr[1], "b", "order preserved")

	raw, _ = rec.Field("scalar")
	_, ok = AsStringArray(raw)
	testutil.AssertFalse(t, ok, "scalar is not an array")

	raw, _ = rec.Field("nil")
	_, ok = AsStringArray(raw)
	testutil.AssertFalse(t, ok, "null is not an array")
}
