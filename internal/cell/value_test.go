package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassificationIsTotal(t *testing.T) {
	values := []Value{
		Empty(), Bool(true), Int(3), Float(1.5), Text("foo"), Error(ErrNA), DateTime(45000),
	}

	for _, v := range values {
		flags := []bool{v.IsEmpty(), v.IsBool(), v.IsInt(), v.IsFloat(), v.IsText(), v.IsError(), v.IsDateTime()}
		set := 0
		for _, f := range flags {
			if f {
				set++
			}
		}
		assert.Equal(t, 1, set, "exactly one classification for %#v", v)
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	var v Value
	assert.True(t, v.IsEmpty())
	assert.Equal(t, KindEmpty, v.Kind())
	assert.Equal(t, "", v.String())
}

func TestEquals(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		other    any
		expected bool
	}{
		{"text equals string", Text("foo"), "foo", true},
		{"text differs", Text("foo"), "Foo", false},
		{"number never equals string", Int(5), "5", false},
		{"int equals int", Int(5), 5, true},
		{"int equals float", Int(5), 5.0, true},
		{"float equals int", Float(5), int64(5), true},
		{"float differs", Float(5.5), 5, false},
		{"bool equals bool", Bool(true), true, true},
		{"bool is not int", Bool(true), 1, false},
		{"empty equals nil", Empty(), nil, true},
		{"text is not nil", Text(""), nil, false},
		{"error code", Error(ErrDiv0), ErrDiv0, true},
		{"value int float", Int(2), Float(2), true},
		{"value text", Text("a"), Text("a"), true},
		{"value kinds differ", Text("1"), Int(1), false},
		{"value empty", Empty(), Empty(), true},
		{"datetime not number", DateTime(1), 1.0, false},
		{"unsupported type", Text("x"), []string{"x"}, false},
		{"uint32", Int(7), uint32(7), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Equals(tt.other))
		})
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, Text("FOO").EqualFold("foo"))
	assert.True(t, Text("Straße").EqualFold("STRASSE"))
	// Decomposed e + combining acute against precomposed é
	assert.True(t, Text("Cafe\u0301").EqualFold("CAF\u00c9"))
	assert.False(t, Text("foo").EqualFold("bar"))
	assert.False(t, Int(1).EqualFold("1"))
}

func TestAccessors(t *testing.T) {
	f, ok := Int(4).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	_, ok = Text("x").AsFloat()
	assert.False(t, ok)

	s, ok := Text("x").AsText()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Int(1).AsText()
	assert.False(t, ok)

	code, ok := Error(ErrRef).AsError()
	assert.True(t, ok)
	assert.Equal(t, ErrRef, code)

	b, ok := Bool(false).AsBool()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestAsTime(t *testing.T) {
	// 45292 is 2024-01-01 in the 1900 date system
	tm, ok := DateTime(45292).AsTime()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tm)

	_, ok = Float(45292).AsTime()
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "TRUE", Bool(true).String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "1.25", Float(1.25).String())
	assert.Equal(t, "#N/A", Error(ErrNA).String())
	assert.Equal(t, "2024-01-01T00:00:00Z", DateTime(45292).String())
}

func TestInfer(t *testing.T) {
	tests := []struct {
		raw      string
		expected Value
	}{
		{"", Empty()},
		{"   ", Empty()},
		{"12", Int(12)},
		{"-3", Int(-3)},
		{"1.5", Float(1.5)},
		{"1e3", Float(1000)},
		{"true", Bool(true)},
		{"FALSE", Bool(false)},
		{"#div/0!", Error(ErrDiv0)},
		{"NaN", Text("NaN")},
		{"Inf", Text("Inf")},
		{"Hoge", Text("Hoge")},
		{" padded ", Text(" padded ")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Infer(tt.raw)
			assert.Equal(t, tt.expected.Kind(), got.Kind())
			assert.True(t, got.Equals(tt.expected), "Infer(%q) = %#v", tt.raw, got)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Text", KindText.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
