package cell

import (
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindError
	KindDateTime
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindText:
		return "Text"
	case KindError:
		return "Error"
	case KindDateTime:
		return "DateTime"
	default:
		return "Unknown"
	}
}

// Value is the content of one spreadsheet cell.
// The zero Value is Empty. Values are immutable once constructed.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64 // Float payload and DateTime serial
	s    string  // Text payload and error code
}

func Empty() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Error(code ErrorCode) Value { return Value{kind: KindError, s: string(code)} }
func DateTime(serial float64) Value { return Value{kind: KindDateTime, f: serial} }

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool { return v.kind == KindEmpty }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsInt() bool { return v.kind == KindInt }
func (v Value) IsFloat() bool { return v.kind == KindFloat }
func (v Value) IsText() bool { return v.kind == KindText }
func (v Value) IsError() bool { return v.kind == KindError }
func (v Value) IsDateTime() bool { return v.kind == KindDateTime }

// IsNumber reports whether the value is an Int or a Float
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the numeric payload of Int, Float and DateTime values
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat, KindDateTime:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindText
}

func (v Value) AsError() (ErrorCode, bool) {
	if v.kind != KindError {
		return "", false
	}
	return ErrorCode(v.s), true
}

// AsTime converts a DateTime serial using the 1900 date system
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindDateTime {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(v.f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Equals compares the value against a Go literal or another Value.
// Int and Float compare numerically; strings compare exactly.
func (v Value) Equals(other any) bool {
	switch o := other.(type) {
	case Value:
		return v.equalValue(o)
	case string:
		return v.kind == KindText && v.s == o
	case bool:
		return v.kind == KindBool && v.b == o
	case int:
		return v.equalInt(int64(o))
	case int8:
		return v.equalInt(int64(o))
	case int16:
		return v.equalInt(int64(o))
	case int32:
		return v.equalInt(int64(o))
	case int64:
		return v.equalInt(o)
	case uint:
		return o <= math.MaxInt64 && v.equalInt(int64(o))
	case uint8:
		return v.equalInt(int64(o))
	case uint16:
		return v.equalInt(int64(o))
	case uint32:
		return v.equalInt(int64(o))
	case uint64:
		return o <= math.MaxInt64 && v.equalInt(int64(o))
	case float32:
		return v.equalFloat(float64(o))
	case float64:
		return v.equalFloat(o)
	case ErrorCode:
		return v.kind == KindError && v.s == string(o)
	case nil:
		return v.kind == KindEmpty
	default:
		return false
	}
}

// EqualFold reports whether the value is text equal to s under Unicode
// case folding, after NFC normalisation of both sides
func (v Value) EqualFold(s string) bool {
	if v.kind != KindText {
		return false
	}
	return foldText(v.s) == foldText(s)
}

func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func (v Value) equalValue(o Value) bool {
	switch {
	case v.IsNumber() && o.IsNumber():
		if v.kind == KindInt && o.kind == KindInt {
			return v.i == o.i
		}
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	case v.kind != o.kind:
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindBool:
		return v.b == o.b
	case KindText, KindError:
		return v.s == o.s
	case KindDateTime:
		return v.f == o.f
	}
	return false
}

func (v Value) equalInt(i int64) bool {
	switch v.kind {
	case KindInt:
		return v.i == i
	case KindFloat:
		return v.f == float64(i)
	}
	return false
}

func (v Value) equalFloat(f float64) bool {
	switch v.kind {
	case KindInt:
		return float64(v.i) == f
	case KindFloat:
		return v.f == f
	}
	return false
}

// String renders the value the way a spreadsheet would display it
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText, KindError:
		return v.s
	case KindDateTime:
		if t, ok := v.AsTime(); ok {
			return t.Format(time.RFC3339)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return ""
	}
}

// GoString makes %#v output readable in test failures
func (v Value) GoString() string {
	if v.kind == KindEmpty {
		return "Empty"
	}
	return v.kind.String() + "(" + strconv.Quote(v.String()) + ")"
}
