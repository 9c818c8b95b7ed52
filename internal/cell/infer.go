package cell

import (
	"strconv"
	"strings"
)

// ErrorCode is a spreadsheet error literal such as "#DIV/0!"
type ErrorCode string

const (
	ErrDiv0        ErrorCode = "#DIV/0!"
	ErrNA          ErrorCode = "#N/A"
	ErrName        ErrorCode = "#NAME?"
	ErrNull        ErrorCode = "#NULL!"
	ErrNum         ErrorCode = "#NUM!"
	ErrRef         ErrorCode = "#REF!"
	ErrValue       ErrorCode = "#VALUE!"
	ErrGettingData ErrorCode = "#GETTING_DATA"
)

var errorCodes = map[string]ErrorCode{
	string(ErrDiv0):        ErrDiv0,
	string(ErrNA):          ErrNA,
	string(ErrName):        ErrName,
	string(ErrNull):        ErrNull,
	string(ErrNum):         ErrNum,
	string(ErrRef):         ErrRef,
	string(ErrValue):       ErrValue,
	string(ErrGettingData): ErrGettingData,
}

// ParseErrorCode recognises the standard error literals (case-insensitive)
func ParseErrorCode(s string) (ErrorCode, bool) {
	code, ok := errorCodes[strings.ToUpper(strings.TrimSpace(s))]
	return code, ok
}

// Infer classifies an untyped text token, as found in delimited files
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !isSpecialFloat(trimmed) {
		return Float(f)
	}

	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return Bool(true)
	case "FALSE":
		return Bool(false)
	}

	if code, ok := ParseErrorCode(trimmed); ok {
		return Error(code)
	}

	// Keep surrounding whitespace for text; only classification trims
	return Text(raw)
}

// isSpecialFloat rejects tokens like "NaN" or "Inf" that ParseFloat accepts
func isSpecialFloat(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "inf") || strings.Contains(lower, "nan")
}
