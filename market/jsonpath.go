package market

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// get evaluates a JSONPath expression against a decoded JSON value.
func get(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("%s: no match", path)
		}
		jval = jlist[0]
	}
	if jval == nil {
		return nil, fmt.Errorf("%s: null value", path)
	}
	return jval, nil
}

// getDecimal evaluates path and reads the result as a decimal number.
func getDecimal(path string, jobj any) (decimal.Decimal, error) {
	jval, err := get(path, jobj)
	if err != nil {
		return decimal.Zero, err
	}
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// sometimes, APIs return the value as a string
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("%s: not a number: %v", path, jval)
	}
}

// getString evaluates path and reads the result as a non empty string.
func getString(path string, jobj any) (string, error) {
	jval, err := get(path, jobj)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: not a string: %v", path, jval)
	}
	return s, nil
}
