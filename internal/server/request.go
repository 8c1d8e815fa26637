package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	fixedpoint "github.com/njchilds90/gofixedpoint"
)

const (
	msgNoData           = "No JSON data provided"
	msgEquationRequired = "Equation (fEquation) is required"
)

// requestError is a client mistake reported verbatim with status 400.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeRequest reads a /fixed_point body. Numeric fields may be JSON
// numbers or numeric strings; integer fields given as numbers are
// truncated toward zero.
func decodeRequest(body io.Reader) (fixedpoint.Request, error) {
	var req fixedpoint.Request

	dec := json.NewDecoder(body)
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}
		return req, badRequest(msgNoData)
	}
	if dec.More() {
		return req, badRequest("invalid JSON: trailing data")
	}
	if len(fields) == 0 {
		return req, badRequest(msgNoData)
	}

	var eq string
	if raw, ok := fields["fEquation"]; !ok || json.Unmarshal(raw, &eq) != nil || strings.TrimSpace(eq) == "" {
		return req, badRequest(msgEquationRequired)
	}
	req.Equation = eq

	var err error
	if req.InitialGuess, err = floatField(fields, "initialGuess"); err != nil {
		return req, err
	}
	if req.MaxIterations, err = intField(fields, "maxIterations"); err != nil {
		return req, err
	}
	if req.Tolerance, err = floatField(fields, "tolerance"); err != nil {
		return req, err
	}
	if req.DecimalPlaces, err = intField(fields, "decimalPlaces"); err != nil {
		return req, err
	}
	return req, nil
}

// fieldValue returns the field as either a number or a trimmed string.
func fieldValue(fields map[string]json.RawMessage, name string) (num json.Number, str string, err error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", "", badRequest("%s is required", name)
	}
	if json.Unmarshal(raw, &num) == nil && num != "" && raw[0] != '"' {
		return num, "", nil
	}
	if json.Unmarshal(raw, &str) == nil {
		return "", strings.TrimSpace(str), nil
	}
	return "", "", badRequest("%s must be a number, got %s", name, raw)
}

func floatField(fields map[string]json.RawMessage, name string) (float64, error) {
	num, str, err := fieldValue(fields, name)
	if err != nil {
		return 0, err
	}
	if num != "" {
		str = num.String()
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, badRequest("%s must be a number, got %q", name, str)
	}
	return v, nil
}

func intField(fields map[string]json.RawMessage, name string) (int, error) {
	num, str, err := fieldValue(fields, name)
	if err != nil {
		return 0, err
	}
	if num == "" {
		v, err := strconv.Atoi(str)
		if err != nil {
			return 0, badRequest("%s must be an integer, got %q", name, str)
		}
		return v, nil
	}
	f, err := num.Float64()
	if err != nil || math.Abs(f) > math.MaxInt32 {
		return 0, badRequest("%s is out of range: %s", name, num)
	}
	return int(math.Trunc(f)), nil
}

// schema describes POST /fixed_point for client registration.
var schema = map[string]interface{}{
	"name":        "fixed_point",
	"description": "Find a root of f(x) = 0 by fixed-point iteration x = g(x).",
	"method":      "POST",
	"path":        "/fixed_point",
	"input_schema": map[string]interface{}{
		"type":     "object",
		"required": []string{"fEquation", "initialGuess", "maxIterations", "tolerance", "decimalPlaces"},
		"properties": map[string]interface{}{
			"fEquation":     map[string]string{"type": "string", "description": "f(x) in terms of x, e.g. x**2 - 2"},
			"initialGuess":  map[string]string{"type": "number", "description": "starting point x0"},
			"maxIterations": map[string]string{"type": "integer", "description": "upper bound on progress rows"},
			"tolerance":     map[string]string{"type": "number", "description": "stopping threshold in percent"},
			"decimalPlaces": map[string]string{"type": "integer", "description": "rounding applied to reported values"},
		},
	},
	"output": "{\"iterations\": [row, ...]} where each row is a progress, error or result record",
}

func handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schema)
}
