package fixedpoint

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"
)

// RecordKind discriminates the rows of a trace.
type RecordKind int

const (
	KindProgress RecordKind = iota
	KindError
	KindResult
)

func (k RecordKind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindError:
		return "error"
	case KindResult:
		return "result"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// Record is one row of an iteration trace. Which fields are meaningful
// depends on Kind:
//
//	KindProgress: I, Xi, GXi, E
//	KindError:    I, Error, and Candidates for the no-converging report
//	KindResult:   I, Result, Root
type Record struct {
	Kind       RecordKind
	I          int
	Xi         float64
	GXi        float64
	E          string
	Error      string
	Candidates string
	Result     string
	Root       float64
}

func ProgressRecord(i int, xi, gxi float64, e string) Record {
	return Record{Kind: KindProgress, I: i, Xi: xi, GXi: gxi, E: e}
}

func ErrorRecord(i int, msg string) Record {
	return Record{Kind: KindError, I: i, Error: msg}
}

func ResultRecord(i int, msg string, root float64) Record {
	return Record{Kind: KindResult, I: i, Result: msg, Root: root}
}

// Terminal reports whether r ends a trace.
func (r Record) Terminal() bool { return r.Kind != KindProgress }

type progressJSON struct {
	I   int         `json:"i"`
	Xi  json.Number `json:"Xi"`
	GXi json.Number `json:"G(Xi)"`
	E   string      `json:"E"`
}

type errorJSON struct {
	I          int    `json:"i"`
	Error      string `json:"Error"`
	Candidates string `json:"Candidates,omitempty"`
}

type resultJSON struct {
	I      int         `json:"i"`
	Result string      `json:"Result"`
	Root   json.Number `json:"Root"`
}

// jsonFloat writes v the way FormatFloat renders it, so integral values
// keep their decimal point. Non-finite values fail to marshal.
func jsonFloat(v float64) json.Number { return json.Number(FormatFloat(v)) }

// MarshalJSON emits only the keys of r's variant, in trace order. Floats
// always carry a decimal point or an exponent ("2.0", "1e-05").
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindProgress:
		return json.Marshal(progressJSON{I: r.I, Xi: jsonFloat(r.Xi), GXi: jsonFloat(r.GXi), E: r.E})
	case KindError:
		return json.Marshal(errorJSON{I: r.I, Error: r.Error, Candidates: r.Candidates})
	case KindResult:
		return json.Marshal(resultJSON{I: r.I, Result: r.Result, Root: jsonFloat(r.Root)})
	}
	return nil, fmt.Errorf("marshal record: unknown kind %v", r.Kind)
}

// UnmarshalJSON infers the variant from the keys present.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		I          int      `json:"i"`
		Xi         *float64 `json:"Xi"`
		GXi        float64  `json:"G(Xi)"`
		E          string   `json:"E"`
		Error      *string  `json:"Error"`
		Candidates string   `json:"Candidates"`
		Result     *string  `json:"Result"`
		Root       float64  `json:"Root"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Error != nil:
		*r = ErrorRecord(raw.I, *raw.Error)
		r.Candidates = raw.Candidates
	case raw.Result != nil:
		*r = ResultRecord(raw.I, *raw.Result, raw.Root)
	case raw.Xi != nil:
		*r = ProgressRecord(raw.I, *raw.Xi, raw.GXi, raw.E)
	default:
		return fmt.Errorf("unmarshal record: no Xi, Error or Result key in %s", data)
	}
	return nil
}

// MarshalYAML keeps the same keys and ordering as MarshalJSON.
func (r Record) MarshalYAML() (interface{}, error) {
	switch r.Kind {
	case KindProgress:
		return yaml.MapSlice{
			{Key: "i", Value: r.I},
			{Key: "Xi", Value: r.Xi},
			{Key: "G(Xi)", Value: r.GXi},
			{Key: "E", Value: r.E},
		}, nil
	case KindError:
		m := yaml.MapSlice{
			{Key: "i", Value: r.I},
			{Key: "Error", Value: r.Error},
		}
		if r.Candidates != "" {
			m = append(m, yaml.MapItem{Key: "Candidates", Value: r.Candidates})
		}
		return m, nil
	case KindResult:
		return yaml.MapSlice{
			{Key: "i", Value: r.I},
			{Key: "Result", Value: r.Result},
			{Key: "Root", Value: r.Root},
		}, nil
	}
	return nil, fmt.Errorf("marshal record: unknown kind %v", r.Kind)
}
