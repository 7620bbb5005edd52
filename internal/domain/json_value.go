package domain

import (
	"bytes"
	"encoding/json"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// JSONValue holds an operator-entered JSON field. Free-text input is parsed
// on every edit; text that is not valid JSON (even after repair) is kept
// verbatim in Raw so no keystroke is ever rejected or lost.
type JSONValue struct {
	Raw    string
	Parsed any
	Valid  bool
}

// ParseJSONValue parses text into a JSONValue. A strict parse is tried
// first, then a repair pass for the usual operator slips (single quotes,
// trailing commas, unquoted keys). Raw always retains the original text.
func ParseJSONValue(text string) JSONValue {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return JSONValue{Raw: text, Parsed: parsed, Valid: true}
	}

	repaired, err := jsonrepair.RepairJSON(text)
	if err == nil {
		if err := json.Unmarshal([]byte(repaired), &parsed); err == nil {
			return JSONValue{Raw: text, Parsed: parsed, Valid: true}
		}
	}

	return JSONValue{Raw: text}
}

// MarshalJSON emits the parsed value when the field held valid JSON and the
// raw text as a JSON string otherwise, matching what the backend stores.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if v.Valid {
		return json.Marshal(v.Parsed)
	}
	return json.Marshal(v.Raw)
}

func (v *JSONValue) UnmarshalJSON(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	*v = JSONValue{Parsed: parsed, Valid: true}

	if s, ok := parsed.(string); ok {
		v.Raw = s
	} else {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			v.Raw = string(data)
		} else {
			v.Raw = buf.String()
		}
	}

	return nil
}

// Text returns what an editor field should display for this value.
func (v JSONValue) Text() string {
	return v.Raw
}
