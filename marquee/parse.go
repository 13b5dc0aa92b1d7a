package marquee

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const byteOrderMark = "\uFEFF"

// Parse turns host testimonial data into plain records. raw may be nil, a
// string of (possibly corrupted) JSON, []byte, a native slice of objects or a
// List. Empty input yields no records and no error.
func Parse(raw any, fields FieldMap) ([]Record, error) {
	fields = fields.withDefaults()
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return parseText(v, fields)
	case []byte:
		return parseText(string(v), fields)
	}
	return recordsFrom(raw, fields)
}

// ParseRecords is Parse with every failure swallowed. Failures are visible
// only on the debug level of logger, which may be nil.
func ParseRecords(raw any, fields FieldMap, logger *zap.Logger) []Record {
	recs, err := Parse(raw, fields)
	if err != nil {
		if logger != nil {
			logger.Debug("testimonial data discarded", zap.Error(err))
		}
		return nil
	}
	return recs
}

func parseText(s string, fields FieldMap) ([]Record, error) {
	text := strings.TrimPrefix(strings.TrimSpace(s), byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	v, err := decodeText(text)
	if err != nil {
		return nil, err
	}
	return recordsFrom(v, fields)
}

// decodeText tries well formed JSON first so valid escapes survive, then the
// repaired text strictly, then the repaired text with the lenient grammar.
func decodeText(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, nil
	}
	repaired := Repair(text)
	strictErr := json.Unmarshal([]byte(repaired), &v)
	if strictErr == nil {
		return v, nil
	}
	lv, lenientErr := parseLenient(repaired)
	if lenientErr == nil {
		return lv, nil
	}
	return nil, &MalformedInputError{Strict: strictErr, Lenient: lenientErr}
}

func recordsFrom(v any, fields FieldMap) ([]Record, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case List:
		return listRecords(t, fields), nil
	case []Record:
		return t, nil
	case []map[string]any:
		out := make([]Record, 0, len(t))
		for _, m := range t {
			out = append(out, Record(m))
		}
		return out, nil
	case []any:
		out := make([]Record, 0, len(t))
		for _, item := range t {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Record(m))
			case Record:
				out = append(out, m)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrNotAList, v)
}
