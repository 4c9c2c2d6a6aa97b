package providers

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// minFlatLength is the shortest flat response that is not considered
// empty.
const minFlatLength = 4

// Response is a command's output after classification. Structured
// responses carry Entries keyed by entity name (Names holds the keys in
// sorted order); flat responses carry one colon-delimited record per line.
type Response struct {
	Structured bool
	Names      []string
	Entries    map[string]interface{}
	Lines      []string
}

// ParseResponse classifies text as structured (a JSON object keyed by
// entity name) or flat (passwd(5)-style lines).
func ParseResponse(text string) (*Response, error) {
	if !json.Valid([]byte(text)) {
		trimmed := strings.TrimSpace(text)
		if len(trimmed) < minFlatLength {
			return nil, notFound("response is empty")
		}
		lines := strings.Split(trimmed, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSuffix(line, "\r")
		}
		return &Response{Lines: lines}, nil
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, tryAgain("JSON response is invalid: %w", err)
	}
	entries, ok := doc.(map[string]interface{})
	if !ok {
		return nil, tryAgain("JSON response is not an object")
	}
	if len(entries) == 0 {
		return nil, notFound("nothing found in JSON response")
	}
	return &Response{Structured: true, Names: sortedKeys(entries), Entries: entries}, nil
}

// fields reads typed values out of one structured entry.
type fields struct {
	name string
	obj  map[string]interface{}
}

func (r *Response) fields(name string) (fields, error) {
	obj, ok := r.Entries[name].(map[string]interface{})
	if !ok {
		return fields{}, tryAgain("entry %s is not an object", name)
	}
	return fields{name: name, obj: obj}, nil
}

func (f fields) str(key string) (string, error) {
	v, ok := f.obj[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", tryAgain("unable to parse %s for %s: expected a string, got %T", key, f.name, v)
	}
	return s, nil
}

func (f fields) number(key string) (string, bool, error) {
	v, ok := f.obj[key]
	if !ok {
		return "", false, nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", true, tryAgain("unable to parse %s for %s: expected a number, got %T", key, f.name, v)
	}
	return n.String(), true, nil
}

// uint32 returns the value of key and whether it was present.
func (f fields) uint32(key string) (uint32, bool, error) {
	s, present, err := f.number(key)
	if err != nil || !present {
		return 0, present, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, true, tryAgain("unable to parse %s for %s: %s is not an unsigned integer", key, f.name, s)
	}
	if n > math.MaxUint32 {
		return 0, true, tryAgain("%s for %s is out of range: %d", key, f.name, n)
	}
	return uint32(n), true, nil
}

func (f fields) int64(key string, def int64) (int64, error) {
	s, present, err := f.number(key)
	if err != nil || !present {
		return def, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, tryAgain("unable to parse %s for %s: %s is not a 64-bit integer", key, f.name, s)
	}
	return n, nil
}

func (f fields) uint64(key string, def uint64) (uint64, error) {
	s, present, err := f.number(key)
	if err != nil || !present {
		return def, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, tryAgain("unable to parse %s for %s: %s is not an unsigned 64-bit integer", key, f.name, s)
	}
	return n, nil
}

func (f fields) strings(key string) ([]string, error) {
	out := []string{}
	v, ok := f.obj[key]
	if !ok {
		return out, nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, tryAgain("unable to parse %s for %s: expected an array, got %T", key, f.name, v)
	}
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, tryAgain("unable to parse %s for %s: element %v is not a string", key, f.name, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// splitFlat checks that line has at least minSeparators colons and splits
// it into at most n fields.
func splitFlat(database, line string, minSeparators, n int) ([]string, error) {
	line = strings.TrimSpace(line)
	if strings.Count(line, ":") < minSeparators {
		return nil, tryAgain("returned %s data %q does not match expected unix form", database, line)
	}
	parts := strings.SplitN(line, ":", n)
	if parts[0] == "" {
		return nil, tryAgain("unable to parse name for %s line %q", database, line)
	}
	return parts, nil
}

// flatField returns field i of parts, or "" if the line was shorter.
func flatField(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func parseFlatUint32(database, field, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, tryAgain("unable to parse %s %q for %s", field, value, database)
	}
	return uint32(n), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
