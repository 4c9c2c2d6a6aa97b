package providers

import (
	"math"
	"strconv"

	"github.com/xenago/libnss-shim/daemon/config"
)

var shadowCodec = codec[Shadow]{
	database:   config.DatabaseShadow,
	separators: 7,
	width:      9,
	fromEntry:  shadowFromEntry,
	fromLine:   shadowFromLine,
}

type shadowField struct {
	key string
	dst *int64
}

// shadowNumbers pairs each optional numeric field with its structured key,
// in flat field order.
func shadowNumbers(s *Shadow) []shadowField {
	return []shadowField{
		{"last_change", &s.LastChange},
		{"change_min_days", &s.MinDays},
		{"change_max_days", &s.MaxDays},
		{"change_warn_days", &s.WarnDays},
		{"change_inactive_days", &s.InactiveDays},
		{"expire_date", &s.ExpireDate},
	}
}

func shadowFromEntry(f fields) (*Shadow, error) {
	s := NewShadow(f.name)
	var err error
	if s.Passwd, err = f.str("passwd"); err != nil {
		return nil, err
	}
	for _, n := range shadowNumbers(s) {
		if *n.dst, err = f.int64(n.key, -1); err != nil {
			return nil, err
		}
	}
	if s.Reserved, err = f.uint64("reserved", math.MaxUint64); err != nil {
		return nil, err
	}
	return s, nil
}

// shadowFromLine decodes name:passwd:last:min:max:warn:inactive:expire:reserved.
// Numeric fields that are empty or unparsable keep their defaults.
func shadowFromLine(parts []string) (*Shadow, error) {
	s := NewShadow(parts[0])
	s.Passwd = parts[1]
	for i, n := range shadowNumbers(s) {
		if v, err := strconv.ParseInt(flatField(parts, i+2), 10, 64); err == nil {
			*n.dst = v
		}
	}
	if v, err := strconv.ParseUint(flatField(parts, 8), 10, 64); err == nil {
		s.Reserved = v
	}
	return s, nil
}

func shadowName(s *Shadow) string { return s.Name }
