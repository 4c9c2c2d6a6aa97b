package providers

// codec turns one database's command output into records.
type codec[T any] struct {
	database   string
	separators int // colons a flat line must contain
	width      int // fields a flat line is split into
	fromEntry  func(f fields) (*T, error)
	fromLine   func(parts []string) (*T, error)
}

// parseLine splits and decodes one flat line.
func (c codec[T]) parseLine(line string) (*T, error) {
	parts, err := splitFlat(c.database, line, c.separators, c.width)
	if err != nil {
		return nil, err
	}
	return c.fromLine(parts)
}

// all decodes every record in resp. Structured entries come out in name
// order, flat lines in output order.
func (c codec[T]) all(resp *Response) ([]*T, error) {
	var out []*T
	if resp.Structured {
		for _, name := range resp.Names {
			f, err := resp.fields(name)
			if err != nil {
				return nil, err
			}
			rec, err := c.fromEntry(f)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	} else {
		for _, line := range resp.Lines {
			rec, err := c.parseLine(line)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, tryAgain("no %s entries returned", c.database)
	}
	return out, nil
}

// matcher checks that a record is the one a single-entry query asked for.
type matcher[T any] struct {
	// entry validates the first structured entry before it is decoded.
	entry func(f fields) error
	// line reports whether a decoded flat record is the one requested.
	line func(rec *T) bool
}

// one decodes the record resp holds for a single-entry query. A
// structured response must lead with the requested entity. Every flat
// line must be well formed, and the first matching one wins.
func (c codec[T]) one(resp *Response, m matcher[T]) (*T, error) {
	if resp.Structured {
		f, err := resp.fields(resp.Names[0])
		if err != nil {
			return nil, err
		}
		if err := m.entry(f); err != nil {
			return nil, err
		}
		return c.fromEntry(f)
	}

	var found *T
	for _, line := range resp.Lines {
		rec, err := c.parseLine(line)
		if err != nil {
			return nil, err
		}
		if found == nil && m.line(rec) {
			found = rec
		}
	}
	if found == nil {
		return nil, notFound("no matching %s entry in response", c.database)
	}
	return found, nil
}

func byName[T any](database, name string, nameOf func(*T) string) matcher[T] {
	return matcher[T]{
		entry: func(f fields) error {
			if f.name != name {
				return tryAgain("%s response for %s returned %s", database, name, f.name)
			}
			return nil
		},
		line: func(rec *T) bool {
			return nameOf(rec) == name
		},
	}
}

func byID[T any](database, key string, id uint32, idOf func(*T) uint32) matcher[T] {
	return matcher[T]{
		entry: func(f fields) error {
			got, present, err := f.uint32(key)
			if err != nil {
				return err
			}
			if !present {
				return tryAgain("%s response for %s %d has no %s", database, key, id, key)
			}
			if got != id {
				return tryAgain("%s response for %s %d returned %s %d", database, key, id, key, got)
			}
			return nil
		},
		line: func(rec *T) bool {
			return idOf(rec) == id
		},
	}
}
