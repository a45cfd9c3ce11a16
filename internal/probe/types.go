package probe

import "sort"

// Section tags the pipeline reads.
const (
	SectionFormat = "FORMAT"
	SectionStream = "STREAM"
)

// Field is one key=value line of a section.
type Field struct {
	Key   string
	Value string
}

// Record is one bracketed block. Fields keep file order and keys are unique;
// setting an existing key replaces its value in place.
type Record struct {
	Fields []Field
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set stores value under key, keeping the original position of an existing key.
func (r *Record) Set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Sections maps a section tag to its records in file order.
type Sections map[string][]Record

// Format returns the first FORMAT record.
func (s Sections) Format() (Record, bool) {
	recs := s[SectionFormat]
	if len(recs) == 0 {
		return Record{}, false
	}
	return recs[0], true
}

// Streams returns the STREAM records in file order.
func (s Sections) Streams() []Record {
	return s[SectionStream]
}

// tags returns the section names sorted, for deterministic serialization.
func (s Sections) tags() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
