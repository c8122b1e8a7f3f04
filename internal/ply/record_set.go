package ply

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType       = errors.New("unknown ply property type")
	ErrUnsupportedFormat = errors.New("unsupported ply format")
	ErrMalformedHeader   = errors.New("malformed ply header")
	ErrTruncatedData     = errors.New("truncated ply data")
	ErrMalformedData     = errors.New("malformed ply data")
	ErrFieldNotFound     = errors.New("field not found")
	ErrDuplicateField    = errors.New("duplicate field")
	ErrChannelLength     = errors.New("channel length does not match record count")
	ErrListProperty      = errors.New("list properties are not supported in a record set")
	ErrValueCount        = errors.New("value count does not match schema")
	ErrElementNotFound   = errors.New("element not found")
)

// Schema is the ordered list of scalar fields shared by every record of a set
type Schema []Property

// Index returns the position of the named field, or -1
func (s Schema) Index(name string) int {
	for i, p := range s {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the field names in order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// Extend returns a new schema with p appended. The receiver is left untouched.
func (s Schema) Extend(p Property) (Schema, error) {
	if s.Index(p.Name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateField, p.Name)
	}
	if p.List {
		return nil, fmt.Errorf("%w: %q", ErrListProperty, p.Name)
	}
	extended := make(Schema, len(s), len(s)+1)
	copy(extended, s)
	return append(extended, p), nil
}

func (s Schema) validate() error {
	seen := make(map[string]bool, len(s))
	for _, p := range s {
		if p.List {
			return fmt.Errorf("%w: %q", ErrListProperty, p.Name)
		}
		if p.Type.Size() == 0 {
			return fmt.Errorf("%w: property %q", ErrUnknownType, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateField, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// RecordSet holds the records of one element. Values are stored row-major,
// one float64 per field, already coerced to the field's on-disk type.
// A RecordSet is never modified after construction.
type RecordSet struct {
	name   string
	schema Schema
	values []float64
}

// NewRecordSet builds a record set over a copy of values
func NewRecordSet(name string, schema Schema, values []float64) (*RecordSet, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	width := len(schema)
	if width == 0 && len(values) > 0 || width > 0 && len(values)%width != 0 {
		return nil, fmt.Errorf("%w: %d values for %d fields", ErrValueCount, len(values), width)
	}

	stored := make([]float64, len(values))
	for i, v := range values {
		stored[i] = schema[i%width].Type.Coerce(v)
	}
	s := make(Schema, len(schema))
	copy(s, schema)

	return &RecordSet{name: name, schema: s, values: stored}, nil
}

// Name returns the element name, usually "vertex"
func (rs *RecordSet) Name() string {
	return rs.name
}

// Schema returns a copy of the field list
func (rs *RecordSet) Schema() Schema {
	s := make(Schema, len(rs.schema))
	copy(s, rs.schema)
	return s
}

// Len returns the number of records
func (rs *RecordSet) Len() int {
	if len(rs.schema) == 0 {
		return 0
	}
	return len(rs.values) / len(rs.schema)
}

// Row returns a copy of the values of record i, in schema order
func (rs *RecordSet) Row(i int) []float64 {
	w := len(rs.schema)
	row := make([]float64, w)
	copy(row, rs.values[i*w:(i+1)*w])
	return row
}

// Column returns the values of the named field for every record, in order
func (rs *RecordSet) Column(name string) ([]float64, error) {
	j := rs.schema.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q in element %q", ErrFieldNotFound, name, rs.name)
	}
	n := rs.Len()
	w := len(rs.schema)
	col := make([]float64, n)
	for i := 0; i < n; i++ {
		col[i] = rs.values[i*w+j]
	}
	return col, nil
}

// WithChannel builds a new record set whose schema is the receiver's plus one
// trailing field of type t, filled from channel. channel must hold exactly
// one value per record.
func (rs *RecordSet) WithChannel(name string, t ScalarType, channel []float64) (*RecordSet, error) {
	n := rs.Len()
	if len(channel) != n {
		return nil, fmt.Errorf("%w: %d values for %d records", ErrChannelLength, len(channel), n)
	}
	schema, err := rs.schema.Extend(NewProperty(name, t))
	if err != nil {
		return nil, err
	}

	w := len(rs.schema)
	values := make([]float64, 0, n*(w+1))
	for i := 0; i < n; i++ {
		values = append(values, rs.values[i*w:(i+1)*w]...)
		values = append(values, t.Coerce(channel[i]))
	}

	return &RecordSet{name: rs.name, schema: schema, values: values}, nil
}
