package ply

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// ScalarType is the on-disk type of a PLY property value
type ScalarType int

const (
	Int8 ScalarType = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// canonical type names, as written for properties created in memory
var scalarTypeNames = map[ScalarType]string{
	Int8:    "char",
	Uint8:   "uchar",
	Int16:   "short",
	Uint16:  "ushort",
	Int32:   "int",
	Uint32:  "uint",
	Float32: "float",
	Float64: "double",
}

var scalarTypesByName = map[string]ScalarType{
	"char":    Int8,
	"int8":    Int8,
	"uchar":   Uint8,
	"uint8":   Uint8,
	"short":   Int16,
	"int16":   Int16,
	"ushort":  Uint16,
	"uint16":  Uint16,
	"int":     Int32,
	"int32":   Int32,
	"uint":    Uint32,
	"uint32":  Uint32,
	"float":   Float32,
	"float32": Float32,
	"double":  Float64,
	"float64": Float64,
}

// ParseScalarType resolves a PLY type name or one of its aliases
func ParseScalarType(name string) (ScalarType, error) {
	t, ok := scalarTypesByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

func (t ScalarType) String() string {
	if name, ok := scalarTypeNames[t]; ok {
		return name
	}
	return "ScalarType(" + strconv.Itoa(int(t)) + ")"
}

// Size returns the width in bytes of a binary encoded value
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// IsFloat reports whether the type holds floating point values
func (t ScalarType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Coerce brings v into the value range of t. Integer types truncate toward
// zero and wrap around, float32 rounds to single precision.
func (t ScalarType) Coerce(v float64) float64 {
	switch t {
	case Int8:
		return float64(int8(int64(v)))
	case Uint8:
		return float64(uint8(int64(v)))
	case Int16:
		return float64(int16(int64(v)))
	case Uint16:
		return float64(uint16(int64(v)))
	case Int32:
		return float64(int32(int64(v)))
	case Uint32:
		return float64(uint32(int64(v)))
	case Float32:
		return float64(float32(v))
	}
	return v
}

// Format renders v the way it appears in an ASCII payload
func (t ScalarType) Format(v float64) string {
	if t.IsFloat() && (math.IsNaN(v) || math.IsInf(v, 0)) {
		// decimal has no representation for these
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	switch t {
	case Float32:
		return decimal.NewFromFloat32(float32(v)).String()
	case Float64:
		return decimal.NewFromFloat(v).String()
	}
	return strconv.FormatInt(int64(t.Coerce(v)), 10)
}

// Parse reads one ASCII token of type t
func (t ScalarType) Parse(token string) (float64, error) {
	if t.IsFloat() {
		bits := 64
		if t == Float32 {
			bits = 32
		}
		return strconv.ParseFloat(token, bits)
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

func (t ScalarType) decode(order binary.ByteOrder, b []byte) float64 {
	switch t {
	case Int8:
		return float64(int8(b[0]))
	case Uint8:
		return float64(b[0])
	case Int16:
		return float64(int16(order.Uint16(b)))
	case Uint16:
		return float64(order.Uint16(b))
	case Int32:
		return float64(int32(order.Uint32(b)))
	case Uint32:
		return float64(order.Uint32(b))
	case Float32:
		return float64(math.Float32frombits(order.Uint32(b)))
	case Float64:
		return math.Float64frombits(order.Uint64(b))
	}
	return 0
}

func (t ScalarType) encode(order binary.ByteOrder, b []byte, v float64) {
	v = t.Coerce(v)
	switch t {
	case Int8:
		b[0] = byte(int8(v))
	case Uint8:
		b[0] = byte(v)
	case Int16:
		order.PutUint16(b, uint16(int16(v)))
	case Uint16:
		order.PutUint16(b, uint16(v))
	case Int32:
		order.PutUint32(b, uint32(int32(v)))
	case Uint32:
		order.PutUint32(b, uint32(v))
	case Float32:
		order.PutUint32(b, math.Float32bits(float32(v)))
	case Float64:
		order.PutUint64(b, math.Float64bits(v))
	}
}

// Property describes one named field of an element. List properties carry
// the type of their length prefix in CountType.
type Property struct {
	Name      string
	Type      ScalarType
	TypeName  string // declared spelling, empty means the canonical name
	List      bool
	CountType ScalarType
	CountName string
}

// NewProperty builds a scalar property with the canonical type name
func NewProperty(name string, t ScalarType) Property {
	return Property{Name: name, Type: t}
}

func (p Property) typeName() string {
	if p.TypeName != "" {
		return p.TypeName
	}
	return p.Type.String()
}

func (p Property) countName() string {
	if p.CountName != "" {
		return p.CountName
	}
	return p.CountType.String()
}

// header line for the property, without the trailing newline
func (p Property) declaration() string {
	if p.List {
		return "property list " + p.countName() + " " + p.typeName() + " " + p.Name
	}
	return "property " + p.typeName() + " " + p.Name
}
