package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format is the payload encoding named on the header "format" line
type Format string

const (
	FormatASCII              Format = "ascii"
	FormatBinaryLittleEndian Format = "binary_little_endian"
	FormatBinaryBigEndian    Format = "binary_big_endian"
)

const formatVersion = "1.0"

func (f Format) String() string {
	return string(f)
}

// ParseFormat validates a format keyword from the header "format" line
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.TrimSpace(value)); f {
	case FormatASCII, FormatBinaryLittleEndian, FormatBinaryBigEndian:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
}

func (f Format) byteOrder() binary.ByteOrder {
	if f == FormatBinaryBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ElementHeader is an "element" declaration with its properties
type ElementHeader struct {
	Name       string
	Count      int
	Properties []Property
}

func (e *ElementHeader) hasList() bool {
	for _, p := range e.Properties {
		if p.List {
			return true
		}
	}
	return false
}

// Header is the decoded text header of a PLY file
type Header struct {
	Format   Format
	Comments []string
	ObjInfo  []string
	Elements []*ElementHeader
}

// reads header lines up to and including end_header, leaving r positioned at
// the first payload byte
func readHeader(r *bufio.Reader) (*Header, error) {
	magic, err := readHeaderLine(r)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformedHeader)
	}

	h := &Header{}
	var current *ElementHeader
	for {
		line, err := readHeaderLine(r)
		if err != nil {
			return nil, err
		}
		keyword, rest := splitKeyword(line)
		fields := strings.Fields(rest)

		switch keyword {
		case "":
			continue
		case "end_header":
			if h.Format == "" {
				return nil, fmt.Errorf("%w: missing format line", ErrMalformedHeader)
			}
			return h, nil
		case "format":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			}
			if h.Format, err = ParseFormat(fields[0]); err != nil {
				return nil, err
			}
			if fields[1] != formatVersion {
				return nil, fmt.Errorf("%w: version %q", ErrUnsupportedFormat, fields[1])
			}
		case "comment":
			h.Comments = append(h.Comments, rest)
		case "obj_info":
			h.ObjInfo = append(h.ObjInfo, rest)
		case "element":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			}
			count, err := strconv.Atoi(fields[1])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: bad element count in %q", ErrMalformedHeader, line)
			}
			current = &ElementHeader{Name: fields[0], Count: count}
			h.Elements = append(h.Elements, current)
		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before element: %q", ErrMalformedHeader, line)
			}
			p, err := parseProperty(fields)
			if err != nil {
				return nil, fmt.Errorf("%w (line %q)", err, line)
			}
			current.Properties = append(current.Properties, p)
		default:
			return nil, fmt.Errorf("%w: unexpected keyword %q", ErrMalformedHeader, keyword)
		}
	}
}

func readHeaderLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("%w: unexpected end of header", ErrMalformedHeader)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func splitKeyword(line string) (string, string) {
	line = strings.TrimLeft(line, " \t")
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i+1:], " \t")
}

func parseProperty(fields []string) (Property, error) {
	if len(fields) == 4 && fields[0] == "list" {
		countType, err := ParseScalarType(fields[1])
		if err != nil {
			return Property{}, err
		}
		if countType.IsFloat() {
			return Property{}, fmt.Errorf("%w: list count type %q", ErrMalformedHeader, fields[1])
		}
		itemType, err := ParseScalarType(fields[2])
		if err != nil {
			return Property{}, err
		}
		return Property{
			Name:      fields[3],
			Type:      itemType,
			TypeName:  fields[2],
			List:      true,
			CountType: countType,
			CountName: fields[1],
		}, nil
	}
	if len(fields) != 2 {
		return Property{}, ErrMalformedHeader
	}
	t, err := ParseScalarType(fields[0])
	if err != nil {
		return Property{}, err
	}
	return Property{Name: fields[1], Type: t, TypeName: fields[0]}, nil
}

func writeHeader(w io.Writer, h *Header) error {
	var b strings.Builder
	b.WriteString("ply\n")
	b.WriteString("format " + h.Format.String() + " " + formatVersion + "\n")
	for _, c := range h.Comments {
		b.WriteString("comment " + c + "\n")
	}
	for _, o := range h.ObjInfo {
		b.WriteString("obj_info " + o + "\n")
	}
	for _, e := range h.Elements {
		b.WriteString("element " + e.Name + " " + strconv.Itoa(e.Count) + "\n")
		for _, p := range e.Properties {
			b.WriteString(p.declaration() + "\n")
		}
	}
	b.WriteString("end_header\n")

	_, err := io.WriteString(w, b.String())
	return err
}
