package ply

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write encodes f in f.Format. Every element is written with the schema of
// its record set.
func Write(w io.Writer, f *File) error {
	format := f.Format
	if format == "" {
		format = FormatASCII
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	h := &Header{
		Format:   format,
		Comments: f.Comments,
		ObjInfo:  f.ObjInfo,
	}
	for _, rs := range f.Elements {
		h.Elements = append(h.Elements, &ElementHeader{
			Name:       rs.name,
			Count:      rs.Len(),
			Properties: rs.schema,
		})
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, h); err != nil {
		return err
	}
	for _, rs := range f.Elements {
		var err error
		if format == FormatASCII {
			err = writeASCII(bw, rs)
		} else {
			err = writeBinary(bw, rs, format)
		}
		if err != nil {
			return fmt.Errorf("element %q: %w", rs.name, err)
		}
	}

	return bw.Flush()
}

func writeASCII(w *bufio.Writer, rs *RecordSet) error {
	n := rs.Len()
	width := len(rs.schema)
	tokens := make([]string, width)
	for i := 0; i < n; i++ {
		for j, p := range rs.schema {
			tokens[j] = p.Type.Format(rs.values[i*width+j])
		}
		if _, err := w.WriteString(strings.Join(tokens, " ") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeBinary(w *bufio.Writer, rs *RecordSet, format Format) error {
	order := format.byteOrder()
	rowSize := 0
	for _, p := range rs.schema {
		rowSize += p.Type.Size()
	}

	row := make([]byte, rowSize)
	n := rs.Len()
	width := len(rs.schema)
	for i := 0; i < n; i++ {
		offset := 0
		for j, p := range rs.schema {
			size := p.Type.Size()
			p.Type.encode(order, row[offset:offset+size], rs.values[i*width+j])
			offset += size
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
