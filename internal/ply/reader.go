package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
)

// File is a decoded PLY file. Elements holds one record set per element with
// scalar properties only; elements declaring list properties are consumed
// from the payload but not kept.
type File struct {
	Format   Format
	Comments []string
	ObjInfo  []string
	Elements []*RecordSet
}

// Element returns the record set of the named element
func (f *File) Element(name string) (*RecordSet, error) {
	for _, e := range f.Elements {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrElementNotFound, name)
}

// Read decodes a PLY file in any of the three encodings
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("ply header: format=%s elements=%d", h.Format, len(h.Elements))

	var dec elementDecoder
	if h.Format == FormatASCII {
		dec = newASCIIDecoder(br)
	} else {
		dec = &binaryDecoder{r: br, order: h.Format.byteOrder()}
	}

	f := &File{
		Format:   h.Format,
		Comments: h.Comments,
		ObjInfo:  h.ObjInfo,
	}
	for _, e := range h.Elements {
		glog.V(2).Infof("ply element %q: %d records, %d properties", e.Name, e.Count, len(e.Properties))
		rs, err := decodeElement(dec, e)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", e.Name, err)
		}
		if rs != nil {
			f.Elements = append(f.Elements, rs)
		}
	}

	return f, nil
}

// elementDecoder yields the values of one record at a time. beginRecord and
// endRecord bracket every record so text payloads can check line boundaries.
type elementDecoder interface {
	beginRecord() error
	next(t ScalarType) (float64, error)
	endRecord() error
}

// upper bound on records preallocated from the header count
const maxPreallocRecords = 1 << 16

func decodeElement(dec elementDecoder, e *ElementHeader) (*RecordSet, error) {
	keep := !e.hasList()
	var values []float64
	if keep {
		values = make([]float64, 0, min(e.Count, maxPreallocRecords)*len(e.Properties))
	}

	for i := 0; i < e.Count; i++ {
		if err := dec.beginRecord(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		for _, p := range e.Properties {
			if p.List {
				n, err := dec.next(p.CountType)
				if err != nil {
					return nil, fmt.Errorf("record %d, property %q: %w", i, p.Name, err)
				}
				for k := 0; k < int(n); k++ {
					if _, err := dec.next(p.Type); err != nil {
						return nil, fmt.Errorf("record %d, property %q: %w", i, p.Name, err)
					}
				}
				continue
			}
			v, err := dec.next(p.Type)
			if err != nil {
				return nil, fmt.Errorf("record %d, property %q: %w", i, p.Name, err)
			}
			if keep {
				values = append(values, v)
			}
		}
		if err := dec.endRecord(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	if !keep {
		glog.V(1).Infof("ply element %q has list properties, skipped", e.Name)
		return nil, nil
	}
	return NewRecordSet(e.Name, Schema(e.Properties), values)
}

type binaryDecoder struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (d *binaryDecoder) beginRecord() error { return nil }

func (d *binaryDecoder) endRecord() error { return nil }

func (d *binaryDecoder) next(t ScalarType) (float64, error) {
	b := d.buf[:t.Size()]
	if _, err := io.ReadFull(d.r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrTruncatedData
		}
		return 0, err
	}
	return t.decode(d.order, b), nil
}

// asciiDecoder reads one record per line
type asciiDecoder struct {
	r      *bufio.Reader
	tokens []string
}

func newASCIIDecoder(r *bufio.Reader) *asciiDecoder {
	return &asciiDecoder{r: r}
}

// loads the next non blank line
func (d *asciiDecoder) beginRecord() error {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if d.tokens = strings.Fields(line); len(d.tokens) > 0 {
			return nil
		}
		if err != nil {
			return ErrTruncatedData
		}
	}
}

func (d *asciiDecoder) next(t ScalarType) (float64, error) {
	if len(d.tokens) == 0 {
		return 0, fmt.Errorf("%w: line ends before %s value", ErrMalformedData, t)
	}
	token := d.tokens[0]
	d.tokens = d.tokens[1:]
	v, err := t.Parse(token)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s value: %v", ErrMalformedData, t, err)
	}
	return v, nil
}

func (d *asciiDecoder) endRecord() error {
	if len(d.tokens) > 0 {
		return fmt.Errorf("%w: %d extra values on line", ErrMalformedData, len(d.tokens))
	}
	return nil
}
