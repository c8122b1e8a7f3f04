// Package calibration extracts camera geometry from MicMac (APERO) XML
// exports: the per-image orientation (rotation and center) and the per-camera
// intrinsic calibration (focal, principal point, radial distortion, size).
package calibration

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/golang/glog"

	"github.com/ecopia-map/colorply/tools"
)

var (
	ErrMissingNode   = errors.New("node not found")
	ErrMultipleNodes = errors.New("node matched more than once")
	ErrValueCount    = errors.New("unexpected number of values")
)

// Document is a parsed calibration or orientation export
type Document struct {
	root   *xmlquery.Node
	source string
}

// Parse reads a whole XML document from r. name is only used in errors.
func Parse(r io.Reader, name string) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Document{root: root, source: name}, nil
}

// ParseFile reads the XML document at path
func ParseFile(path string) (*Document, error) {
	file, err := tools.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	glog.V(2).Infof("parsing calibration document %s", path)
	return Parse(file, path)
}

// all nodes at an absolute path, at least one
func (d *Document) queryAll(path string) ([]*xmlquery.Node, error) {
	nodes, err := xmlquery.QueryAll(d.root, path)
	if err != nil {
		return nil, fmt.Errorf("%s: query %s: %w", d.source, path, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w: %s", d.source, ErrMissingNode, path)
	}
	return nodes, nil
}

// text of the single node at an absolute path
func (d *Document) queryOne(path string) (string, error) {
	nodes, err := d.queryAll(path)
	if err != nil {
		return "", err
	}
	if len(nodes) > 1 {
		return "", fmt.Errorf("%s: %w: %s (%d matches)", d.source, ErrMultipleNodes, path, len(nodes))
	}
	return nodes[0].InnerText(), nil
}

func (d *Document) floats(path string, n int) ([]float64, error) {
	fields, err := d.values(path, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, f := range fields {
		if out[i], err = parseFloat(f); err != nil {
			return nil, d.wrap(path, err)
		}
	}
	return out, nil
}

func (d *Document) ints(path string, n int) ([]int, error) {
	fields, err := d.values(path, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, f := range fields {
		if out[i], err = strconv.Atoi(f); err != nil {
			return nil, d.wrap(path, err)
		}
	}
	return out, nil
}

// space separated literals of the single node at path, exactly n of them
func (d *Document) values(path string, n int) ([]string, error) {
	text, err := d.queryOne(path)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(text)
	if len(fields) != n {
		return nil, d.countError(path, len(fields), n)
	}
	return fields, nil
}

func (d *Document) countError(path string, got, want int) error {
	return fmt.Errorf("%s: %w: %s has %d, want %d", d.source, ErrValueCount, path, got, want)
}

func (d *Document) wrap(path string, err error) error {
	return fmt.Errorf("%s: %s: %w", d.source, path, err)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
