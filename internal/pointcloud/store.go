// Package pointcloud reads PLY point clouds into typed record sets, turns
// them into coordinate/channel matrices and writes them back with one extra
// per-point channel.
package pointcloud

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"

	"github.com/ecopia-map/colorply/internal/colorply"
	"github.com/ecopia-map/colorply/internal/ply"
	"github.com/ecopia-map/colorply/tools"
)

// VertexElement is the element every point cloud operation works on
const VertexElement = "vertex"

var (
	ErrNoPoints     = errors.New("point cloud has no points")
	ErrRowMismatch  = errors.New("coordinate rows do not match record count")
	ErrNotPointData = errors.New("record set is not a vertex element")
)

var coordinateFields = [3]string{"x", "y", "z"}

// Read loads the vertex element of the PLY file at path. Field names, order
// and on-disk types are kept exactly as declared.
func Read(path string) (*ply.RecordSet, error) {
	tools.LogOutput("> reading point cloud", filepath.Base(path))
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	records, err := f.Element(VertexElement)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	glog.V(1).Infof("point cloud %s: %d points, fields %v", path, records.Len(), records.Schema().Names())

	return records, nil
}

// ReadFile decodes the whole PLY file at path, header metadata included
func ReadFile(path string) (*ply.File, error) {
	file, err := tools.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	f, err := ply.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ToCoordinateArray returns the x, y, z fields as an N×3 matrix in record order
func ToCoordinateArray(records *ply.RecordSet) (*mat.Dense, error) {
	n := records.Len()
	if n == 0 {
		return nil, ErrNoPoints
	}

	coords := mat.NewDense(n, len(coordinateFields), nil)
	for j, name := range coordinateFields {
		col, err := records.Column(name)
		if err != nil {
			return nil, err
		}
		coords.SetCol(j, col)
	}
	return coords, nil
}

// ExtractChannel returns a copy of coords with the named field of records
// appended as a trailing column
func ExtractChannel(records *ply.RecordSet, coords mat.Matrix, name string) (*mat.Dense, error) {
	rows, cols := coords.Dims()
	if rows != records.Len() {
		return nil, fmt.Errorf("%w: %d rows, %d records", ErrRowMismatch, rows, records.Len())
	}
	col, err := records.Column(name)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols+1, nil)
	out.Slice(0, rows, 0, cols).(*mat.Dense).Copy(coords)
	out.SetCol(cols, col)
	return out, nil
}

// AppendChannels appends the color columns chosen by selector to coords.
// SelectorNone returns coords itself.
func AppendChannels(records *ply.RecordSet, coords *mat.Dense, selector colorply.Selector) (*mat.Dense, error) {
	data := coords
	for _, name := range selector.Channels() {
		var err error
		if data, err = ExtractChannel(records, data, name); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ExtractChannels builds the coordinate matrix of records followed by the
// color columns named by selector ("all", "red", "green" or "blue", any
// case). Any other selector yields the bare N×3 coordinates.
func ExtractChannels(records *ply.RecordSet, selector string) (*mat.Dense, error) {
	coords, err := ToCoordinateArray(records)
	if err != nil {
		return nil, err
	}
	return AppendChannels(records, coords, colorply.ParseSelector(selector))
}

// AppendChannelAndWrite writes records plus one uchar field called name,
// filled from channel, to outPath in ASCII encoding. An empty outPath writes
// to my_cloud.ply. channel must hold one value per record.
func AppendChannelAndWrite(records *ply.RecordSet, channel []float64, name string, outPath string) error {
	if records.Name() != VertexElement {
		return fmt.Errorf("%w: %q", ErrNotPointData, records.Name())
	}
	augmented, err := records.WithChannel(name, ply.Uint8, channel)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = tools.DefaultCloudFileName
	}
	return WriteFile(outPath, &ply.File{
		Format:   ply.FormatASCII,
		Elements: []*ply.RecordSet{augmented},
	})
}

// WriteFile encodes f to path, creating the parent folder if needed
func WriteFile(path string, f *ply.File) (err error) {
	file, err := tools.CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	if err = ply.Write(file, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	tools.LogOutput("> point cloud written", filepath.Base(path))
	return nil
}
