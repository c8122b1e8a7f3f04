package calibration

import (
	"gonum.org/v1/gonum/mat"
)

const (
	orientationRoot = "/ExportAPERO/OrientationConique/Externe"
	rotationRoot    = orientationRoot + "/ParamRotation/CodageMatr"
	centerPath      = orientationRoot + "/Centre"
)

var rotationRows = [3]string{rotationRoot + "/L1", rotationRoot + "/L2", rotationRoot + "/L3"}

// Orientation is the extrinsic pose of one image
type Orientation struct {
	R *mat.Dense    // 3×3 rotation, rows L1, L2, L3
	S *mat.VecDense // camera center
}

// Rotation returns the rotation matrix stacked from rows L1, L2, L3. No
// orthonormality check is made.
func (d *Document) Rotation() (*mat.Dense, error) {
	r := mat.NewDense(3, 3, nil)
	for i, path := range rotationRows {
		row, err := d.floats(path, 3)
		if err != nil {
			return nil, err
		}
		r.SetRow(i, row)
	}
	return r, nil
}

// Center returns the camera center
func (d *Document) Center() (*mat.VecDense, error) {
	s, err := d.floats(centerPath, 3)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(3, s), nil
}

// Orientation returns rotation and center together
func (d *Document) Orientation() (*Orientation, error) {
	r, err := d.Rotation()
	if err != nil {
		return nil, err
	}
	s, err := d.Center()
	if err != nil {
		return nil, err
	}
	return &Orientation{R: r, S: s}, nil
}

// ReadOrientation reads the rotation matrix of an Orientation-*.xml document
func ReadOrientation(path string) (*mat.Dense, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.Rotation()
}

// ReadCenter reads the camera center of an Orientation-*.xml document
func ReadCenter(path string) (*mat.VecDense, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.Center()
}

// ReadOrientationFull reads rotation and center in one pass over the document
func ReadOrientationFull(path string) (*Orientation, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.Orientation()
}
