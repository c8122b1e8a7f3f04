package calibration

import (
	"gonum.org/v1/gonum/mat"
)

const (
	calibrationRoot = "/ExportAPERO/CalibrationInternConique"
	ppPath          = calibrationRoot + "/PP"
	focalPath       = calibrationRoot + "/F"
	sizePath        = calibrationRoot + "/SzIm"
	cdistPath       = calibrationRoot + "/CalibDistortion/ModRad/CDist"
	coeffDistPath   = calibrationRoot + "/CalibDistortion/ModRad/CoeffDist"
)

// Distortion holds the first three radial distortion coefficients
type Distortion struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Calibration is the intrinsic calibration of a camera
type Calibration struct {
	F     *mat.VecDense // principal point x, y and the negated focal length
	PPS   *mat.VecDense // distortion center x, y and 0
	CDist Distortion
	Size  [2]int // image width, height in pixels
}

// FocalPoint returns [PP_x, PP_y, -F]
func (d *Document) FocalPoint() (*mat.VecDense, error) {
	pp, err := d.floats(ppPath, 2)
	if err != nil {
		return nil, err
	}
	f, err := d.floats(focalPath, 1)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(3, []float64{pp[0], pp[1], -f[0]}), nil
}

// DistortionCenter returns [CDist_x, CDist_y, 0]
func (d *Document) DistortionCenter() (*mat.VecDense, error) {
	c, err := d.floats(cdistPath, 2)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(3, []float64{c[0], c[1], 0}), nil
}

// Distortion reads the CoeffDist nodes in document order. MicMac may write
// more than three; only the first three are kept.
func (d *Document) Distortion() (Distortion, error) {
	nodes, err := d.queryAll(coeffDistPath)
	if err != nil {
		return Distortion{}, err
	}
	if len(nodes) < 3 {
		return Distortion{}, d.countError(coeffDistPath, len(nodes), 3)
	}

	var coeffs [3]float64
	for i := range coeffs {
		if coeffs[i], err = parseFloat(nodes[i].InnerText()); err != nil {
			return Distortion{}, d.wrap(coeffDistPath, err)
		}
	}
	return Distortion{A: coeffs[0], B: coeffs[1], C: coeffs[2]}, nil
}

// ImageSize returns the sensor resolution
func (d *Document) ImageSize() ([2]int, error) {
	size, err := d.ints(sizePath, 2)
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{size[0], size[1]}, nil
}

// Calibration reads every intrinsic parameter
func (d *Document) Calibration() (*Calibration, error) {
	dist, err := d.Distortion()
	if err != nil {
		return nil, err
	}
	pps, err := d.DistortionCenter()
	if err != nil {
		return nil, err
	}
	f, err := d.FocalPoint()
	if err != nil {
		return nil, err
	}
	size, err := d.ImageSize()
	if err != nil {
		return nil, err
	}
	return &Calibration{F: f, PPS: pps, CDist: dist, Size: size}, nil
}

// ReadCalib reads the intrinsic calibration of an AutoCal*.xml document
func ReadCalib(path string) (*Calibration, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.Calibration()
}

// ReadCalibF reads the principal point and negated focal length of a calibration document
func ReadCalibF(path string) (*mat.VecDense, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.FocalPoint()
}

// ReadCalibPPS reads the distortion center of a calibration document
func ReadCalibPPS(path string) (*mat.VecDense, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return d.DistortionCenter()
}

// ReadCalibDistortion reads the first three radial distortion coefficients
func ReadCalibDistortion(path string) (Distortion, error) {
	d, err := ParseFile(path)
	if err != nil {
		return Distortion{}, err
	}
	return d.Distortion()
}

// ReadSize reads the image resolution of a calibration document
func ReadSize(path string) ([2]int, error) {
	d, err := ParseFile(path)
	if err != nil {
		return [2]int{}, err
	}
	return d.ImageSize()
}
