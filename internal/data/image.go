package data

import (
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultWidth  = 4000
	DefaultHeight = 3000
)

// Contains data of one source image: name, channel label, pixel data and
// the camera pose (R, S) with the image resolution
type Image struct {
	Name    string
	Channel string
	Data    *mat.Dense
	R       *mat.Dense
	S       *mat.VecDense
	Size    [2]int
}

// Builds a new Image with an identity rotation, a center at the origin and
// a 4000x3000 resolution
func NewImage(name string, channel string) *Image {
	return &Image{
		Name:    name,
		Channel: channel,
		R:       identity3(),
		S:       mat.NewVecDense(3, nil),
		Size:    [2]int{DefaultWidth, DefaultHeight},
	}
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}
