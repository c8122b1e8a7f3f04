package pkg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"

	"github.com/ecopia-map/colorply/internal/calibration"
	"github.com/ecopia-map/colorply/internal/colorply"
	"github.com/ecopia-map/colorply/internal/data"
	"github.com/ecopia-map/colorply/internal/ply"
	"github.com/ecopia-map/colorply/internal/pointcloud"
	"github.com/ecopia-map/colorply/tools"
)

var ErrNoOrientation = errors.New("no orientation documents found")

// Loader assembles the inputs a coloring run consumes and writes its result
type Loader interface {
	LoadImages(opts *colorply.Options) ([]*data.Image, *calibration.Calibration, error)
	LoadCloud(opts *colorply.Options) (*ply.RecordSet, *mat.Dense, error)
	WriteChannel(opts *colorply.Options, records *ply.RecordSet, channel []float64, name string) error
}

type StandardLoader struct {
	fileFinder tools.FileFinder
}

func NewLoader(fileFinder tools.FileFinder) Loader {
	return &StandardLoader{
		fileFinder: fileFinder,
	}
}

// set logging and progress output for the run
func setLogging(opts *colorply.Options) {
	if opts.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
	}
}

// LoadImages reads the shared calibration and one orientation per
// Orientation-*.xml document, in file name order
func (l *StandardLoader) LoadImages(opts *colorply.Options) ([]*data.Image, *calibration.Calibration, error) {
	setLogging(opts)
	glog.Infoln("Preparing list of orientation documents...")

	calib, err := calibration.ReadCalib(opts.CalibFile)
	if err != nil {
		return nil, nil, err
	}
	glog.V(1).Infof("calibration %s: F=%v PPS=%v dist=%s size=%v", opts.CalibFile,
		calib.F.RawVector().Data, calib.PPS.RawVector().Data, tools.FmtJSONString(calib.CDist), calib.Size)

	files, err := l.fileFinder.GetOrientationFiles(opts)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", ErrNoOrientation, opts.OrientationDir)
	}

	images := make([]*data.Image, 0, len(files))
	for i, filePath := range files {
		tools.LogOutput("Reading orientation " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(files)) + " " + filepath.Base(filePath))
		ori, err := calibration.ReadOrientationFull(filePath)
		if err != nil {
			return nil, nil, err
		}

		img := data.NewImage(tools.ImageNameFromOrientationFile(filePath), opts.Channel.String())
		img.R = ori.R
		img.S = ori.S
		img.Size = calib.Size
		images = append(images, img)
	}

	return images, calib, nil
}

// LoadCloud reads opts.PlyInput and extracts the coordinates followed by the
// channels named by opts.Channel
func (l *StandardLoader) LoadCloud(opts *colorply.Options) (*ply.RecordSet, *mat.Dense, error) {
	setLogging(opts)
	records, err := pointcloud.Read(opts.PlyInput)
	if err != nil {
		return nil, nil, err
	}
	coords, err := pointcloud.ToCoordinateArray(records)
	if err != nil {
		return nil, nil, err
	}
	points, err := pointcloud.AppendChannels(records, coords, opts.Channel)
	if err != nil {
		return nil, nil, err
	}
	return records, points, nil
}

// WriteChannel appends channel to records and writes the cloud to opts.Output
func (l *StandardLoader) WriteChannel(opts *colorply.Options, records *ply.RecordSet, channel []float64, name string) error {
	setLogging(opts)
	tools.LogOutput("> exporting channel", name)
	return pointcloud.AppendChannelAndWrite(records, channel, name, opts.Output)
}
