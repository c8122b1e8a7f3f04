package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecopia-map/colorply/internal/colorply"
)

type FileFinder interface {
	GetOrientationFiles(opts *colorply.Options) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// GetOrientationFiles lists the Orientation-*.xml documents of opts.OrientationDir,
// eventually excluding nested folders if Recursive flag is disabled. Paths are
// returned sorted so image order is stable.
func (f *StandardFileFinder) GetOrientationFiles(opts *colorply.Options) ([]string, error) {
	var files = make([]string, 0)

	baseInfo, err := os.Stat(opts.OrientationDir)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		opts.OrientationDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if !opts.Recursive && !os.SameFile(info, baseInfo) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsOrientationFile(info.Name()) {
				files = append(files, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func IsOrientationFile(name string) bool {
	return strings.HasPrefix(name, OrientationFilePrefix) &&
		strings.EqualFold(filepath.Ext(name), OrientationFileSuffix)
}

// ImageNameFromOrientationFile strips the orientation prefix and the xml
// extension: "Orientation-IMG_1.JPG.xml" gives "IMG_1.JPG"
func ImageNameFromOrientationFile(path string) string {
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, OrientationFilePrefix)
	return name[:len(name)-len(filepath.Ext(name))]
}
