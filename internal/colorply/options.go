package colorply

import "strings"

// Selector names which color channels are pulled out of a point cloud
type Selector string

const (
	SelectorNone  Selector = ""
	SelectorAll   Selector = "ALL"
	SelectorRed   Selector = "RED"
	SelectorGreen Selector = "GREEN"
	SelectorBlue  Selector = "BLUE"
)

func (s Selector) String() string {
	switch s {
	case SelectorAll, SelectorRed, SelectorGreen, SelectorBlue:
		return strings.ToLower(string(s))
	}
	return "none"
}

// Channels returns the field names selected, in column order. SelectorNone
// selects nothing.
func (s Selector) Channels() []string {
	switch s {
	case SelectorAll:
		return []string{"red", "green", "blue"}
	case SelectorRed:
		return []string{"red"}
	case SelectorGreen:
		return []string{"green"}
	case SelectorBlue:
		return []string{"blue"}
	}
	return nil
}

// ParseSelector is case insensitive. Unrecognized values give SelectorNone.
func ParseSelector(value string) Selector {
	normalizedValue := Selector(strings.Trim(strings.ToUpper(value), " "))
	switch normalizedValue {
	case SelectorAll, SelectorRed, SelectorGreen, SelectorBlue:
		return normalizedValue
	}
	return SelectorNone
}

// Contains the options needed to load the inputs of a coloring run
type Options struct {
	PlyInput       string   // Input point cloud file
	OrientationDir string   // Folder holding the Orientation-*.xml documents
	CalibFile      string   // Intrinsic calibration document shared by all images
	Recursive      bool     // Recursive lookup of orientation documents in subfolders
	Channel        Selector // Channel the images are loaded for
	Output         string   // Output point cloud file, defaults to my_cloud.ply
	Silent         bool     // Suppresses progress messages
}

func (opt *Options) Copy() *Options {
	newOpt := *opt
	return &newOpt
}
