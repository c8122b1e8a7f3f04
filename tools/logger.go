package tools

import (
	"fmt"

	"github.com/golang/glog"
)

var isEnabled = true

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func IsLoggerEnabled() bool {
	return isEnabled
}

// LogOutput writes progress messages through glog unless the logger is disabled
func LogOutput(val ...interface{}) {
	if IsLoggerEnabled() {
		glog.InfoDepth(1, fmt.Sprintln(val...))
	}
}
