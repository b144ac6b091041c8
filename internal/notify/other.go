//go:build !darwin && !linux

package notify

const platformTool = ""

var platformCommand commandFunc
