//go:build darwin

package notify

import (
	"fmt"
	"strings"
)

const platformTool = "osascript"

func platformCommand(title, message string, sound bool) (string, []string) {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(message), escapeAppleScript(title))
	if sound {
		script += ` sound name "default"`
	}
	return platformTool, []string{"-e", script}
}

// escapeAppleScript escapes backslashes and quotes for AppleScript strings.
func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
