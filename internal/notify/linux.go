//go:build linux

package notify

const platformTool = "notify-send"

func platformCommand(title, message string, sound bool) (string, []string) {
	args := []string{"--app-name=protein"}
	// Sound depends on the notification daemon; urgency is the closest hint.
	if sound {
		args = append(args, "--urgency=normal")
	}
	return platformTool, append(args, title, message)
}
