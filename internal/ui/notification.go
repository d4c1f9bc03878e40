package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

func NotifyInfo(title, text string) {
	NotifySend(UrgencyLow, title, text, IconDialogInfo)
}

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification in the session of the user owning the current X display.
// adl2go usually runs as root, so the notification has to be sent "as" that user.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	user, userId, err := findDisplayUser(display)
	if err != nil {
		Warning("Cannot send notification: %v", err)
		return
	}

	cmd := exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userId+"/bus",
		"notify-send",
		"-a", "adl2go",
		"-u", urgency,
		"-i", icon,
		title, text,
	)
	if err = cmd.Run(); err != nil {
		Error("Error sending notification: %v", err)
	}
}

// findDisplayUser returns the name and uid of the user logged into the given display
func findDisplayUser(display string) (user string, userId string, err error) {
	output, err := exec.Command("who").Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to list logged in users: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.Contains(line, display) {
			user = fields[0]
			break
		}
	}
	if len(user) <= 0 {
		return "", "", fmt.Errorf("no user found for display %s", display)
	}

	output, err = exec.Command("id", "-u", user).Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to detect user id of %s: %w", user, err)
	}
	userId = strings.TrimSpace(string(output))
	if len(userId) <= 0 {
		return "", "", fmt.Errorf("empty user id for %s", user)
	}
	return user, userId, nil
}
