package paste

import (
	"os"
	"strconv"
)

const (
	socketEnvVar        = "YDOTOOL_SOCKET"
	systemYdotoolSocket = "/run/ydotoold.sock"
)

// resolveYdotoolSocket returns the socket ydotool should talk to, or "" to let ydotool decide.
func resolveYdotoolSocket(getenv func(string) string, exists func(string) bool, uid int) string {
	if socket := getenv(socketEnvVar); socket != "" {
		return socket
	}
	if exists(systemYdotoolSocket) {
		return systemYdotoolSocket
	}
	userSocket := "/run/user/" + strconv.Itoa(uid) + "/.ydotool_socket"
	if exists(userSocket) {
		return userSocket
	}
	return ""
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
