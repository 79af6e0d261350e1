package utils

import (
	"os"
	"os/user"
)

// HomeDir returns the current user's home directory which is the default
// location for the vault base dir.
func HomeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}
	return currentUser.HomeDir
}
