package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

// envBool accepts the usual on/off spellings; anything else keeps d.
func envBool(k string, d bool) bool {
	switch strings.ToLower(getenv(k, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return d
	}
	return n
}

func envDur(k string, d time.Duration) time.Duration {
	dur, err := time.ParseDuration(getenv(k, ""))
	if err != nil {
		return d
	}
	return dur
}
