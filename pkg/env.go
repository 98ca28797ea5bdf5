package pkg

import "os"

// Getenv returns the value of the environment variable key if it is set
// (even if set to the empty string), otherwise defaultValue.
func Getenv(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	return value
}
