package pkg

import "math/rand"

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandString returns n random alphanumeric characters. Not cryptographically
// secure; meant for test fixtures and disambiguating suffixes.
func RandString(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanum[rand.Intn(len(alphanum))] //nolint:gosec
	}
	return string(buf)
}
