package utils

import (
	"math/rand"
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

const idBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandID returns a short random identifier used as the public id of posts,
// comments and templates. Uniqueness is enforced by the DB index, not here.
func RandID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idBytes[rand.Intn(len(idBytes))]
	}
	return string(b)
}
