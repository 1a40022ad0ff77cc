package stringutils

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"
)

const (
	shaLetters    = "0123456789abcdefghijklmnopqrstuvwxyz"
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits

	// TimestampLayout names artifacts with second granularity
	TimestampLayout = "20060102_150405"
)

// GetRunID generates the short identifier of one suite run
func GetRunID() string {
	return RandStringBytesMask(6, rand.NewSource(time.Now().UnixNano()))
}

// RandStringBytesMask returns n random characters drawn from src
func RandStringBytesMask(n int, src rand.Source) string {
	b := make([]byte, n)
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(shaLetters) {
			b[i] = shaLetters[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return string(b)
}

// TimestampedPath builds <dir>/<prefix>_<timestamp>.<ext>
func TimestampedPath(dir, prefix, ext string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, at.Format(TimestampLayout), ext))
}
