package monitor

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ASCII whitespace only; other unicode spaces are payload.
const lineCutset = " \t\r\n\v\f"

func parseBaudRate(s string) (int, error) {
	u64, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	if u64 == 0 {
		return 0, fmt.Errorf("invalid baud rate %s", s)
	}
	return int(u64), nil
}

// decodeLine trims whitespace and line endings from line and decodes it as UTF-8.
func decodeLine(line []byte) (string, error) {
	line = bytes.Trim(line, lineCutset)
	if !utf8.Valid(line) {
		return "", &DecodeError{Line: append([]byte(nil), line...)}
	}
	return string(line), nil
}
