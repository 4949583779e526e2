package util

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const gib = 1024 * 1024 * 1024

var (
	sizeRegex = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([KMGTP]?(?:i)?B?)$`)

	// ErrInvalidCapacity is returned for sizes that cannot be sent to the API.
	ErrInvalidCapacity = errors.New("invalid capacity")
)

// ParseBytes parses a size string with a unit suffix into bytes.
// Supported units:
//   - B: bytes
//   - KB, KiB (or K): kilobytes (1000 or 1024)
//   - MB, MiB (or M)
//   - GB, GiB (or G)
//   - TB, TiB (or T)
//   - PB, PiB (or P)
//
// A bare number is taken as bytes.
func ParseBytes(sizeStr string) (uint64, error) {
	sizeStr = strings.TrimSpace(sizeStr)
	if sizeStr == "" {
		return 0, fmt.Errorf("%w: size string is empty", ErrInvalidCapacity)
	}

	if num, err := strconv.ParseUint(sizeStr, 10, 64); err == nil {
		return num, nil
	}

	matches := sizeRegex.FindStringSubmatch(sizeStr)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCapacity, sizeStr)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrInvalidCapacity, matches[1])
	}

	var multiplier float64
	switch strings.ToUpper(matches[2]) {
	case "B":
		multiplier = 1
	case "KB":
		multiplier = 1e3
	case "K", "KIB":
		multiplier = 1 << 10
	case "MB":
		multiplier = 1e6
	case "M", "MIB":
		multiplier = 1 << 20
	case "GB":
		multiplier = 1e9
	case "G", "GIB":
		multiplier = 1 << 30
	case "TB":
		multiplier = 1e12
	case "T", "TIB":
		multiplier = 1 << 40
	case "PB":
		multiplier = 1e15
	case "P", "PIB":
		multiplier = 1 << 50
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidCapacity, matches[2])
	}

	total := value * multiplier
	if total > math.MaxUint64 {
		return 0, fmt.Errorf("%w: size overflow %q", ErrInvalidCapacity, sizeStr)
	}
	return uint64(total), nil
}

// ParseCapacity converts a capacity argument into the whole number of
// gigabytes the VPSA expects. A plain integer is already a GB count. A value
// with a unit is converted to GiB and rounded up.
func ParseCapacity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%w: capacity must be greater than 0, got %d", ErrInvalidCapacity, n)
		}
		return n, nil
	}

	bytes, err := ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if bytes == 0 {
		return 0, fmt.Errorf("%w: capacity must be greater than 0", ErrInvalidCapacity)
	}
	gb := (bytes + gib - 1) / gib
	if gb > math.MaxInt32 {
		return 0, fmt.Errorf("%w: capacity %q is too large", ErrInvalidCapacity, s)
	}
	return int(gb), nil
}

// FormatCapacity renders a GB count the way the API accepts it ("100G").
func FormatCapacity(gb int) string {
	return strconv.Itoa(gb) + "G"
}
