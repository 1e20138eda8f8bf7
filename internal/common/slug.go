package common

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonAlphanumRX = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a display name: lowercase, every
// run of non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped. Deterministic; returns "" when the input contains
// no alphanumeric characters at all.
func Slugify(s string) string {
	s = nonAlphanumRX.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// SlugTaken reports whether a candidate slug already belongs to another row.
// Each service supplies a closure over its own table, excluding the row being
// updated where relevant.
type SlugTaken func(ctx context.Context, slug string) (bool, error)

// UniqueSlug checks the candidate against taken and, on a collision, appends
// the last four digits of the current Unix timestamp and checks once more. The
// suffixed slug is returned even if the second check still collides: the
// database unique constraint is the actual protection, this is only a friendly
// pre-check.
func UniqueSlug(ctx context.Context, candidate string, taken SlugTaken) (string, error) {
	exists, err := taken(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}

	suffixed := candidate + "-" + slugSuffix()
	if _, err := taken(ctx, suffixed); err != nil {
		return "", err
	}

	return suffixed, nil
}

func slugSuffix() string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return ts[len(ts)-4:]
}
