package actor

import (
	"regexp"
	"sort"
	"strconv"

	"redigo/pkg/utils"
)

// ScanPage is the SCAN helper shared by hscan, sscan, and the directory's
// own scan/keys commands: args[0] is the cursor (int, default 0), args[1]
// is an optional glob pattern, args[2] is an optional count (default 10).
// It returns [next_cursor, matched_items...], where next_cursor is "0" once
// the container has been fully walked.
//
// items is paginated in sorted order rather than whatever order the
// caller's map happened to produce. Go map iteration order is randomized
// per run, which would make the "next cursor picks up where the last call
// left off" contract impossible to honor across calls; sorting gives a
// stable walk order instead.
func ScanPage(items []string, args []string) ([]string, error) {
	cursor := 0
	if len(args) > 0 && args[0] != "" {
		c, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, err
		}
		cursor = c
	}

	count := 10
	if len(args) > 2 && args[2] != "" {
		c, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, err
		}
		count = c
	}

	var matcher *regexp.Regexp
	if len(args) > 1 && args[1] != "" {
		m, err := utils.CompileGlob(args[1])
		if err != nil {
			return nil, err
		}
		matcher = m
	}

	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(sorted) {
		cursor = len(sorted)
	}

	end := cursor + count
	if end > len(sorted) {
		end = len(sorted)
	}

	matched := make([]string, 0, end-cursor)
	for _, item := range sorted[cursor:end] {
		if matcher == nil || matcher.MatchString(item) {
			matched = append(matched, item)
		}
	}

	next := "0"
	if end < len(sorted) {
		next = strconv.Itoa(end)
	}

	return append([]string{next}, matched...), nil
}
