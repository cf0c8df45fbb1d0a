// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
//
// Both repeated keys (?tag=a&tag=b) and comma-separated values (?tag=a,b)
// are accepted, and the two forms may be mixed.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Strings returns every non-empty, trimmed value for key.
func Strings(values url.Values, key string) []string {
	var res []string
	for _, raw := range values[key] {
		for _, v := range strings.Split(raw, ",") {
			if clean := strings.TrimSpace(v); clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}

// Int64s parses every value for key as an integer.
// Invalid entries are ignored safely.
func Int64s(values url.Values, key string) []int64 {
	var res []int64
	for _, v := range Strings(values, key) {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			res = append(res, i)
		}
	}
	return res
}

// Int64 parses the first value for key, or returns 0 when absent or invalid.
func Int64(values url.Values, key string) int64 {
	i, err := strconv.ParseInt(strings.TrimSpace(values.Get(key)), 10, 64)
	if err != nil {
		return 0
	}
	return i
}
