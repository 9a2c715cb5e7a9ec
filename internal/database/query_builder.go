// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"strconv"
	"strings"
)

// queryArgs accumulates positional arguments and hands out $n placeholders.
type queryArgs struct {
	args []interface{}
}

// add appends v and returns its placeholder.
func (q *queryArgs) add(v interface{}) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// in returns a parenthesised placeholder list for items.
//
// Example:
//
//	var q queryArgs
//	q.in([]string{"rock", "jazz"}) // "($1,$2)"
func (q *queryArgs) in(items []string) string {
	placeholders := make([]string, len(items))
	for i, item := range items {
		placeholders[i] = q.add(item)
	}
	return "(" + strings.Join(placeholders, ",") + ")"
}

// normalizeNames lowercases, trims and de-duplicates names, dropping blanks.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped. Use with ESCAPE '\'.
func likePattern(word string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(word)) + "%"
}
