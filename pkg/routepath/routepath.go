// Package routepath normalizes request paths before they are matched
// against the page table, and vets redirect targets.
package routepath

import (
	"errors"
	"strings"
)

var (
	ErrBackslash     = errors.New("routepath: path contains backslash")
	ErrNullByte      = errors.New("routepath: path contains null byte")
	ErrInvalidEscape = errors.New("routepath: invalid percent escape")
	ErrEscapesRoot   = errors.New("routepath: path escapes root via ..")
	ErrNotLocal      = errors.New("routepath: not a local path")
)

// Result is a canonical path and the query that came with it.
type Result struct {
	Path    string
	Query   string // without the leading "?"
	Changed bool
}

// Canonicalize normalizes an escaped URL path: it collapses repeated
// slashes, resolves "." and ".." segments and drops a trailing slash
// (except for the root). The query string, if any, is split off and kept
// as is. Backslashes, NUL bytes, malformed percent escapes and ".." above
// the root are rejected.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}
	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(path, `\`) {
		return Result{}, ErrBackslash
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByte
	}
	if err := validEscapes(path); err != nil {
		return Result{}, err
	}

	segments := make([]string, 0, strings.Count(path, "/"))
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	clean := "/" + strings.Join(segments, "/")
	return Result{Path: clean, Query: query, Changed: clean != path}, nil
}

// Local canonicalizes a redirect target that must stay on this site. Full
// URLs and scheme-relative "//host" targets are rejected.
func Local(target string) (string, error) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return "", ErrNotLocal
	}
	res, err := Canonicalize(target)
	if err != nil {
		return "", err
	}
	if res.Query != "" {
		return res.Path + "?" + res.Query, nil
	}
	return res.Path, nil
}

func validEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
