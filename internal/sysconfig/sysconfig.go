// Package sysconfig reads shell-style KEY=value configuration files as used
// under /etc/sysconfig.
//
// Only assignments are understood; there is no variable expansion or command
// substitution. Later assignments of a key replace the value but keep the
// position of the first occurrence, so iteration order follows the file.
package sysconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is returned for lines that are neither blank, comments nor
// assignments.
var ErrSyntax = errors.New("sysconfig syntax error")

// Var is a single assignment.
type Var struct {
	Name  string
	Value string
}

// File is a parsed sysconfig file.
type File struct {
	Path  string
	vars  []Var
	index map[string]int
}

// Read parses the file at path.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads assignments from r. name is recorded as the file path.
func Parse(r io.Reader, name string) (*File, error) {
	sc := New(name)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: %s:%d: expected KEY=value", ErrSyntax, name, lineNo)
		}
		key := line[:eq]
		if !isIdentifier(key) {
			return nil, fmt.Errorf("%w: %s:%d: invalid variable name %q", ErrSyntax, name, lineNo, key)
		}

		value, err := unquote(line[eq+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrSyntax, name, lineNo, err)
		}
		sc.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return sc, nil
}

// New returns an empty file, optionally pre-populated with alternating
// name/value pairs.
func New(path string, pairs ...string) *File {
	f := &File{Path: path, index: make(map[string]int)}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set assigns a value, keeping the original position of an existing key.
func (f *File) Set(name, value string) {
	if i, ok := f.index[name]; ok {
		f.vars[i].Value = value
		return
	}
	f.index[name] = len(f.vars)
	f.vars = append(f.vars, Var{Name: name, Value: value})
}

// Vars returns all assignments in file order.
func (f *File) Vars() []Var {
	out := make([]Var, len(f.vars))
	copy(out, f.vars)
	return out
}

// Get returns the value of name and whether it was assigned at all.
func (f *File) Get(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.vars[i].Value, true
}

// Value returns the value of name, or "" when unset or empty.
func (f *File) Value(name string) string {
	v, _ := f.Get(name)
	return v
}

// Has reports whether name is assigned a non-empty value.
func (f *File) Has(name string) bool {
	return f.Value(name) != ""
}

// Bool interprets name as a boolean. ok is false when the variable is unset
// or not one of yes/no, true/false, on/off, 1/0.
func (f *File) Bool(name string) (value, ok bool) {
	switch strings.ToLower(f.Value(name)) {
	case "yes", "true", "on", "1":
		return true, true
	case "no", "false", "off", "0":
		return false, true
	}
	return false, false
}

// Uint interprets name as an unsigned integer. Like strtoul with base 0 it
// accepts decimal, 0x-prefixed hex and 0-prefixed octal.
func (f *File) Uint(name string) (uint64, bool) {
	v := f.Value(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Int interprets name as a signed integer.
func (f *File) Int(name string) (int64, bool) {
	v := f.Value(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Matching returns the names of all variables starting with prefix, in file
// order.
func (f *File) Matching(prefix string) []string {
	if f == nil {
		return nil
	}
	var names []string
	for _, v := range f.vars {
		if strings.HasPrefix(v.Name, prefix) {
			names = append(names, v.Name)
		}
	}
	return names
}

// Indexed is one member of an indexed variable family such as IPADDR,
// IPADDR_0, IPADDR_1.
type Indexed struct {
	Name   string
	Suffix string
	Value  string
}

// Indexed returns every variable whose name starts with base, in file order,
// together with the suffix that follows base. Variables with empty values are
// included so callers can decide how to treat them.
func (f *File) Indexed(base string) []Indexed {
	names := f.Matching(base)
	out := make([]Indexed, 0, len(names))
	for _, name := range names {
		v, _ := f.Get(name)
		out = append(out, Indexed{Name: name, Suffix: name[len(base):], Value: v})
	}
	return out
}

// Lookup returns the value of base+suffix. Empty values count as absent.
func (f *File) Lookup(base, suffix string) (string, bool) {
	v := f.Value(base + suffix)
	return v, v != ""
}

func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

// unquote decodes the right-hand side of an assignment.
func unquote(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	switch raw[0] {
	case '\'':
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", errors.New("unterminated single quote")
		}
		if err := trailingComment(raw[end+2:]); err != nil {
			return "", err
		}
		return raw[1 : end+1], nil

	case '"':
		var b strings.Builder
		for i := 1; i < len(raw); i++ {
			c := raw[i]
			switch {
			case c == '\\' && i+1 < len(raw):
				next := raw[i+1]
				if next == '"' || next == '\\' || next == '$' || next == '`' {
					b.WriteByte(next)
					i++
					continue
				}
				b.WriteByte(c)
			case c == '"':
				if err := trailingComment(raw[i+1:]); err != nil {
					return "", err
				}
				return b.String(), nil
			default:
				b.WriteByte(c)
			}
		}
		return "", errors.New("unterminated double quote")
	}

	// Unquoted: a " #" starts a comment.
	if i := strings.Index(raw, " #"); i >= 0 {
		raw = raw[:i]
	} else if i := strings.Index(raw, "\t#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw), nil
}

func trailingComment(rest string) error {
	rest = strings.TrimSpace(rest)
	if rest == "" || strings.HasPrefix(rest, "#") {
		return nil
	}
	return fmt.Errorf("unexpected text after closing quote: %q", rest)
}
