package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// PathSeparator splits the segments of a textual override path.
const PathSeparator = ";"

// Path addresses a value nested inside a document, e.g. optimizer;args;lr.
// Segments index object attributes and map keys; numeric segments index
// lists and tuples.
type Path []string

// ParsePath parses a separator-delimited path. Empty segments are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}
	parts := strings.Split(s, PathSeparator)
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("path %q: segment %d is empty", s, i)
		}
	}
	return Path(parts), nil
}

// MustParsePath is ParsePath for paths declared in code; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// Section returns the top-level section a path points into.
func (p Path) Section() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Lookup returns the value addressed by p inside root.
func Lookup(root cty.Value, p Path) (cty.Value, error) {
	cur := root
	for i, key := range p {
		next, ok := child(cur, key)
		if !ok {
			return cty.NilVal, notFound(p, i)
		}
		cur = next
	}
	return cur, nil
}

// Replace returns a copy of root in which the value at p is v. The leaf must
// already exist; Replace never creates intermediate or leaf entries.
func Replace(root cty.Value, p Path, v cty.Value) (cty.Value, error) {
	if len(p) == 0 {
		return cty.NilVal, errors.New("empty path")
	}
	return replace(root, p, 0, v)
}

func replace(cur cty.Value, p Path, i int, v cty.Value) (cty.Value, error) {
	if i == len(p) {
		return v, nil
	}
	old, ok := child(cur, p[i])
	if !ok {
		return cty.NilVal, notFound(p, i)
	}
	updated, err := replace(old, p, i+1, v)
	if err != nil {
		return cty.NilVal, err
	}

	ty := cur.Type()
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		// Maps are rebuilt as objects: the new leaf may not share the
		// element type of its siblings.
		attrs := cur.AsValueMap()
		attrs[p[i]] = updated
		return cty.ObjectVal(attrs), nil
	default: // list or tuple, child already checked the index
		idx, _ := strconv.Atoi(p[i])
		elems := cur.AsValueSlice()
		elems[idx] = updated
		return cty.TupleVal(elems), nil
	}
}

// child returns the direct child of v named by key.
func child(v cty.Value, key string) (cty.Value, bool) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return cty.NilVal, false
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(key) {
			return cty.NilVal, false
		}
		return v.GetAttr(key), true
	case ty.IsMapType():
		k := cty.StringVal(key)
		if !v.HasIndex(k).True() {
			return cty.NilVal, false
		}
		return v.Index(k), true
	case ty.IsListType() || ty.IsTupleType():
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= v.LengthInt() {
			return cty.NilVal, false
		}
		return v.AsValueSlice()[idx], true
	}
	return cty.NilVal, false
}

func notFound(p Path, depth int) error {
	return fmt.Errorf("%w: %q (no %q under %q)", ErrPathNotFound, p.String(), p[depth], Path(p[:depth]).String())
}
