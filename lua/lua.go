// Copyright (c) 2025 BVK Chaitanya

// Package lua reads and writes the World of Warcraft SavedVariables
// file format, which is a restricted dialect of lua table constructors.
//
// A SavedVariables file is a sequence of top-level assignments:
//
//	AucAdvancedConfig = { ... }
//	AucAdvancedData = { ... }
//
// Values are strings, numbers, booleans, nil and nested tables. Table
// keys are either bracketed strings (["profile.Default"]), bracketed
// integers ([396255466]) or omitted for positional entries. This covers
// everything the game client emits; general lua source is out of scope.
package lua

import (
	"fmt"
	"os"
)

// Key identifies one table field. Exactly one of Name or Index is
// meaningful; positional entries use Index with Positional set.
type Key struct {
	Name       string
	Index      int64
	IsInt      bool
	Positional bool
}

func StringKey(name string) Key {
	return Key{Name: name}
}

func IntKey(index int64) Key {
	return Key{Index: index, IsInt: true}
}

func (k Key) String() string {
	if k.IsInt {
		return fmt.Sprintf("%d", k.Index)
	}
	return k.Name
}

// Field is a single key/value entry of a table.
type Field struct {
	Key   Key
	Value any
}

// Table holds lua table fields in their original file order. Values are
// string, int64, float64, bool, nil or *Table.
type Table struct {
	fields []Field
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Len() int {
	return len(t.fields)
}

// Fields returns the underlying entries in file order. The returned
// slice is shared with the table.
func (t *Table) Fields() []Field {
	return t.fields
}

func (t *Table) find(k Key) int {
	for i, f := range t.fields {
		if f.Key.IsInt == k.IsInt && f.Key.Index == k.Index && f.Key.Name == k.Name {
			return i
		}
	}
	return -1
}

// Get returns the value stored under a string key.
func (t *Table) Get(name string) (any, bool) {
	if i := t.find(StringKey(name)); i >= 0 {
		return t.fields[i].Value, true
	}
	return nil, false
}

// GetInt returns the value stored under an integer key.
func (t *Table) GetInt(index int64) (any, bool) {
	if i := t.find(IntKey(index)); i >= 0 {
		return t.fields[i].Value, true
	}
	return nil, false
}

// Set stores a value under a string key, replacing any previous entry.
func (t *Table) Set(name string, v any) {
	t.SetKey(StringKey(name), v)
}

func (t *Table) SetKey(k Key, v any) {
	if i := t.find(k); i >= 0 {
		t.fields[i].Value = v
		return
	}
	t.fields = append(t.fields, Field{Key: k, Value: v})
}

// Append adds a positional entry at the end of the table.
func (t *Table) Append(v any) {
	t.fields = append(t.fields, Field{Key: Key{Positional: true}, Value: v})
}

// Delete removes a string-keyed entry if present.
func (t *Table) Delete(name string) {
	if i := t.find(StringKey(name)); i >= 0 {
		t.fields = append(t.fields[:i], t.fields[i+1:]...)
	}
}

// Table returns the subtable under a string key or nil when the key is
// missing or holds a non-table value.
func (t *Table) Table(name string) *Table {
	v, ok := t.Get(name)
	if !ok {
		return nil
	}
	sub, ok := v.(*Table)
	if !ok {
		return nil
	}
	return sub
}

// Walk descends through nested subtables along the given string keys.
// Returns a non-nil error naming the first missing step.
func (t *Table) Walk(names ...string) (*Table, error) {
	cur := t
	for _, name := range names {
		next := cur.Table(name)
		if next == nil {
			return nil, fmt.Errorf("table path element %q: %w", name, os.ErrNotExist)
		}
		cur = next
	}
	return cur, nil
}

// String returns the string value under a key, or the empty string.
func (t *Table) String(name string) string {
	if v, ok := t.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the integer value under a key. Float values written by
// the game client for whole numbers are truncated.
func (t *Table) Int(name string) int64 {
	v, ok := t.Get(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// File is a parsed SavedVariables file: an ordered list of top-level
// global assignments.
type File struct {
	globals *Table
}

func NewFile() *File {
	return &File{globals: NewTable()}
}

// Global returns the value assigned to a top-level name.
func (f *File) Global(name string) (any, bool) {
	return f.globals.Get(name)
}

// GlobalTable returns a top-level table assignment or nil.
func (f *File) GlobalTable(name string) *Table {
	return f.globals.Table(name)
}

// SetGlobal adds or replaces a top-level assignment.
func (f *File) SetGlobal(name string, v any) {
	f.globals.Set(name, v)
}

// Globals exposes the assignments in file order.
func (f *File) Globals() []Field {
	return f.globals.Fields()
}
