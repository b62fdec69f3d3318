// Copyright (c) 2025 BVK Chaitanya

package lua

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode writes the file back in the layout the game client uses: one
// assignment per global, tab-indented nested tables, one field per line
// with a trailing comma.
func Encode(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, g := range f.Globals() {
		if _, err := fmt.Fprintf(bw, "\n%s = ", g.Key.Name); err != nil {
			return fmt.Errorf("could not write global %q: %w", g.Key.Name, err)
		}
		if err := encodeValue(bw, g.Value, 0); err != nil {
			return fmt.Errorf("could not encode global %q: %w", g.Key.Name, err)
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeString returns the encoded file as a string.
func EncodeString(f *File) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, f); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encodeValue(w *bufio.Writer, v any, depth int) error {
	switch x := v.(type) {
	case nil:
		_, err := w.WriteString("nil")
		return err
	case bool:
		_, err := w.WriteString(strconv.FormatBool(x))
		return err
	case string:
		_, err := w.WriteString(quote(x))
		return err
	case int:
		_, err := w.WriteString(strconv.FormatInt(int64(x), 10))
		return err
	case int64:
		_, err := w.WriteString(strconv.FormatInt(x, 10))
		return err
	case float64:
		_, err := w.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		return err
	case *Table:
		return encodeTable(w, x, depth)
	default:
		return fmt.Errorf("unsupported lua value type %T: %w", v, errUnsupported)
	}
}

var errUnsupported = fmt.Errorf("unsupported type")

func encodeTable(w *bufio.Writer, t *Table, depth int) error {
	if t.Len() == 0 {
		_, err := w.WriteString("{}")
		return err
	}
	if _, err := w.WriteString("{\n"); err != nil {
		return err
	}
	indent := strings.Repeat("\t", depth+1)
	for _, f := range t.Fields() {
		if _, err := w.WriteString(indent); err != nil {
			return err
		}
		if !f.Key.Positional {
			if f.Key.IsInt {
				if _, err := fmt.Fprintf(w, "[%d] = ", f.Key.Index); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, "[%s] = ", quote(f.Key.Name)); err != nil {
					return err
				}
			}
		}
		if err := encodeValue(w, f.Value, depth+1); err != nil {
			return err
		}
		if _, err := w.WriteString(",\n"); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(strings.Repeat("\t", depth)); err != nil {
		return err
	}
	_, err := w.WriteString("}")
	return err
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
