package keys

import (
	"strconv"
	"strings"
)

// Display renders k as colon-separated segments for debugging and JSON
// dumps: strings are escaped ('\' as `\\`, ':' as `\:`), uint64 as digits,
// non-negative int64 as digits followed by 'i', negative int64 as '-'
// digits, bools as true/false.
func Display(k Key) (string, error) {
	d := NewDecoder(k)
	var b strings.Builder
	for i := 0; d.Len() > 0; i++ {
		if i > 0 {
			b.WriteByte(':')
		}
		v, err := d.Next()
		if err != nil {
			return "", err
		}
		switch x := v.(type) {
		case string:
			writeEscaped(&b, x)
		case uint64:
			b.WriteString(strconv.FormatUint(x, 10))
		case int64:
			b.WriteString(strconv.FormatInt(x, 10))
			if x >= 0 {
				b.WriteByte('i')
			}
		case bool:
			b.WriteString(strconv.FormatBool(x))
		}
	}
	return b.String(), nil
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ':':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}

// ParseDisplay is a best-effort inverse of Display. Each part becomes a
// bool for true/false, an int64 for "-digits" or "digitsi", a uint64 for
// "digits", and a string otherwise. The form is ambiguous (the string
// "12" reads back as a uint64) and is meant for debugging and export only.
// The empty string is the empty key; a key holding one empty string
// segment displays the same way and therefore reads back empty too.
func ParseDisplay(s string) Key {
	if s == "" {
		return Key{}
	}
	buf := make([]byte, 0, defaultKeyCap)
	for _, part := range splitDisplay(s) {
		buf = appendDisplayPart(buf, part)
	}
	return Key(buf)
}

func splitDisplay(s string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == ':' || s[i+1] == '\\'):
			cur.WriteByte(s[i+1])
			i++
		case c == ':':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}

func appendDisplayPart(buf []byte, part string) []byte {
	switch part {
	case "true":
		return AppendBool(buf, true)
	case "false":
		return AppendBool(buf, false)
	}
	if rest, ok := strings.CutPrefix(part, "-"); ok && isDigits(rest) {
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			return AppendInt64(buf, n)
		}
	}
	if digits, ok := strings.CutSuffix(part, "i"); ok && isDigits(digits) {
		if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return AppendInt64(buf, n)
		}
	}
	if isDigits(part) {
		if n, err := strconv.ParseUint(part, 10, 64); err == nil {
			return AppendUint64(buf, n)
		}
	}
	return AppendString(buf, part)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
