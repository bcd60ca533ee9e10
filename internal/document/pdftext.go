package document

import (
	"strings"
	"unicode/utf16"
)

// DecodePageText pulls the text shown by a page content stream. It walks the
// stream token by token and emits the operands of the text-showing operators
// (Tj, TJ, ' and "), inserting line breaks at text positioning operators.
//
// The decoder assumes simple byte encodings for literal strings and handles
// UTF-16BE hex strings. That covers the common case of machine-generated
// documents; exotic font encodings degrade to their raw bytes.
func DecodePageText(content []byte) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}
	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}

	pos := 0
	for pos < len(content) {
		c := content[pos]
		switch {
		case isPDFWhitespace(c):
			pos++
		case c == '%':
			pos = skipPDFComment(content, pos)
		case c == '(':
			str, next := readLiteralString(content, pos)
			pending = append(pending, str)
			pos = next
		case c == '<' && pos+1 < len(content) && content[pos+1] == '<':
			pos += 2 // dict open, operands are not text
		case c == '<':
			str, next := readHexString(content, pos)
			pending = append(pending, str)
			pos = next
		case c == '>' && pos+1 < len(content) && content[pos+1] == '>':
			pos += 2
		case c == '[' || c == ']' || c == '{' || c == '}':
			pos++
		case c == '/':
			_, pos = readToken(content, pos+1)
		default:
			token, next := readToken(content, pos)
			pos = next
			switch token {
			case "Tj", "'", "\"", "TJ":
				flush()
			case "Td", "TD", "T*", "ET":
				pending = pending[:0]
				newline()
			case "BT":
				pending = pending[:0]
			}
		}
	}
	return strings.TrimSpace(out.String())
}

func isPDFWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func skipPDFComment(content []byte, pos int) int {
	for pos < len(content) && content[pos] != '\n' && content[pos] != '\r' {
		pos++
	}
	return pos
}

func readToken(content []byte, pos int) (string, int) {
	start := pos
	for pos < len(content) && !isPDFWhitespace(content[pos]) && !isPDFDelimiter(content[pos]) {
		pos++
	}
	if pos == start {
		return "", pos + 1
	}
	return string(content[start:pos]), pos
}

// readLiteralString parses a (...) string honoring escapes, octal codes, and
// balanced nested parentheses.
func readLiteralString(content []byte, pos int) (string, int) {
	var b strings.Builder
	depth := 1
	pos++ // opening paren
	for pos < len(content) && depth > 0 {
		c := content[pos]
		switch c {
		case '\\':
			pos++
			if pos >= len(content) {
				break
			}
			esc := content[pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
				pos++
			case 'r':
				b.WriteByte('\r')
				pos++
			case 't':
				b.WriteByte('\t')
				pos++
			case 'b', 'f':
				pos++
			case '(', ')', '\\':
				b.WriteByte(esc)
				pos++
			case '\n':
				pos++ // line continuation
			case '\r':
				pos++
				if pos < len(content) && content[pos] == '\n' {
					pos++
				}
			default:
				if esc >= '0' && esc <= '7' {
					value := 0
					digits := 0
					for pos < len(content) && digits < 3 && content[pos] >= '0' && content[pos] <= '7' {
						value = value*8 + int(content[pos]-'0')
						pos++
						digits++
					}
					b.WriteByte(byte(value))
				} else {
					b.WriteByte(esc)
					pos++
				}
			}
		case '(':
			depth++
			b.WriteByte(c)
			pos++
		case ')':
			depth--
			if depth > 0 {
				b.WriteByte(c)
			}
			pos++
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return b.String(), pos
}

// readHexString parses a <...> string, decoding UTF-16BE when the byte order
// mark is present.
func readHexString(content []byte, pos int) (string, int) {
	pos++ // opening angle
	var digits []byte
	for pos < len(content) && content[pos] != '>' {
		c := content[pos]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		pos++
	}
	if pos < len(content) {
		pos++ // closing angle
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		raw = append(raw, hexValue(digits[i])<<4|hexValue(digits[i+1]))
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return decodeUTF16BE(raw[2:]), pos
	}
	return string(raw), pos
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func decodeUTF16BE(raw []byte) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units))
}
