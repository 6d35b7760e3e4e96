package patch

import (
	"errors"
	"strconv"
	"strings"
)

// Pointer is a decoded JSON Pointer (RFC 6901): the sequence of its reference
// tokens with "~1" and "~0" already unescaped. The empty Pointer refers to the
// whole document.
type Pointer []string

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// ParsePointer decodes the textual form of a JSON Pointer.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if s[0] != '/' {
		return nil, errors.New("pointer must be empty or start with '/'")
	}
	raw := strings.Split(s[1:], "/")
	tokens := make(Pointer, len(raw))
	for i, token := range raw {
		decoded, err := unescapeToken(token)
		if err != nil {
			return nil, err
		}
		tokens[i] = decoded
	}
	return tokens, nil
}

func unescapeToken(token string) (string, error) {
	if !strings.Contains(token, "~") {
		return token, nil
	}
	var sb strings.Builder
	sb.Grow(len(token))
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			sb.WriteByte(token[i])
			continue
		}
		if i+1 == len(token) {
			return "", errors.New("pointer token ends with '~'")
		}
		switch token[i+1] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", errors.New("invalid escape '~" + string(token[i+1]) + "' in pointer token")
		}
		i++
	}
	return sb.String(), nil
}

// String returns the textual form of p.
func (p Pointer) String() string {
	var sb strings.Builder
	for _, token := range p {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(token))
	}
	return sb.String()
}

// HasPrefix reports whether every token of prefix leads p.
func (p Pointer) HasPrefix(prefix Pointer) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, token := range prefix {
		if p[i] != token {
			return false
		}
	}
	return true
}

// arrayIndex decodes token as an array index no greater than limit. Leading
// zeros and signs are rejected.
func arrayIndex(token string, limit int) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(token)
	if err != nil || i > limit {
		return 0, false
	}
	return i, true
}
