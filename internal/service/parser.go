package service

import (
	"bytes"
	"strconv"

	"controllerboard/internal/models"
)

var (
	crlfSeparator = []byte("\r\n\r\n")
	lfSeparator   = []byte("\n\n")
)

// ParseResponse extracts the command sequence from a raw HTTP response.
//
// The body is read line by line as "<port>,<minutes>". The first line that
// does not match ends the sequence without error, and a port of zero yields a
// Sleep command that ends it as well. When the response was truncated, the
// unterminated last line is never interpreted.
func ParseResponse(raw models.RawResponse) (models.CommandSequence, error) {
	body, ok := payload(raw.Data)
	if !ok {
		return nil, ErrNoPayload
	}

	seq := models.CommandSequence{}
	for line := range bytes.Lines(body) {
		complete := bytes.HasSuffix(line, []byte("\n"))
		if raw.Truncated && !complete {
			break
		}
		port, minutes, ok := parseLine(line)
		if !ok {
			break
		}
		if port == 0 {
			seq = append(seq, models.Sleep(minutes))
			break
		}
		seq = append(seq, models.Activate(port, minutes))
	}
	return seq, nil
}

// payload returns the bytes after the first header/body separator.
func payload(resp []byte) ([]byte, bool) {
	crlf := bytes.Index(resp, crlfSeparator)
	lf := bytes.Index(resp, lfSeparator)

	switch {
	case crlf < 0 && lf < 0:
		return nil, false
	case lf < 0 || (crlf >= 0 && crlf < lf):
		return resp[crlf+len(crlfSeparator):], true
	default:
		return resp[lf+len(lfSeparator):], true
	}
}

// parseLine matches "<uint>,<uint>" after optional leading blanks. Anything
// after the second number is ignored.
func parseLine(line []byte) (port, minutes uint32, ok bool) {
	rest := skipBlanks(line)

	port, rest, ok = leadingUint(rest)
	if !ok || len(rest) == 0 || rest[0] != ',' {
		return 0, 0, false
	}
	minutes, _, ok = leadingUint(skipBlanks(rest[1:]))
	if !ok {
		return 0, 0, false
	}
	return port, minutes, true
}

func skipBlanks(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}

func leadingUint(b []byte) (uint32, []byte, bool) {
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, b, false
	}
	v, err := strconv.ParseUint(string(b[:i]), 10, 32)
	if err != nil {
		return 0, b, false
	}
	return uint32(v), b[i:], true
}
