package gdb

import (
	"fmt"
	"regexp"
	"strings"
)

// RecordType classifies one GDB/MI output line.
type RecordType string

const (
	// Structured classes carry a message tag and a key-value payload.
	MIResult RecordType = "result"
	MIExec   RecordType = "exec"
	MINotify RecordType = "notify"
	MIStatus RecordType = "status"
	// Stream classes carry raw text.
	MIConsole RecordType = "console"
	MILog     RecordType = "log"
	MITarget  RecordType = "target"
)

// MIRecord is one classified unit of machine-oriented gdb output.
// Payload is a map[string]interface{} for structured records and a string
// for stream records.
type MIRecord struct {
	Type    RecordType  `json:"type"`
	Message string      `json:"message,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

var miRecordRE = regexp.MustCompile(`^[0-9]*[\^*=+~&@]`)

var miStructuredMarkers = map[byte]RecordType{
	'^': MIResult,
	'*': MIExec,
	'=': MINotify,
	'+': MIStatus,
}

var miStreamMarkers = map[byte]RecordType{
	'~': MIConsole,
	'&': MILog,
	'@': MITarget,
}

func collectMIRecords(output string) []MIRecord {
	var records []MIRecord
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line == promptLiteral {
			continue
		}
		if !miRecordRE.MatchString(line) {
			continue
		}
		record, err := parseMILine(line)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// ParseMIRecords parses MI result/notify/exec/status lines from mixed
// command output. Lines without an MI marker are ignored.
func ParseMIRecords(output string) []MIRecord {
	var structured []MIRecord
	for _, record := range collectMIRecords(output) {
		if _, ok := miStreamTypes[record.Type]; !ok {
			structured = append(structured, record)
		}
	}
	return structured
}

var miStreamTypes = map[RecordType]bool{
	MIConsole: true,
	MILog:     true,
	MITarget:  true,
}

// ParseMIStreams parses MI console/log/target stream lines from mixed
// output. Adjacent stream records of the same type and tag are merged by
// concatenating their payload text, preserving relative order.
func ParseMIStreams(output string) []MIRecord {
	var merged []MIRecord
	for _, record := range collectMIRecords(output) {
		if !miStreamTypes[record.Type] {
			continue
		}
		if len(merged) > 0 {
			previous := &merged[len(merged)-1]
			prevText, prevOK := previous.Payload.(string)
			nextText, nextOK := record.Payload.(string)
			if previous.Type == record.Type && previous.Message == record.Message && prevOK && nextOK {
				previous.Payload = prevText + nextText
				continue
			}
		}
		merged = append(merged, record)
	}
	return merged
}

func parseMILine(line string) (MIRecord, error) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i >= len(line) {
		return MIRecord{}, fmt.Errorf("no MI marker in %q", line)
	}
	marker := line[i]
	rest := line[i+1:]

	if streamType, ok := miStreamMarkers[marker]; ok {
		scanner := &miScanner{input: rest}
		text, err := scanner.parseConst()
		if err != nil {
			// A stream payload must be a quoted c-string; anything else
			// is plain output that happens to start with the marker.
			return MIRecord{}, fmt.Errorf("stream record without c-string payload in %q", line)
		}
		return MIRecord{Type: streamType, Payload: text}, nil
	}

	structuredType, ok := miStructuredMarkers[marker]
	if !ok {
		return MIRecord{}, fmt.Errorf("unknown MI marker %q", marker)
	}
	message := rest
	var payload map[string]interface{}
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		// Only the result class may appear without a payload (`^done`).
		// Bare exec/notify/status shapes are plain output that happens to
		// start with the marker, e.g. `*p = 1;` or `=> 0x.. <main+0>:`.
		if structuredType != MIResult {
			return MIRecord{}, fmt.Errorf("%s record without payload in %q", structuredType, line)
		}
		return MIRecord{Type: structuredType, Message: message}, nil
	}
	message = rest[:comma]
	scanner := &miScanner{input: rest[comma+1:]}
	parsed, err := scanner.parseResults()
	if err != nil {
		return MIRecord{}, err
	}
	payload = parsed
	return MIRecord{Type: structuredType, Message: message, Payload: payload}, nil
}

// miScanner is a minimal recursive-descent parser for MI values:
// c-strings, {tuples} and [lists].
type miScanner struct {
	input string
	pos   int
}

func (s *miScanner) peek() (byte, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

func (s *miScanner) parseResults() (map[string]interface{}, error) {
	results := make(map[string]interface{})
	for {
		name, err := s.parseName()
		if err != nil {
			return nil, err
		}
		value, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		results[name] = value
		c, ok := s.peek()
		if !ok {
			return results, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("unexpected %q at %d", c, s.pos)
		}
		s.pos++
	}
}

func (s *miScanner) parseName() (string, error) {
	start := s.pos
	for s.pos < len(s.input) && s.input[s.pos] != '=' {
		s.pos++
	}
	if s.pos >= len(s.input) {
		return "", fmt.Errorf("missing '=' after %q", s.input[start:])
	}
	name := s.input[start:s.pos]
	s.pos++
	return name, nil
}

func (s *miScanner) parseValue() (interface{}, error) {
	c, ok := s.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input at %d", s.pos)
	}
	switch c {
	case '"':
		return s.parseConst()
	case '{':
		return s.parseTuple()
	case '[':
		return s.parseList()
	default:
		return nil, fmt.Errorf("unexpected value start %q at %d", c, s.pos)
	}
}

func (s *miScanner) parseConst() (string, error) {
	c, ok := s.peek()
	if !ok || c != '"' {
		return "", fmt.Errorf("expected '\"' at %d", s.pos)
	}
	s.pos++
	var b strings.Builder
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if ch == '"' {
			s.pos++
			return b.String(), nil
		}
		if ch == '\\' && s.pos+1 < len(s.input) {
			s.pos++
			switch s.input[s.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s.input[s.pos])
			}
			s.pos++
			continue
		}
		b.WriteByte(ch)
		s.pos++
	}
	return "", fmt.Errorf("unterminated c-string")
}

func (s *miScanner) parseTuple() (map[string]interface{}, error) {
	s.pos++ // consume '{'
	if c, ok := s.peek(); ok && c == '}' {
		s.pos++
		return map[string]interface{}{}, nil
	}
	results := make(map[string]interface{})
	for {
		name, err := s.parseName()
		if err != nil {
			return nil, err
		}
		value, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		results[name] = value
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated tuple")
		}
		s.pos++
		if c == '}' {
			return results, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("unexpected %q in tuple at %d", c, s.pos-1)
		}
	}
}

func (s *miScanner) parseList() ([]interface{}, error) {
	s.pos++ // consume '['
	if c, ok := s.peek(); ok && c == ']' {
		s.pos++
		return []interface{}{}, nil
	}
	var values []interface{}
	for {
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated list")
		}
		// List elements are either plain values or name=value results.
		if c == '"' || c == '{' || c == '[' {
			value, err := s.parseValue()
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		} else {
			name, err := s.parseName()
			if err != nil {
				return nil, err
			}
			value, err := s.parseValue()
			if err != nil {
				return nil, err
			}
			values = append(values, map[string]interface{}{name: value})
		}
		c, ok = s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated list")
		}
		s.pos++
		if c == ']' {
			return values, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("unexpected %q in list at %d", c, s.pos-1)
		}
	}
}
