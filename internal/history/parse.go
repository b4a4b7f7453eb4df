package history

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry is a single history entry with an optional timestamp.
type Entry struct {
	Timestamp time.Time // Zero value if timestamp not available
	Command   string
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return scanner
}

// ParseBash parses bash history: one command per line, optionally preceded
// by a "#<unix_ts>" line when HISTTIMEFORMAT is set.
func ParseBash(r io.Reader) ([]Entry, error) {
	var entries []Entry
	var pending time.Time

	scanner := newScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") && len(line) > 1 {
			if ts, err := strconv.ParseInt(line[1:], 10, 64); err == nil {
				pending = time.Unix(ts, 0)
				continue
			}
		}

		entries = append(entries, Entry{Command: line, Timestamp: pending})
		pending = time.Time{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseZsh parses zsh history in plain or extended
// (": <ts>:<duration>;<command>") format. A trailing unescaped backslash
// continues the command on the next line.
func ParseZsh(r io.Reader) ([]Entry, error) {
	var p zshParser
	scanner := newScanner(r)
	for scanner.Scan() {
		p.processLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

type zshParser struct {
	multiline strings.Builder
	pending   time.Time
	entries   []Entry
}

func (p *zshParser) processLine(line string) {
	if p.multiline.Len() > 0 {
		p.add(line)
		return
	}
	if strings.HasPrefix(line, ": ") {
		if idx := strings.Index(line, ";"); idx != -1 {
			meta := line[2:idx]
			if colon := strings.Index(meta, ":"); colon != -1 {
				if ts, err := strconv.ParseInt(meta[:colon], 10, 64); err == nil {
					p.pending = time.Unix(ts, 0)
				}
			}
			line = line[idx+1:]
		}
	}
	p.add(line)
}

func (p *zshParser) add(line string) {
	if hasUnescapedTrailingBackslash(line) {
		p.multiline.WriteString(line[:len(line)-1])
		p.multiline.WriteString("\n")
		return
	}
	p.multiline.WriteString(line)
	p.flush()
}

func (p *zshParser) flush() {
	cmd := p.multiline.String()
	p.multiline.Reset()
	if cmd != "" {
		p.entries = append(p.entries, Entry{Command: cmd, Timestamp: p.pending})
	}
	p.pending = time.Time{}
}

func (p *zshParser) finish() []Entry {
	if p.multiline.Len() > 0 {
		cmd := strings.TrimSuffix(p.multiline.String(), "\n")
		p.multiline.Reset()
		p.multiline.WriteString(cmd)
		p.flush()
	}
	return p.entries
}

// hasUnescapedTrailingBackslash reports whether s ends in an odd number of
// backslashes.
func hasUnescapedTrailingBackslash(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// ParseFish parses the pseudo-YAML fish history format. Each entry is a
// "- cmd: <command>" line followed by indented "when: <unix_timestamp>"
// and "paths:" keys.
func ParseFish(r io.Reader) ([]Entry, error) {
	p := &fishParser{}
	scanner := newScanner(r)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

type fishParser struct {
	when    time.Time
	cmd     string
	entries []Entry
	inPaths bool
}

func (p *fishParser) parseLine(line string) {
	switch {
	case strings.HasPrefix(line, "- cmd: "):
		p.flush()
		p.cmd = strings.TrimPrefix(line, "- cmd: ")
		p.inPaths = false
	case strings.HasPrefix(line, "  when: "):
		if ts, err := strconv.ParseInt(strings.TrimPrefix(line, "  when: "), 10, 64); err == nil {
			p.when = time.Unix(ts, 0)
		}
		p.inPaths = false
	case strings.HasPrefix(line, "  paths:"):
		p.inPaths = true
	case p.inPaths && strings.HasPrefix(line, "    "):
	case !strings.HasPrefix(line, " "):
		p.inPaths = false
	}
}

func (p *fishParser) flush() {
	if p.cmd != "" {
		p.entries = append(p.entries, Entry{Command: decodeFishEscapes(p.cmd), Timestamp: p.when})
	}
	p.cmd = ""
	p.when = time.Time{}
}

func (p *fishParser) finish() []Entry {
	p.flush()
	return p.entries
}

// decodeFishEscapes decodes "\\" and "\n", the two escapes fish writes.
func decodeFishEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
