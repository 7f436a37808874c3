package codegen

import (
	"fmt"
	"strings"
)

// emitter accumulates source lines at a current indentation level.
type emitter struct {
	unit  string
	level int
	lines []string
}

func newEmitter(unit string) *emitter {
	return &emitter{unit: unit}
}

func (e *emitter) line(format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	e.lines = append(e.lines, strings.Repeat(e.unit, e.level)+text)
}

func (e *emitter) blank() {
	e.lines = append(e.lines, "")
}

// block emits open, runs body one level deeper and emits close. Empty open or
// close lines are skipped.
func (e *emitter) block(open, close string, body func()) {
	if open != "" {
		e.line("%s", open)
	}
	e.level++
	body()
	e.level--
	if close != "" {
		e.line("%s", close)
	}
}

func (e *emitter) bytes() []byte {
	return []byte(strings.Join(e.lines, "\n") + "\n")
}
