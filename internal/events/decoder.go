package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"iter"
)

// MaxLineSize bounds a single record; cargo can emit very long rendered diagnostics.
const MaxLineSize = 64 << 20

// Decoder reads build events from a stream. It is single use.
type Decoder struct {
	scanner *bufio.Scanner
	skipped int
	err     error
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Decoder{scanner: s}
}

// All yields events until the stream ends. Iteration can be stopped early.
func (d *Decoder) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for d.scanner.Scan() {
			line := bytes.TrimSpace(d.scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			ev := d.decodeLine(line)
			if !yield(ev) {
				return
			}
		}
		d.err = d.scanner.Err()
	}
}

// Err returns the first read error of the underlying stream.
func (d *Decoder) Err() error {
	return d.err
}

// Skipped returns the number of lines that were not JSON records.
func (d *Decoder) Skipped() int {
	return d.skipped
}

type envelope struct {
	Reason *string `json:"reason"`
}

func (d *Decoder) decodeLine(line []byte) Event {
	var env envelope
	if line[0] != '{' || json.Unmarshal(line, &env) != nil {
		d.skipped++
		return &TextLine{Text: string(line)}
	}
	if env.Reason == nil {
		return unknown("", line)
	}
	switch *env.Reason {
	case ReasonCompilerArtifact:
		return decodeArtifact(line)
	case ReasonCompilerMessage:
		var m CompilerMessage
		if json.Unmarshal(line, &m) != nil {
			return unknown(*env.Reason, line)
		}
		return &m
	case ReasonBuildScriptExecuted:
		var b BuildScriptExecuted
		if json.Unmarshal(line, &b) != nil || b.PackageID == "" {
			return unknown(*env.Reason, line)
		}
		return &b
	case ReasonBuildFinished:
		var raw struct {
			Success *bool `json:"success"`
		}
		if json.Unmarshal(line, &raw) != nil || raw.Success == nil {
			return unknown(*env.Reason, line)
		}
		return &BuildFinished{Success: *raw.Success}
	default:
		return unknown(*env.Reason, line)
	}
}

func decodeArtifact(line []byte) Event {
	var a CompilerArtifact
	if json.Unmarshal(line, &a) != nil {
		return unknown(ReasonCompilerArtifact, line)
	}
	if a.PackageID == "" || a.Target.Name == "" || len(a.Target.Kind) == 0 {
		return unknown(ReasonCompilerArtifact, line)
	}
	return &a
}

func unknown(kind string, line []byte) *Unknown {
	return &Unknown{Kind: kind, Raw: bytes.Clone(line)}
}
