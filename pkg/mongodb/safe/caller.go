package safe

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Caller identifies the call site that asked for a value. It is only used
// to make diagnostics traceable back to the code that triggered them.
type Caller struct {
	Label string
	File  string
	Line  int
}

func (c Caller) String() string {
	return fmt.Sprintf("%s (%s:%d)", c.Label, c.File, c.Line)
}

// callerAt describes the function skip frames above the function calling callerAt
func callerAt(skip int) Caller {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Caller{Label: "unknown", File: "unknown"}
	}

	label := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		label = fn.Name()
		if idx := strings.LastIndex(label, "/"); idx >= 0 {
			label = label[idx+1:]
		}
	}

	return Caller{Label: label, File: filepath.Base(file), Line: line}
}
