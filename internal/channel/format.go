package channel

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout is the timestamp at the start of every record.
const TimestampLayout = "2006-01-02 15:04:05"

// Fields is the structured context attached to a record.
type Fields map[string]any

// FormatRecord renders one record line, terminator included:
//
//	[2024-01-01 09:30:00] [INFO] hello {"k":"v"}
//
// The context is compact JSON with sorted keys. An empty context leaves an
// empty segment after the message. Line breaks in the message are written as
// the two-character escapes \r and \n so a record never spans lines.
func FormatRecord(at time.Time, levelName, message string, fields Fields) ([]byte, error) {
	ctx, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(TimestampLayout) + len(levelName) + len(message) + len(ctx) + 8)
	buf.WriteByte('[')
	buf.WriteString(at.Format(TimestampLayout))
	buf.WriteString("] [")
	buf.WriteString(levelName)
	buf.WriteString("] ")
	lineBreaks.WriteString(&buf, message)
	buf.WriteByte(' ')
	buf.Write(ctx)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

var lineBreaks = strings.NewReplacer("\r", `\r`, "\n", `\n`)

func encodeFields(fields Fields) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(fields)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
