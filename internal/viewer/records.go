package viewer

import (
	"regexp"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

// recordTimestampLayout matches channel.TimestampLayout.
const recordTimestampLayout = "2006-01-02 15:04:05"

// Record is one line of a log file.
type Record struct {
	// Line is the 1-based line number in the file.
	Line int
	// Raw is the line without its terminator.
	Raw string
	// Parsed is false for lines that do not look like a record. Only Line
	// and Raw are set on those.
	Parsed    bool
	Timestamp time.Time
	Level     string
	Message   string
	// Context is the JSON object after the message, or "".
	Context string
}

// Fields returns the top-level context entries. String values are
// returned unquoted; everything else keeps its JSON text.
func (r Record) Fields() map[string]string {
	if r.Context == "" {
		return nil
	}
	var p fastjson.Parser
	v, err := p.Parse(r.Context)
	if err != nil {
		return nil
	}
	obj, err := v.Object()
	if err != nil {
		return nil
	}
	out := make(map[string]string, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if val.Type() == fastjson.TypeString {
			out[string(key)] = string(val.GetStringBytes())
			return
		}
		out[string(key)] = val.String()
	})
	return out
}

// The optional colon accepts files written by older releases.
var recordHeader = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\] \[([A-Z]+)\]:? ?(.*)$`)

// ParseRecords splits file contents into records. Lines that do not start
// with a record header are kept as raw records.
func ParseRecords(text string) []Record {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		records = append(records, parseLine(i+1, line))
	}
	return records
}

func parseLine(n int, line string) Record {
	rec := Record{Line: n, Raw: line}
	m := recordHeader.FindStringSubmatch(line)
	if m == nil {
		return rec
	}
	ts, err := time.ParseInLocation(recordTimestampLayout, m[1], time.Local)
	if err != nil {
		return rec
	}

	rec.Parsed = true
	rec.Timestamp = ts
	rec.Level = m[2]
	rec.Message, rec.Context = splitContext(m[3])
	return rec
}

// splitContext separates the message from a trailing JSON object. The
// leftmost " {" whose remainder is a valid object wins, so a message may
// itself contain braces.
func splitContext(rest string) (message, context string) {
	if strings.HasSuffix(rest, " ") {
		return strings.TrimSuffix(rest, " "), ""
	}
	for i := 0; i < len(rest); i++ {
		j := strings.Index(rest[i:], " {")
		if j < 0 {
			break
		}
		i += j
		candidate := rest[i+1:]
		if fastjson.Validate(candidate) == nil {
			return rest[:i], candidate
		}
	}
	return rest, ""
}
