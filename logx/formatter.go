package logx

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// redacted replaces secrets found in formatted values
const redacted = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Bearer\s+)[A-Za-z0-9._\-]+`),
	regexp.MustCompile(`(?i)("(?:access_?token|token|app_?secret|verify_?token)"\s*:\s*")[^"]*`),
}

// Redact masks bearer tokens and credential fields in s
func Redact(s string) string {
	for _, re := range secretPatterns {
		s = re.ReplaceAllString(s, "${1}"+redacted)
	}
	return s
}

// formatValue renders debug arguments. Structs, maps and slices are rendered
// as JSON, indented for console output and compact otherwise.
func formatValue(v any, indent bool) any {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case error:
		return fmt.Sprintf("Error(%q)", val.Error())
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	case string, []byte, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return Redact(string(data))
}
