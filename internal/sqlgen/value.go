package sqlgen

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tordrt/jsonsql/internal/schema"
	"github.com/tordrt/jsonsql/internal/sqltype"
)

// RenderValue writes value as an SQL literal for a column of dataType.
//
// nil is always the literal null. Strings are quoted with embedded single
// quotes doubled. Booleans become 1 or 0. Binary values that already are hex
// literals or UUID_TO_BIN(...) calls pass through; other binary values are
// wrapped in BINARY(...).
func (g *Generator) RenderValue(value any, dataType string) (string, error) {
	if schema.IsUnset(value) {
		return "", fmt.Errorf("%w: no value for insert", ErrInvalidValue)
	}
	if value == nil {
		return "null", nil
	}

	switch g.registry.Classify(dataType) {
	case sqltype.Plain:
		return strings.TrimSpace(Text(value)), nil

	case sqltype.QuotedString:
		return Quote(Text(value)), nil

	case sqltype.Boolean:
		if b, ok := value.(bool); ok {
			if b {
				return "1", nil
			}
			return "0", nil
		}
		str := strings.TrimSpace(Text(value))
		if str != "0" && str != "1" {
			return "", fmt.Errorf("%w: %q for boolean must be true, false, 0 or 1", ErrInvalidValue, str)
		}
		return str, nil

	case sqltype.Binary:
		return renderBinary(value), nil
	}

	if g.strict {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, dataType)
	}
	g.logger.Warn("unknown data type formatting, writing value unquoted",
		"value", value, "dataType", dataType)
	return Text(value), nil
}

func renderBinary(value any) string {
	switch v := value.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(v)
	case uuid.UUID:
		return "0x" + hex.EncodeToString(v[:])
	}

	str := strings.TrimSpace(Text(value))
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(strings.ToUpper(str), "UUID_TO_BIN") {
		return str
	}
	return "BINARY(" + str + ")"
}

// literalEscaper escapes backslashes for MySQL, which treats them as escape
// characters by default, and doubles single quotes.
var literalEscaper = strings.NewReplacer(`\`, `\\`, "'", "''")

// Quote wraps s in single quotes, escaping backslashes and doubling any
// single quote inside it
func Quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

// Text returns the canonical text form of a value
func Text(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
