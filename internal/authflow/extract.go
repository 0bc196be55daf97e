package authflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractErrorMessage turns a backend error payload into one display string.
//
// A string "detail" is returned unchanged. An array "detail" yields the
// "msg" of each element, or the element's JSON text when it has no truthy
// "msg", joined by newlines in order. Any other payload is returned as its
// own JSON text. The function never fails.
func ExtractErrorMessage(payload json.RawMessage) string {
	detail, ok := detailOf(payload)
	if !ok {
		return jsonText(payload)
	}

	if s, ok := asString(detail); ok {
		return s
	}

	var items []json.RawMessage
	if leadingByte(detail) == '[' && json.Unmarshal(detail, &items) == nil {
		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = itemMessage(item)
		}
		return strings.Join(lines, "\n")
	}

	return jsonText(payload)
}

// RawDetail presents the "detail" field without interpreting validation
// entries: a string as-is, any other value as its JSON text. Without a
// "detail" field the whole payload's JSON text is returned.
func RawDetail(payload json.RawMessage) string {
	detail, ok := detailOf(payload)
	if !ok {
		return jsonText(payload)
	}
	if s, ok := asString(detail); ok {
		return s
	}
	return jsonText(detail)
}

// detailOf returns the raw "detail" member of an object payload.
func detailOf(payload json.RawMessage) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return nil, false
	}
	detail, ok := obj["detail"]
	return detail, ok
}

func itemMessage(item json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err == nil {
		if msg, ok := obj["msg"]; ok && truthy(msg) {
			if s, ok := asString(msg); ok {
				return s
			}
			return jsonText(msg)
		}
	}
	return jsonText(item)
}

// asString decodes raw when it is a JSON string. A JSON null is not a string.
func asString(raw json.RawMessage) (string, bool) {
	if leadingByte(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func leadingByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// truthy mirrors how a loosely typed client treats a JSON value in a
// boolean position: null, false, 0 and "" are false.
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// jsonText returns raw re-encoded the way a JavaScript client would print
// it: compact, member order kept, strings unescaped where JSON allows and
// numbers in their shortest form. Input that is not JSON at all is returned
// as trimmed text.
func jsonText(raw json.RawMessage) string {
	if !json.Valid(raw) {
		return string(bytes.TrimSpace(raw))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var buf bytes.Buffer
	if err := writeValue(&buf, dec); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}

func writeValue(buf *bytes.Buffer, dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return writeObject(buf, dec)
		}
		return writeArray(buf, dec)
	case string:
		writeString(buf, v)
	case json.Number:
		writeNumber(buf, v)
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	}
	return nil
}

func writeObject(buf *bytes.Buffer, dec *json.Decoder) error {
	buf.WriteByte('{')
	for i := 0; dec.More(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		writeString(buf, key)
		buf.WriteByte(':')
		if err := writeValue(buf, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, dec *json.Decoder) error {
	buf.WriteByte('[')
	for i := 0; dec.More(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte(']')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

// writeNumber prints n as a float64, which is what a JavaScript client
// holds after parsing. Out of range values print as null.
func writeNumber(buf *bytes.Buffer, n json.Number) {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	if f == 0 {
		f = 0 // drops the sign of -0
	}
	b, _ := json.Marshal(f)
	buf.Write(b)
}
