package authflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"string detail", `{"detail":"User with this email already exists"}`, "User with this email already exists"},
		{"empty string detail", `{"detail":""}`, ""},
		{"non-ascii detail", `{"detail":"Неправильна електронна пошта або пароль"}`, "Неправильна електронна пошта або пароль"},
		{
			"validation list",
			`{"detail":[{"msg":"email required"},{"msg":"password too short"}]}`,
			"email required\npassword too short",
		},
		{
			"element without msg falls back to its JSON",
			`{"detail":[{"loc":["body","email"], "type":"missing"},{"msg":"password too short"}]}`,
			`{"loc":["body","email"],"type":"missing"}` + "\npassword too short",
		},
		{"empty msg is not used", `{"detail":[{"msg":"","type":"x"}]}`, `{"msg":"","type":"x"}`},
		{"null msg is not used", `{"detail":[{"msg":null}]}`, `{"msg":null}`},
		{"numeric msg", `{"detail":[{"msg":42}]}`, "42"},
		{"non-object elements", `{"detail":["plain",7,null]}`, "\"plain\"\n7\nnull"},
		{"empty list", `{"detail":[]}`, ""},
		{"missing detail", `{}`, `{}`},
		{"other fields only", `{"error": "boom",  "code": 7}`, `{"error":"boom","code":7}`},
		{"null detail", `{"detail":null}`, `{"detail":null}`},
		{"object detail", `{"detail":{"reason":"x"}}`, `{"detail":{"reason":"x"}}`},
		{"number detail", `{"detail":5}`, `{"detail":5}`},
		{"payload is a string", `"oops"`, `"oops"`},
		{"payload is an array", `[{"detail":"x"}]`, `[{"detail":"x"}]`},
		{"payload is null", `null`, `null`},
		{"payload is not JSON", ` Internal Server Error `, "Internal Server Error"},
		{"empty payload", ``, ""},
		{
			"escapes are decoded",
			`{"detail":[{"loc":["body"],"input":"\u0444\/x"}]}`,
			`{"loc":["body"],"input":"ф/x"}`,
		},
		{"html characters are kept", `{"z":"<a&b>","a":"q\"\n"}`, `{"z":"<a&b>","a":"q\"\n"}`},
		{
			"numbers in shortest form",
			`{"n":1.0,"m":1e2,"k":-0,"v":1e21,"w":0.0000001,"big":1e400}`,
			`{"n":1,"m":100,"k":0,"v":1e+21,"w":1e-7,"big":null}`,
		},
		{"numeric msg is normalized", `{"detail":[{"msg":1.50}]}`, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractErrorMessage(json.RawMessage(tt.payload)))
		})
	}
}

func TestExtractErrorMessage_Idempotent(t *testing.T) {
	payload := json.RawMessage(`{"detail":[{"msg":"a"},{"loc":["b"]}]}`)

	first := ExtractErrorMessage(payload)
	second := ExtractErrorMessage(payload)
	assert.Equal(t, first, second)
	assert.Equal(t, `{"detail":[{"msg":"a"},{"loc":["b"]}]}`, string(payload), "payload must not be modified")
}

func TestRawDetail(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"string detail", `{"detail":"bad credentials"}`, "bad credentials"},
		{"list detail kept as JSON", `{"detail":[{"msg":"a"}, {"msg":"b"}]}`, `[{"msg":"a"},{"msg":"b"}]`},
		{"missing detail", `{"other":1}`, `{"other":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RawDetail(json.RawMessage(tt.payload)))
		})
	}
}
