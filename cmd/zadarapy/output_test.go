package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func decodeResponse(t *testing.T, raw string) *client.Response {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	require.NoError(t, dec.Decode(&body))
	return &client.Response{StatusCode: 200, Raw: []byte(raw), Body: body}
}

func TestParseFields(t *testing.T) {
	assert.Nil(t, parseFields(""))
	assert.Equal(t, []string{"name", "status"}, parseFields(" name, ,status,"))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"abc", "abc"},
		{json.Number("42"), "42"},
		{true, "true"},
		{false, "false"},
		{[]any{"a", json.Number("1")}, `["a",1]`},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.in))
	}
}

func TestTabulateSortsFirstRecordKeys(t *testing.T) {
	headers, rows := tabulate([]map[string]any{
		{"status": "normal", "name": "pool-00000001", "capacity": json.Number("100")},
		{"name": "pool-00000002", "extra": "ignored"},
	})

	assert.Equal(t, []string{"capacity", "name", "status"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"100", "pool-00000001", "normal"}, rows[0])
	assert.Equal(t, []string{"", "pool-00000002", ""}, rows[1])
}

func TestRecordTitle(t *testing.T) {
	assert.Equal(t, "web", recordTitle(map[string]any{"display_name": "web", "name": "srv-00000001"}))
	assert.Equal(t, "srv-00000001", recordTitle(map[string]any{"name": "srv-00000001"}))
	assert.Equal(t, "", recordTitle(map[string]any{"id": "1"}))
}

func TestPrinterNoReturnKey(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	require.NoError(t, p.print(decodeResponse(t, `{"response":{"status":0}}`), ""))
	assert.Equal(t, msgSuccess+"\n", out.String())
}

func TestPrinterMissingKey(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	require.NoError(t, p.print(decodeResponse(t, `{"response":{"status":0}}`), "pools"))
	assert.Equal(t, msgEmptyResult+"\n", out.String())
}

func TestPrinterEmptyList(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	require.NoError(t, p.print(decodeResponse(t, `{"response":{"pools":[],"status":0}}`), "pools"))
	assert.Equal(t, msgEmptyResult+"\n", out.String())
}

func TestPrinterScalar(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	require.NoError(t, p.print(decodeResponse(t, `{"response":{"pool_name":"pool-00000003","status":0}}`), "pool_name"))
	assert.Equal(t, "pool-00000003\n", out.String())
}

func TestPrinterTopLevelSection(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	require.NoError(t, p.print(decodeResponse(t, `{"messages":[{"msg-id":"7","msg-time":"now"}]}`), "messages"))
	assert.Contains(t, out.String(), "Count: 1")
	assert.Contains(t, out.String(), "msg-time")
}

func TestPrinterTable(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out}

	raw := `{"response":{"pools":[
		{"name":"pool-00000001","display_name":"fast","capacity":100},
		{"name":"pool-00000002","display_name":"slow","capacity":200}],"status":0}}`
	require.NoError(t, p.print(decodeResponse(t, raw), "pools"))

	s := out.String()
	assert.Contains(t, s, "Count: 2")
	assert.Contains(t, s, "pool-00000001")
	assert.Contains(t, s, "pool-00000002")
	assert.Less(t, strings.Index(s, "capacity"), strings.Index(s, "display_name"))
}

func TestPrinterFields(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out, fields: []string{"name"}}

	raw := `{"response":{"pool":{"name":"pool-00000001","capacity":100,"pooltype":"Repository Storage"},"status":0}}`
	require.NoError(t, p.print(decodeResponse(t, raw), "pool"))

	s := out.String()
	assert.Contains(t, s, "pool-00000001")
	assert.NotContains(t, s, "capacity")
	assert.NotContains(t, s, "Repository Storage")
}

func TestPrinterVertical(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out, vertical: true}

	raw := `{"response":{"servers":[
		{"name":"srv-00000001","display_name":"web"},
		{"name":"srv-00000002","display_name":"db"}],"status":0}}`
	require.NoError(t, p.print(decodeResponse(t, raw), "servers"))

	s := out.String()
	assert.NotContains(t, s, "Count:")
	assert.Contains(t, s, "web")
	assert.Contains(t, s, "db")
	assert.Contains(t, s, "srv-00000002")
}

func TestPrinterJSON(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out, json: true}

	raw := `{"response":{"pools":[],"status":0}}`
	require.NoError(t, p.print(decodeResponse(t, raw), "pools"))
	assert.Equal(t, raw+"\n", out.String())
}

func TestRenderStaticTableWithoutHeaders(t *testing.T) {
	s := RenderStaticTable("vol1", nil, [][]string{{"name", "volume-00000001"}})

	assert.Contains(t, s, "vol1")
	assert.Contains(t, s, "volume-00000001")
	assert.Equal(t, 4, strings.Count(s, "\n")+1)
}

func TestPrinterInteractiveFallsBackWhenPiped(t *testing.T) {
	var out bytes.Buffer
	p := &printer{out: &out, interactive: true}

	raw := `{"response":{"drives":[{"name":"volume-00000001"}],"status":0}}`
	require.NoError(t, p.print(decodeResponse(t, raw), "drives"))
	assert.Contains(t, out.String(), "Count: 1")
	assert.Contains(t, out.String(), "volume-00000001")
}
