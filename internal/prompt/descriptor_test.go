package prompt_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akave-ai/confprompt/internal/prompt"
)

func TestDefaultFormatter(t *testing.T) {
	f := prompt.DefaultFormatter{}
	assert.Equal(t, "Confirm a.b (yes/no)?", f.FormatMessage(prompt.TypeConfirm, "a.b"))
	assert.Equal(t, "Please enter a text value for name:", f.FormatMessage(prompt.TypeText, "name"))
	assert.Equal(t, "Please enter a number value for port:", f.FormatMessage(prompt.TypeNumber, "port"))
}

func TestTemplateFormatter(t *testing.T) {
	f, err := prompt.NewTemplateFormatter(`{{ .Name | upper }} [{{ .Type }}]`)
	require.NoError(t, err)

	cfg := prompt.NewMapping().Set("db", prompt.NewMapping().Set("host", prompt.String("x")))
	got, err := prompt.Generate(cfg, prompt.WithFormatter(f))
	require.NoError(t, err)
	assert.Equal(t, "DB.HOST [text]", got[0].Message)

	_, err = prompt.NewTemplateFormatter(`{{ .Name `)
	assert.Error(t, err)
}

func TestDescriptorJSON(t *testing.T) {
	cfg := prompt.NewMapping().
		Set("count", prompt.Int(10)).
		Set("empty", prompt.Null{}).
		Set("list", prompt.Array{prompt.String("a"), prompt.Bool(true)}).
		Set("on", prompt.Bool(false))

	descs, err := prompt.Generate(cfg)
	require.NoError(t, err)

	b, err := json.Marshal(descs)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"number","name":"count","message":"Please enter a number value for count:","default":10},
		{"type":"text","name":"empty","message":"Please enter a text value for empty:","default":null},
		{"type":"text","name":"list","message":"Please enter a text value for list:","default":["a",true]},
		{"type":"confirm","name":"on","message":"Confirm on (yes/no)?","default":false}
	]`, string(b))
}

func TestMappingJSONKeepsOrder(t *testing.T) {
	in := `{"z":1,"a":{"y":[1,2],"b":null},"m":"x"}`

	var m prompt.Mapping
	require.NoError(t, json.Unmarshal([]byte(in), &m))

	out, err := json.Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestNumberJSON(t *testing.T) {
	b, err := json.Marshal(prompt.Float(0.1))
	require.NoError(t, err)
	assert.Equal(t, "0.1", string(b))

	_, err = json.Marshal(prompt.Float(math.Inf(1)))
	assert.Error(t, err)
}

func TestMappingSet(t *testing.T) {
	var m prompt.Mapping
	m.Set("a", prompt.Int(1)).Set("b", nil).Set("a", prompt.Int(2))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	a, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, prompt.Int(2), a)
	b, _ := m.Get("b")
	assert.Equal(t, prompt.Null{}, b)
	_, ok = m.Get("c")
	assert.False(t, ok)

	entries := m.Entries()
	entries[0].Key = "changed"
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}

func TestMappingSet_NilMappingIsNull(t *testing.T) {
	var nested *prompt.Mapping
	m := prompt.NewMapping().Set("db", nested)

	v, ok := m.Get("db")
	require.True(t, ok)
	assert.Equal(t, prompt.Null{}, v)

	descs, err := prompt.Generate(m)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "db", descs[0].Name)
	assert.Equal(t, prompt.TypeText, descs[0].Type)
}
