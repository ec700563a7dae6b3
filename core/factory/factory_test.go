package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ A int }

type sampleConf struct {
	A int `json:"a"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	require.NoError(t, reg.Register("s", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{A: c.A}, nil
	}))
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, inst.A)

	// Env overrides arrive as strings.
	inst, err = reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": "7"}})
	require.NoError(t, err)
	assert.Equal(t, 7, inst.A)
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("z", nil))
	_, err := reg.Create(ModuleConfig{Type: "y"})
	assert.ErrorContains(t, err, `unknown module type "y"`)
	assert.Equal(t, []string{"x"}, reg.Names())
}
