package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var req PredictRequest
	err := DecodeJSON(strings.NewReader(`{"recipes":[{"id":1,"cuisine":"greek","ingredients":["feta"]}],"extra":true}`), &req)
	require.NoError(t, err)
	require.Len(t, req.Recipes, 1)

	label, ok := req.Recipes[0].Label()
	assert.True(t, ok)
	assert.Equal(t, "greek", label)
}

func TestDecodeJSONErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		strict bool
	}{
		{"truncated", `{"recipes":[`, false},
		{"trailing object", `{"recipes":[]} {}`, false},
		{"trailing garbage", `{"recipes":[]} x`, false},
		{"unknown field strict", `{"recipes":[],"extra":1}`, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req PredictRequest
			var err error
			if tt.strict {
				err = DecodeJSONStrict(strings.NewReader(tt.input), &req)
			} else {
				err = DecodeJSON(strings.NewReader(tt.input), &req)
			}
			assert.Error(t, err)
		})
	}
}

func TestHashTokens(t *testing.T) {
	t.Parallel()

	a := HashTokens([]string{"salt", "pepper"})
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashTokens([]string{"salt", "pepper"}))
	assert.NotEqual(t, a, HashTokens([]string{"pepper", "salt"}))
	assert.NotEqual(t, a, HashTokens([]string{"salt pepper"}))
}

func TestRecipeLabel(t *testing.T) {
	t.Parallel()

	_, ok := NewRecipe(1, "salt").Label()
	assert.False(t, ok)

	label, ok := NewLabeledRecipe(2, "", "salt").Label()
	assert.True(t, ok)
	assert.Empty(t, label)
}

func TestGenerateUUID(t *testing.T) {
	t.Parallel()

	id := GenerateUUID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, GenerateUUID())
}
