// Copyright (c) 2024 The treereduce developers

package nodetypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `[
	{
		"type": "translation_unit",
		"named": true,
		"children": {"multiple": true, "required": false, "types": [{"type": "_top_level_item", "named": true}]}
	},
	{
		"type": "_top_level_item",
		"named": false,
		"subtypes": [{"type": "function_definition", "named": true}, {"type": "declaration", "named": true}]
	},
	{
		"type": "function_definition",
		"named": true,
		"fields": {
			"body": {"multiple": false, "required": true, "types": [{"type": "compound_statement", "named": true}]}
		}
	},
	{
		"type": "if_statement",
		"named": true,
		"fields": {
			"alternative": {"multiple": false, "required": false, "types": [{"type": "else_clause", "named": true}]}
		}
	},
	{
		"type": "call_expression",
		"named": true,
		"fields": {
			"arguments": {"multiple": true, "required": false, "types": [{"type": "argument", "named": true}]}
		}
	}
]`

func TestParseAndListTypes(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	list := nt.ListTypes("translation_unit")
	assert.Equal(t, []string{"_top_level_item"}, list)

	assert.Nil(t, nt.ListTypes("function_definition"))
}

func TestSubtypesExpandsAbstractKind(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	subs := nt.Subtypes("_top_level_item")
	assert.Contains(t, subs, "function_definition")
	assert.Contains(t, subs, "declaration")
}

func TestOptionalRequiredFieldIsNotOptional(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.False(t, nt.Optional("compound_statement", "function_definition"))
}

func TestOptionalSingularNonRequiredFieldIsOptional(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.True(t, nt.Optional("else_clause", "if_statement"))
}

func TestOptionalRepeatedNonRequiredFieldIsOptional(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.True(t, nt.Optional("argument", "call_expression"))
}

func TestOptionalDefaultsTrueForUnknownRelationship(t *testing.T) {
	nt, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.True(t, nt.Optional("declaration", "translation_unit"))
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}
