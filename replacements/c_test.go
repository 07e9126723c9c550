// Copyright (c) 2024 The treereduce developers

package replacements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCCoversCoreStatementAndExpressionKinds(t *testing.T) {
	for _, kind := range []string{
		"compound_statement",
		"number_literal",
		"string_literal",
		"if_statement",
		"for_statement",
		"while_statement",
		"return_statement",
	} {
		assert.NotEmpty(t, C[kind], "missing replacement table for %s", kind)
	}
}

func TestCAlternativesAreNonEmptyByteSlices(t *testing.T) {
	for kind, alts := range C {
		for _, alt := range alts {
			assert.NotEmpty(t, alt, "empty replacement for kind %s", kind)
		}
	}
}
