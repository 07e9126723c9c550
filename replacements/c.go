// Copyright (c) 2024 The treereduce developers

// Package replacements holds canonical smaller-form replacement tables
// for Replace tasks (spec.md §6), keyed by grammar node kind. Each table
// is specific to one tree-sitter grammar's node-type names.
package replacements

// C is the canonical replacement table for the tree-sitter C grammar: for
// each listed node kind, the smallest syntactically valid form the
// reducer may substitute in place of a larger instance of that kind.
var C = map[string][][]byte{
	"compound_statement": {[]byte("{}")},
	"number_literal":     {[]byte("0")},
	"string_literal":     {[]byte(`""`)},
	"char_literal":       {[]byte("'0'")},
	"return_statement":   {[]byte("return;"), []byte("return 0;")},
	"if_statement":       {[]byte("if(0);")},
	"for_statement":      {[]byte("for(;;);")},
	"while_statement":    {[]byte("while(0);")},
	"expression_statement": {[]byte(";")},
	"binary_expression":  {[]byte("0")},
	"call_expression":    {[]byte("0")},
	"declaration":        {[]byte("int x;")},
	"initializer_list":   {[]byte("{0}")},
	"argument_list":      {[]byte("()")},
	"parameter_list":     {[]byte("(void)")},
}
