package deps

// languageRules maps grammar node types to extraction roles for one
// language. importNodes introduce a dependency whose specifier lives in
// a descendant of a specifierNodes type; definitionNodes declare a named
// symbol whose name is a direct child of an identifierNodes type.
type languageRules struct {
	importNodes     map[string]bool
	specifierNodes  map[string]bool
	definitionNodes map[string]bool
	identifierNodes map[string]bool
}

var jsRules = languageRules{
	importNodes:    set("import_statement", "export_statement"),
	specifierNodes: set("string"),
	definitionNodes: set(
		"function_declaration",
		"generator_function_declaration",
		"class_declaration",
		"method_definition",
	),
	identifierNodes: set("identifier", "property_identifier"),
}

var tsRules = languageRules{
	importNodes:    set("import_statement", "export_statement"),
	specifierNodes: set("string"),
	definitionNodes: set(
		"function_declaration",
		"generator_function_declaration",
		"class_declaration",
		"abstract_class_declaration",
		"method_definition",
		"interface_declaration",
		"type_alias_declaration",
		"enum_declaration",
	),
	identifierNodes: set("identifier", "property_identifier", "type_identifier"),
}

var goRules = languageRules{
	importNodes:    set("import_spec"),
	specifierNodes: set("interpreted_string_literal", "raw_string_literal"),
	definitionNodes: set(
		"function_declaration",
		"method_declaration",
		"type_spec",
	),
	identifierNodes: set("identifier", "field_identifier", "type_identifier"),
}

var pythonRules = languageRules{
	importNodes:     set("import_statement", "import_from_statement"),
	specifierNodes:  set("relative_import", "dotted_name"),
	definitionNodes: set("function_definition", "class_definition"),
	identifierNodes: set("identifier"),
}

// rulesFor returns the extraction rules for a language name as stored on
// chunks ("go", "javascript", "typescript", "python").
func rulesFor(language string) (languageRules, bool) {
	switch language {
	case "go":
		return goRules, true
	case "javascript":
		return jsRules, true
	case "typescript":
		return tsRules, true
	case "python":
		return pythonRules, true
	}
	return languageRules{}, false
}

func set(types ...string) map[string]bool {
	m := make(map[string]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}
