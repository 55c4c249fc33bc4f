// Package model defines the data structures shared by the repair workflow.
package model

// Path represents a file system path.
type Path string

// MethodSignature describes one public method found in a source unit.
type MethodSignature struct {
	Name       string `yaml:"name"`
	ReturnType string `yaml:"return_type"`
	Parameters string `yaml:"parameters"`
}

// Features is the pattern-extracted description of a source file.
// Fields that could not be recovered stay empty.
type Features struct {
	Namespace string   `yaml:"namespace,omitempty"`
	Imports   []string `yaml:"imports,omitempty"`
	TypeName  string   `yaml:"type_name,omitempty"`
	// ConstructorParams holds the raw parameters of the widest constructor.
	ConstructorParams []string          `yaml:"constructor_params,omitempty"`
	Methods           []MethodSignature `yaml:"methods,omitempty"`
	// DependencyTypes is a set ordered by first appearance.
	DependencyTypes []string `yaml:"dependency_types,omitempty"`
}

// SourceUnit is a discovered source file. It is never modified after discovery.
type SourceUnit struct {
	Path     Path
	Text     string
	Hash     string
	Features Features
}
