package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes the top-level blocks of a document file.
type fileRoot struct {
	Program   *programBlock    `hcl:"program,block"`
	Arguments []*argumentBlock `hcl:"argument,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// programBlock is the `program` block.
type programBlock struct {
	Name        string   `hcl:"name,optional"`
	Description string   `hcl:"description,optional"`
	Epilog      string   `hcl:"epilog,optional"`
	Remain      hcl.Body `hcl:",remain"`
}

// argumentBlock is one `argument "<name>"` block.
type argumentBlock struct {
	Name     string     `hcl:"name,label"`
	Short    string     `hcl:"short,optional"`
	Type     string     `hcl:"type,optional"`
	Default  *cty.Value `hcl:"default,optional"`
	Metavar  string     `hcl:"metavar,optional"`
	Dest     string     `hcl:"dest,optional"`
	Multiple bool       `hcl:"multiple,optional"`
	Required bool       `hcl:"required,optional"`
	Choices  []string   `hcl:"choices,optional"`
	Help     string     `hcl:"help,optional"`
	Remain   hcl.Body   `hcl:",remain"`
}
