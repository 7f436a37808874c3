package hcl

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

func TestRoundTrip_EscapesValues(t *testing.T) {
	t.Parallel()

	want := model.Document{
		Program: model.ProgramMetadata{
			Name:        "quoted",
			Description: `says "hi" and a = b`,
			Epilog:      "tab\tseparated with ${not_a_template}",
		},
		Arguments: []model.ArgumentSpec{
			{Name: "input", Type: model.TypeString, Required: true, Help: `the "input" file`},
			{Name: "--lang", Short: "-l", Type: model.TypeString, Required: true, Choices: []string{"python", "bash"}, Help: "language"},
			{Name: "--files", Type: model.TypeString, Multiple: true, Default: "a.txt b.txt", Dest: "files_", Metavar: "f", Help: "files"},
			{Name: "--float", Type: model.TypeFloat, Default: "7.0", Help: "keeps its spelling"},
		},
	}

	ctx := testContext()
	c := NewCodec()
	out, err := c.Encode(ctx, want)
	require.NoError(t, err)
	assert.Contains(t, string(out), `argument "--lang" {`)
	assert.Contains(t, string(out), `choices  = ["python", "bash"]`)

	got, err := c.Decode(ctx, out)
	require.NoError(t, err)
	if diff := cmp.Diff(want, *got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := c.Encode(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestDecode_TypedDefaults(t *testing.T) {
	t.Parallel()

	src := `
program {
  name        = "typed"
  description = "defaults with native types"
  colour      = "ignored"
}

argument "--ratio" {
  type    = "float"
  default = 0.5
  help    = "ratio"
}

argument "--verbose" {
  type    = "flag"
  default = false
  help    = "verbose"
}

argument "--files" {
  type     = "string"
  multiple = true
  default  = ["a.txt", "b.txt"]
  help     = "files"
}

argument "--missing" {
  type = "int"
}
`
	doc, err := Decode(testContext(), []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Arguments, 4)
	assert.Equal(t, "typed", doc.Program.Name)
	assert.Equal(t, "0.5", doc.Arguments[0].Default)
	assert.Equal(t, "false", doc.Arguments[1].Default)
	assert.Equal(t, "a.txt b.txt", doc.Arguments[2].Default)
	assert.True(t, doc.Arguments[2].Multiple)
	assert.Equal(t, "", doc.Arguments[3].Help, "missing keys stay empty")

	var verrs model.ValidationErrors
	require.ErrorAs(t, doc.Validate(), &verrs)
	assert.Equal(t, 3, verrs[0].Index)
}

func TestDecode_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Decode(testContext(), []byte(`argument "--x" {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL document")

	_, err = Decode(testContext(), []byte(`argument "--x" { default = { a = 1 } }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid default")
}

func TestEncode_RejectsInvalid(t *testing.T) {
	t.Parallel()

	out, err := Encode(model.Document{Arguments: []model.ArgumentSpec{{Name: "--v", Type: model.TypeFlag, Default: "yes", Help: "v"}}})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, model.ErrTypeMismatch)
}
