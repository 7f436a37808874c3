package codegen

import (
	"testing"

	"github.com/specialistvlad/climeta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Bash(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	doc := choicesDocument()
	doc.Program.Description = "it's quoted"
	doc.Arguments = append(doc.Arguments,
		model.ArgumentSpec{Name: "--verbose", Short: "-v", Type: model.TypeFlag, Default: "false", Help: "enable verbose mode"},
		model.ArgumentSpec{Name: "--color", Type: model.TypeFlag, Default: "true", Dest: "colorize", Help: "disable colors"},
		model.ArgumentSpec{Name: "--dry-run", Type: model.TypeFlag, Default: "false", Help: "only print"},
	)

	// --- Act ---
	files, err := Generate("bash", doc, "parser")

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "parser.sh", files[0].Name)
	out := string(files[0].Content)

	for _, want := range []string{
		"#!/usr/bin/env bash",
		"usage() {",
		`echo 'it'\''s quoted'`,
		"echo '  input                      : input TOML file (required)'",
		`echo '  -o OUTPUT, --output OUTPUT : output file (default "cli_args")'`,
		`echo '  -f FILES, --files FILES    : pass any number of files (default "a.txt" "b.txt")'`,
		`echo '  -v, --verbose              : enable verbose mode (default "0")'`,
		"echo 'Goes at the end'",
		"check_valid_arg() {",
		"parse_args() {",
		"'o'|'l'|'f')",
		"'--output'|'-o')",
		`output="$2"`,
		`files="${files:+$files }$2"`,
		"'--verbose'|'-v')",
		`verbose="1"`,
		`colorize="0"`,
		`dry_run="1"`,
		`if [ "$_positional_idx" -eq 0 ]; then`,
		`input="$1"`,
		"validate_args() {",
		`if [ -z "${input:-}" ]; then`,
		`echo 'ERROR: --lang is required' >&2`,
		`case "$lang" in`,
		"'python'|'bash') ;;",
		`printf 'ERROR: %s must be one of: %s (got '\''%s'\'')\n' '--lang' 'python, bash' "$lang" >&2`,
		"dump_args() {",
		`echo 'files:'`,
		`echo 'dry-run: '"$dry_run"`,
		"get_cli_args() {",
		"output='cli_args'",
		"files='a.txt b.txt'",
		"colorize='1'",
		"dry_run='0'",
		`# get_cli_args "$@"`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "VERBOSE", "flags take no value")
}

func TestGenerate_BashWithoutPositionals(t *testing.T) {
	t.Parallel()

	out := generateOne(t, "bash", model.Document{
		Program:   model.ProgramMetadata{Name: "tool"},
		Arguments: []model.ArgumentSpec{{Name: "--mode", Type: model.TypeString, Default: "fast", Choices: []string{"fast", "slow"}, Multiple: true, Help: "mode"}},
	})

	assert.Contains(t, out, `echo "ERROR: Unexpected positional argument: $1" >&2`)
	assert.NotContains(t, out, "_positional_idx=$((")
	assert.Contains(t, out, "for _item in $mode; do")
	assert.Contains(t, out, `case "$_item" in`)
	assert.NotContains(t, out, "'m')", "options without a short alias are not split")
}
