package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choicesDocument() model.Document {
	return model.Document{
		Program: model.ProgramMetadata{
			Name:        "Example program",
			Description: "The description of the program",
			Epilog:      "Goes at the end",
		},
		Arguments: []model.ArgumentSpec{
			{Name: "input", Type: model.TypeString, Help: "input TOML file"},
			{Name: "--output", Short: "-o", Type: model.TypeString, Default: "cli_args", Help: "output file"},
			{Name: "--lang", Short: "-l", Type: model.TypeString, Required: true, Choices: []string{"python", "bash"}, Help: "language for the generated code"},
			{Name: "--files", Short: "-f", Type: model.TypeString, Multiple: true, Default: "a.txt b.txt", Help: "pass any number of files"},
		},
	}
}

func TestGenerate_CxxoptsGolden(t *testing.T) {
	t.Parallel()

	// --- Act ---
	files, err := Generate("cpp-cxxopts", choicesDocument(), filepath.Join("build", "sample2"))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, files, 2)
	for i, name := range []string{"sample2.cpp", "sample2.hpp"} {
		assert.Equal(t, filepath.Join("build", name), files[i].Name)
		want, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		if diff := cmp.Diff(string(want), string(files[i].Content)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestGenerate_CxxoptsExtras(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files, err := Generate("cpp-cxxopts", model.Document{
		Program: model.ProgramMetadata{Name: "tool", Description: `says "hi"`},
		Arguments: []model.ArgumentSpec{
			{Name: "src", Type: model.TypeString, Help: "source"},
			{Name: "dst", Type: model.TypeString, Help: "destination"},
			{Name: "--dry-run", Type: model.TypeFlag, Default: "false", Help: "only print"},
			{Name: "--color", Type: model.TypeFlag, Default: "true", Dest: "colorize", Help: "disable colors"},
			{Name: "--level", Short: "-L", Type: model.TypeInt, Default: "0x10", Choices: []string{"1", "16"}, Help: "level"},
			{Name: "--tags", Type: model.TypeString, Multiple: true, Choices: []string{"a", "b"}, Help: "tags"},
		},
	}, "")
	require.NoError(t, err)
	source, header := string(files[0].Content), string(files[1].Content)

	// --- Assert ---
	assert.Equal(t, "cli_args.cpp", files[0].Name)
	for _, want := range []string{
		`#include "cli_args.hpp"`,
		`cxxopts::Options options("tool", "says \"hi\"");`,
		`options.parse_positional({"src", "dst"});`,
		`("dry-run", "only print (default: false)", cxxopts::value<bool>())`,
		`("L,level", "level", cxxopts::value<int>()->default_value("16"))`,
		`("tags", "tags (required)", cxxopts::value<std::vector<std::string>>())`,
		`opts->dry_run = result["dry-run"].as<bool>();`,
		`opts->colorize = !result["color"].as<bool>(); // invert back`,
		`std::set<int> level_valid{1, 16};`,
		`if (level_valid.find(opts->level) == level_valid.end()) {`,
		`for (const auto& item : opts->tags) {`,
		`if (tags_valid.find(item) == tags_valid.end()) {`,
		`std::cout << "dry-run: " << opts.dry_run << "\n";`,
	} {
		assert.Contains(t, source, want)
	}
	assert.Contains(t, header, "bool dry_run;")
	assert.Contains(t, header, "std::vector<std::string> tags;")
}

func TestGenerate_CxxoptsRejectsMistypedChoice(t *testing.T) {
	t.Parallel()

	_, err := Generate("cpp-cxxopts", model.Document{
		Program:   model.ProgramMetadata{Name: "tool"},
		Arguments: []model.ArgumentSpec{{Name: "--level", Type: model.TypeInt, Default: "1", Choices: []string{"1", "high"}, Help: "level"}},
	}, "")
	assert.ErrorContains(t, err, `choice "high"`)
}
