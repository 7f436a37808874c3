package server

import "github.com/specialistvlad/climeta/internal/model"

func editorProgram() model.ProgramMetadata {
	return model.ProgramMetadata{Name: "tool", Description: "does things"}
}

func editorArgument(name string) model.ArgumentSpec {
	return model.ArgumentSpec{Name: name, Type: model.TypeString, Help: name + " help"}
}
