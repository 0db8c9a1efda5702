package cmd

import "github.com/ardnew/lambdaeval/lang"

var (
	ErrJSONMarshal = lang.NewError("marshal JSON")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrOutput      = lang.NewError("unknown output format")
)
