package cmd

import "github.com/ardnew/ycomp/pkg"

//nolint:gochecknoglobals
var (
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrReadVars    = pkg.NewError("read variables")
	ErrWarnings    = pkg.NewError("composition produced warnings")
)
