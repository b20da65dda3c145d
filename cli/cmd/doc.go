// Package cmd implements the ycomp subcommands.
package cmd

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ycomp/composer"
	"github.com/ardnew/ycomp/document"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// Vars returns the kong variables referenced by the subcommand flags.
func Vars() kong.Vars {
	return kong.Vars{
		"formatEnum":      strings.Join(slices.Collect(document.Formats()), ","),
		"formatDefault":   document.FormatYAML.String(),
		"indentDefault":   strconv.Itoa(document.DefaultIndent),
		"maxDepthDefault": strconv.Itoa(composer.DefaultMaxDepth),
	}
}
