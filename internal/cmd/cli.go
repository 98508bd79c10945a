// Package cmd defines the hidforge command tree.
package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Alia5/hidforge/analyze"
	"github.com/Alia5/hidforge/compile"
)

// CLI is the kong root.
type CLI struct {
	ConfigFile string `name:"config" help:"Path to a configuration file" placeholder:"PATH"`

	Log struct {
		Level string `help:"Log level (trace|debug|info|warn|error)" default:"info"`
		File  string `help:"Also write logs to a file; console logs then all go to stderr"`
	} `embed:"" prefix:"log."`

	Compile Compile `cmd:"" help:"Compile a device profile to report-descriptor bytes"`
	Analyze Analyze `cmd:"" help:"Analyze a report descriptor into items and a report layout"`
	Encode  Encode  `cmd:"" help:"Encode field values into a report packet"`
	Decode  Decode  `cmd:"" help:"Decode a report packet against a descriptor"`
	Config  Config  `cmd:"" help:"Configuration helpers"`
}

func parseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func reportType(s string) analyze.ReportType {
	switch s {
	case "output":
		return analyze.Output
	case "feature":
		return analyze.Feature
	default:
		return analyze.Input
	}
}

func reportIDStrategy(s string) compile.ReportIDStrategy {
	if s == "auto" {
		return compile.ReportIDAuto
	}
	return compile.ReportIDExplicit
}
