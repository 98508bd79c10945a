package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/Alia5/hidforge/compile"
	"github.com/Alia5/hidforge/profile"
)

// Compile lowers a profile to descriptor bytes.
type Compile struct {
	Profile   string `arg:"" help:"Device profile file (yaml/toml/json)" type:"existingfile"`
	Out       string `help:"Write descriptor bytes to this file instead of stdout"`
	Hex       bool   `help:"Print the descriptor as hex instead of raw bytes"`
	AutoPad   bool   `help:"Pad misaligned input reports to byte boundaries" default:"true" negatable:""`
	PadAll    bool   `help:"Extend auto padding to output and feature reports"`
	ReportIds string `help:"Report ID assignment" enum:"explicit,auto" default:"explicit"`
}

func (c *Compile) Run(logger *slog.Logger) error {
	prof, err := profile.Load(c.Profile)
	if err != nil {
		return err
	}
	root, err := prof.Schema()
	if err != nil {
		return err
	}
	data, err := compile.Compile(root, compile.Options{
		AutoPad:   c.AutoPad,
		PadAll:    c.PadAll,
		ReportIDs: reportIDStrategy(c.ReportIds),
	})
	if err != nil {
		return err
	}
	logger.Debug("compiled profile", "profile", prof.Name, "bytes", len(data))

	if c.Out != "" {
		return os.WriteFile(c.Out, data, 0o644)
	}
	if c.Hex {
		fmt.Println(hex.EncodeToString(data))
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}
