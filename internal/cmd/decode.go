package cmd

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/Alia5/hidforge/analyze"
	"github.com/Alia5/hidforge/report"
)

// Decode unpacks a report packet into field values.
type Decode struct {
	Descriptor string `arg:"" help:"Report descriptor file" type:"existingfile"`
	Packet     string `arg:"" help:"Report packet as hex"`
	Type       string `help:"Report type" enum:"input,output,feature" default:"input"`
}

func (c *Decode) Run(logger *slog.Logger) error {
	data, err := os.ReadFile(c.Descriptor)
	if err != nil {
		return err
	}
	res, err := analyze.Analyze(data)
	if err != nil {
		return err
	}
	packet, err := parseHex(c.Packet)
	if err != nil {
		return err
	}
	dec := report.Decoder{Layout: res.Layout}
	values, err := dec.Decode(reportType(c.Type), packet)
	if err != nil {
		return err
	}
	logger.Debug("decoded packet", "bytes", len(packet), "fields", len(values))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
