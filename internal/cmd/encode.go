package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Alia5/hidforge/analyze"
	"github.com/Alia5/hidforge/report"
)

// Encode packs name=value pairs into a report packet.
type Encode struct {
	Descriptor string   `arg:"" help:"Report descriptor file" type:"existingfile"`
	Set        []string `short:"s" help:"Field assignment name=value; repeatable" placeholder:"NAME=VALUE"`
	ReportId   uint8    `help:"Report ID to encode for" default:"0"`
	Type       string   `help:"Report type" enum:"input,output,feature" default:"input"`
	Strict     bool     `help:"Fail on out-of-range values instead of clamping"`
}

func (c *Encode) Run(logger *slog.Logger) error {
	data, err := os.ReadFile(c.Descriptor)
	if err != nil {
		return err
	}
	res, err := analyze.Analyze(data)
	if err != nil {
		return err
	}
	values, err := parseAssignments(c.Set)
	if err != nil {
		return err
	}
	enc := report.Encoder{Layout: res.Layout, Strict: c.Strict}
	packet, warns, err := enc.Encode(c.ReportId, reportType(c.Type), values)
	if err != nil {
		return err
	}
	for _, w := range warns {
		logger.Warn("value clamped", "field", w.Field, "value", w.Value, "clamped", w.Clamped)
	}
	fmt.Println(hex.EncodeToString(packet))
	return nil
}

func parseAssignments(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		switch raw {
		case "true":
			values[name] = true
		case "false":
			values[name] = false
		default:
			v, err := strconv.ParseInt(raw, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			values[name] = v
		}
	}
	return values, nil
}
