package cmd

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/Alia5/hidforge/analyze"
)

// Analyze renders a descriptor's layout and item views as JSON.
type Analyze struct {
	Descriptor string `arg:"" help:"Report descriptor file" type:"existingfile"`
	Items      bool   `help:"Include the flat item listing"`
	Tree       bool   `help:"Include the structural item tree"`
}

func (c *Analyze) Run(logger *slog.Logger) error {
	data, err := os.ReadFile(c.Descriptor)
	if err != nil {
		return err
	}
	res, err := analyze.Analyze(data)
	if err != nil {
		return err
	}
	logger.Debug("analyzed descriptor", "bytes", len(data), "items", len(res.Items), "reports", len(res.Layout.Reports))

	out := map[string]any{"layout": res.Layout}
	if c.Items {
		out["items"] = analyze.ItemViews(res.Items)
	}
	if c.Tree {
		out["tree"] = res.Tree
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
