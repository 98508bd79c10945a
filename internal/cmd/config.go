package cmd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/hidforge/internal/configpaths"
	"github.com/Alia5/hidforge/profile"
)

// Config groups config-related subcommands.
type Config struct {
	Init ConfigInit `cmd:"" help:"Generate a device profile template"`
}

// ConfigInit scaffolds a profile file.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
	Output string `help:"Destination file path (defaults to the current directory)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

func (c *ConfigInit) Run(logger *slog.Logger) error {
	dest := c.Output
	if dest == "" {
		dest = "device." + c.Format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = json.MarshalIndent(sampleProfile(), "", "  ")
	case "toml":
		data, err = toml.Marshal(sampleProfile())
	default:
		data, err = yaml.Marshal(sampleProfile())
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	logger.Info("profile template written", "path", dest)
	return nil
}

func sampleProfile() profile.File {
	return profile.File{
		Name: "mouse",
		Collection: &profile.CollectionSpec{
			UsagePage: "generic_desktop",
			Usage:     "mouse",
			Kind:      "physical",
			Items: []profile.ItemSpec{
				{Type: "buttons", Count: 3},
				{Type: "padding", Bits: 5},
				{Type: "axis", Usage: "x"},
				{Type: "axis", Usage: "y"},
				{Type: "axis", Usage: "wheel"},
			},
		},
	}
}
