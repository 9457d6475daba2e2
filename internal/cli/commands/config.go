package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqllab/internal/cli/config"
	"github.com/leapstack-labs/sqllab/internal/cli/output"
)

const redacted = "REDACTED"

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration in effect after merging defaults, the config file,
SQLLAB_ environment variables and flags, as YAML.

The session secret is redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			data, err := marshalConfig(cmdCtx.Cfg)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			file := config.GetConfigFileUsed()

			if r.EffectiveMode() == output.ModeMarkdown {
				if file != "" {
					r.KeyValue("File", file)
					r.Println("")
				}
				r.Println(output.FormatCodeBlock("yaml", string(data)))
				return nil
			}

			if file != "" {
				r.Printf("# %s\n", file)
			}
			r.Printf("%s", data)
			return nil
		},
	}
}

func marshalConfig(cfg *config.Config) ([]byte, error) {
	out := *cfg
	if out.Server.SessionSecret != "" {
		out.Server.SessionSecret = redacted
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
