package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/obsidian-mcp/internal"
	pkgconfig "github.com/starford/obsidian-mcp/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg, flagOverrides(cmd)...); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// flagOverrides applies flags and their environment variables on top of the
// config file. Only values that were actually set take effect.
func flagOverrides(cmd *cli.Command) []pkgconfig.Override[internal.Config] {
	var out []pkgconfig.Override[internal.Config]
	set := func(name string, apply func(*internal.Config)) {
		if cmd.IsSet(name) {
			out = append(out, apply)
		}
	}

	set("api-key", func(c *internal.Config) { c.Obsidian.APIKey = cmd.String("api-key") })
	set("host", func(c *internal.Config) { c.Obsidian.Host = cmd.String("host") })
	set("port", func(c *internal.Config) { c.Obsidian.Port = int(cmd.Int("port")) })
	set("protocol", func(c *internal.Config) { c.Obsidian.Protocol = cmd.String("protocol") })
	set("verify-tls", func(c *internal.Config) { c.Obsidian.VerifyTLS = cmd.Bool("verify-tls") })
	set("transport", func(c *internal.Config) { c.App.Transport = cmd.String("transport") })
	set("http-port", func(c *internal.Config) { c.App.HTTP.Port = int(cmd.Int("http-port")) })
	return out
}

func main() {
	cmd := &cli.Command{
		Name:   "obsidian-mcp",
		Usage:  "MCP server exposing an Obsidian vault through the Local REST API plugin",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Local REST API key",
				Sources: cli.EnvVars("OBSIDIAN_API_KEY"),
			},
			&cli.StringFlag{
				Name:        "host",
				Usage:       "Local REST API host",
				DefaultText: "127.0.0.1",
				Sources:     cli.EnvVars("OBSIDIAN_HOST"),
			},
			&cli.IntFlag{
				Name:        "port",
				Usage:       "Local REST API port",
				DefaultText: "27124",
				Sources:     cli.EnvVars("OBSIDIAN_PORT"),
			},
			&cli.StringFlag{
				Name:        "protocol",
				Usage:       "Local REST API protocol (http or https)",
				DefaultText: "https",
				Sources:     cli.EnvVars("OBSIDIAN_PROTOCOL"),
			},
			&cli.BoolFlag{
				Name:    "verify-tls",
				Usage:   "Verify the Local REST API TLS certificate",
				Sources: cli.EnvVars("OBSIDIAN_VERIFY_TLS"),
			},
			&cli.StringFlag{
				Name:        "transport",
				Usage:       "MCP transport (http or stdio)",
				DefaultText: "http",
				Sources:     cli.EnvVars("MCP_TRANSPORT"),
			},
			&cli.IntFlag{
				Name:        "http-port",
				Usage:       "Port for the streamable HTTP transport",
				DefaultText: "9000",
				Sources:     cli.EnvVars("MCP_HTTP_PORT"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
