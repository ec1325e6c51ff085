package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wizardlink/internal"
	"github.com/starford/wizardlink/internal/siteservice"
	pkgconfig "github.com/starford/wizardlink/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func render(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("template path is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Render(ctx, name, int(cmd.Int("language")),
		internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func resolve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req := siteservice.LinkRequest{
		Value:           cmd.Args().First(),
		Language:        int(cmd.Int("language")),
		Content:         cmd.String("content"),
		WizardTitleAs:   cmd.String("wizard-title-as"),
		ResourceTitleAs: cmd.String("resource-title-as"),
	}
	return internal.Resolve(ctx, req, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func importFixture(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("fixture path is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Import(ctx, path, internal.WithConfig(cfg))
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr), internal.WithVersion(version))
}

func main() {
	languageFlag := &cli.IntFlag{
		Name:    "language",
		Aliases: []string{"L"},
		Usage:   "Language uid (0 is the default language)",
	}

	cmd := &cli.Command{
		Name:    "wizardlink",
		Usage:   "Template link helpers with a live preview server",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the preview server",
				Action: serve,
			},
			{
				Name:      "render",
				Usage:     "Render a template to stdout",
				ArgsUsage: "<template>",
				Flags:     []cli.Flag{languageFlag},
				Action:    render,
			},
			{
				Name:      "resolve",
				Usage:     "Resolve a link-wizard value and print the result as JSON",
				ArgsUsage: "<value>",
				Flags: []cli.Flag{
					languageFlag,
					&cli.StringFlag{Name: "content", Usage: "Template fragment used as link content"},
					&cli.StringFlag{Name: "wizard-title-as", Usage: "Variable name for the wizard title"},
					&cli.StringFlag{Name: "resource-title-as", Usage: "Variable name for the resource title"},
				},
				Action: resolve,
			},
			{
				Name:      "import",
				Usage:     "Load a YAML site fixture into the site database",
				ArgsUsage: "<fixture.yaml>",
				Action:    importFixture,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
