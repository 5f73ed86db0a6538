package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uiscraper/backend/internal/application/explorer"
	"github.com/uiscraper/backend/internal/extension"
	infraauth "github.com/uiscraper/backend/internal/infrastructure/auth"
)

var nativeHostCmd = &cobra.Command{
	Use:   "native-host",
	Short: "Serve the browser extension's native-messaging protocol on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("out")
		host := extension.NewHost(
			infraauth.NewExtensionTokens(cfg.Extension.TokenTTL),
			extension.NewTabRegistry(),
			codeHandler(outDir),
			log,
		)
		return host.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

type savedCode struct {
	Path string `json:"path"`
}

type editorCode struct {
	Code string `json:"code"`
}

// codeHandler writes saveCode payloads under outDir and formats openInEditor payloads for the editor.
func codeHandler(outDir string) extension.RuntimeHandler {
	return func(ctx context.Context, msg extension.RuntimeMessage) (any, error) {
		switch m := msg.(type) {
		case *extension.SaveCode:
			name := filepath.Base(strings.TrimSpace(m.FileName))
			if name == "." || name == string(filepath.Separator) || name == "" {
				name = "component.tsx"
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, []byte(m.Code), 0o644); err != nil {
				return nil, fmt.Errorf("save code: %w", err)
			}
			return savedCode{Path: path}, nil
		case *extension.OpenInEditor:
			title := strings.TrimSpace(m.Title)
			if title == "" {
				title = "Component"
			}
			return editorCode{Code: explorer.FormatComponentForCopy(m.Code, title)}, nil
		default:
			return nil, nil
		}
	}
}
