package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mdboard-tui/internal/api"
	"mdboard-tui/internal/tui"
)

// clientVersion is stamped at release time.
var clientVersion = "dev"

type App struct {
	URL string
	Dir string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mdboard-tui",
		Short:        "Terminal UI for an mdboard server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Connect via the data directory's port file
  mdboard-tui --dir .mdboard

  # Connect to an explicit server URL
  mdboard-tui --url http://localhost:10600
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := app.resolveURL()
			if err != nil {
				return err
			}
			return tui.Run(api.New(baseURL))
		},
	}

	cmd.PersistentFlags().StringVar(&app.URL, "url", "", "server URL (e.g. http://localhost:10600)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", ".mdboard", "data directory (for port.json discovery)")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), clientVersion)
		},
	}
}

// resolveURL returns --url if given, otherwise discovers the server
// port from the data directory's port file.
func (a *App) resolveURL() (string, error) {
	if strings.TrimSpace(a.URL) != "" {
		return a.URL, nil
	}
	return discoverURL(a.Dir)
}

// discoverURL reads <dir>/port.json, written by the server on startup.
func discoverURL(dir string) (string, error) {
	portFile := filepath.Join(dir, "port.json")
	content, err := os.ReadFile(portFile)
	if err != nil {
		return "", fmt.Errorf(
			"cannot read %s — is the mdboard server running?\nStart it, or pass --url manually: %w",
			portFile, err)
	}

	var info struct {
		Port int `json:"port"`
	}
	if err := json.Unmarshal(content, &info); err != nil {
		return "", fmt.Errorf("invalid %s: %w", portFile, err)
	}
	if info.Port <= 0 {
		return "", fmt.Errorf("%s is missing a 'port' field", portFile)
	}
	return fmt.Sprintf("http://localhost:%d", info.Port), nil
}
