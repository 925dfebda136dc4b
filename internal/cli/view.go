package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/watch"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

// viewCommand creates the view command for browsing a manifest interactively.
func (c *CLI) viewCommand() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "view [manifest.toml]",
		Short: "Scroll through a packed manifest in the terminal",
		Long: `Scroll through a packed manifest in the terminal.

Each grid unit is drawn as a block of characters and the capacity follows the
terminal width. Only the rows on screen are packed, so even very large
manifests open instantly.

With --watch the manifest is reloaded and re-laid out whenever it changes on
disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			m, err := manifest.Load(path)
			if err != nil {
				return fmt.Errorf("load manifest %s: %w", path, err)
			}

			opts := c.cfg.PipelineOptions()
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			var reloads <-chan watch.Reload
			if follow {
				w, err := watch.New(path)
				if err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
				if err := w.Start(); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
				defer w.Stop()
				reloads = w.Reloads
			}

			// The TUI owns the terminal.
			c.Logger.SetOutput(io.Discard)

			model := NewMosaicModel(path, m, opts.LayoutOptions(m), reloads)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload when the manifest changes")

	return cmd
}
