package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/fonts"
)

// fontsCommand creates the fonts command, which lists bundled fonts and the
// .flf files found in the configured font directories.
func (c *CLI) fontsCommand() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List available fonts",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := append(append([]string(nil), c.cfg.FontDirs...), dirs...)
			w := cmd.OutOrStdout()
			for _, name := range fonts.List(all...) {
				switch {
				case name == fonts.Default:
					fmt.Fprintln(w, name+" "+StyleDim.Render("(default)"))
				case !fonts.IsBuiltin(name):
					fmt.Fprintln(w, name+" "+StyleDim.Render("(file)"))
				default:
					fmt.Fprintln(w, name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "font-dir", nil, "extra directories to search for .flf files")

	return cmd
}
