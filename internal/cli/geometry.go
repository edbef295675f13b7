package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jakecoffman/zoom"
)

func geometryCommand() *cobra.Command {
	var imageSize, container, configPath string
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Print the display geometry and translate bounds for an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := parseSize(imageSize)
			if err != nil {
				return fmt.Errorf("--image-size: %w", err)
			}
			c, err := parseSize(container)
			if err != nil {
				return fmt.Errorf("--container: %w", err)
			}
			config, err := loadConfig(configPath, loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			g, err := zoom.ResolveGeometry(img, c)
			if err != nil {
				return err
			}
			printGeometry(cmd.OutOrStdout(), g, config)
			return nil
		},
	}
	cmd.Flags().StringVar(&imageSize, "image-size", "", "image size WxH")
	cmd.Flags().StringVar(&container, "container", "400x800", "container size WxH")
	cmd.Flags().StringVar(&configPath, "config", "", "zoom config file (TOML)")
	cmd.MarkFlagRequired("image-size")
	return cmd
}

func printGeometry(w io.Writer, g zoom.Geometry, config zoom.Config) {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Geometry"))
	b.WriteString("\n")
	b.WriteString(keyValue("image", g.Image.String()) + "\n")
	b.WriteString(keyValue("container", g.Container.String()) + "\n")
	b.WriteString(keyValue("display", fmt.Sprintf("%gx%g", g.DisplayWidth, g.DisplayHeight)) + "\n")
	b.WriteString(keyValue("initial ty", fmt.Sprintf("%g", g.InitialTranslateY)) + "\n\n")
	b.WriteString(boundsTable(g, config))
	fmt.Fprintln(w, b.String())
}

// boundsTable lists maxTranslate at scale 1, the double-tap scale and the
// maximum scale.
func boundsTable(g zoom.Geometry, config zoom.Config) string {
	scales := []struct {
		name  string
		scale float64
	}{
		{"min", zoom.MinScale},
		{"double tap", config.DoubleTapScale},
		{"max", config.MaxScale},
	}
	rows := make([][]string, len(scales))
	for i, s := range scales {
		bound := g.MaxTranslate(s.scale)
		rows[i] = []string{s.name, fmt.Sprintf("%g", s.scale), fmt.Sprintf("%.2f", bound.X), fmt.Sprintf("%.2f", bound.Y)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Scale", "Max |tx|", "Max |ty|").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
