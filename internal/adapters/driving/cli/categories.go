package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the mirrored categories",
	Long:  `Lists the categories in bundle order with their page, directory and conventions.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(renderCategories(domain.DefaultCategories(), DefaultStyles()))
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func renderCategories(cats []domain.Category, st *Styles) string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		query := c.Query
		if query == "" {
			query = "(home page)"
		}
		rows = append(rows, []string{
			string(c.ID),
			query,
			c.Dir,
			c.Label.String(),
			c.Naming.String(),
			strconv.FormatBool(c.Volatile),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers("ID", "Page", "Directory", "Label", "File name", "Volatile").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		}).
		Render()
}
