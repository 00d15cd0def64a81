package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/content"
)

func catalogCmd() *cobra.Command {
	var (
		file     string
		category string
		search   string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the services matching a category and search text",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(file)
			if err != nil {
				return err
			}
			items := catalog.Filter(c.Services, catalog.Criteria{
				Category:   catalog.Category(category),
				SearchText: search,
			})
			switch format {
			case "table":
				return writeTable(cmd.OutOrStdout(), items)
			case "json":
				return writeJSON(cmd.OutOrStdout(), items)
			default:
				return fmt.Errorf("catalog: unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "content file (default: embedded content)")
	cmd.Flags().StringVarP(&category, "category", "c", string(catalog.CategoryAll), "category filter")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name search")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json")
	return cmd
}

func writeTable(w io.Writer, items []catalog.CatalogItem) error {
	table := tablewriter.NewTable(w)
	table.Header("ID", "Name", "Category", "Price")
	for _, item := range items {
		if err := table.Append(strconv.Itoa(item.ID), item.Name, string(item.Category), item.Price); err != nil {
			return err
		}
	}
	return table.Render()
}

type catalogRow struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

func writeJSON(w io.Writer, items []catalog.CatalogItem) error {
	rows := make([]catalogRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, catalogRow{ID: item.ID, Name: item.Name, Category: string(item.Category), Price: item.Price})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
