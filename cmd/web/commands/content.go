package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gowri0016/Creator/internal/content"
)

func contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect storefront content files",
	}
	cmd.AddCommand(contentValidateCmd())
	return cmd
}

func contentValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a content file for missing fields and duplicate ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(file)
			if err != nil {
				var vErr *content.ValidationError
				if errors.As(err, &vErr) {
					for _, problem := range vErr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), "-", problem)
					}
				}
				return err
			}
			source := file
			if source == "" {
				source = "embedded content"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d categories, %d slides, %d services, %d gallery images)\n",
				source, len(c.Categories), len(c.Slides), len(c.Services), len(c.Gallery))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "content file (default: embedded content)")
	return cmd
}
