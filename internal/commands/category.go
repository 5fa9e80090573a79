package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finbook-dev/finbook/internal/domain"
)

func newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage the category tree",
	}

	cmd.AddCommand(newCategoryAddCommand())
	cmd.AddCommand(newCategoryTreeCommand())
	cmd.AddCommand(newCategoryRemoveCommand())

	return cmd
}

func newCategoryAddCommand() *cobra.Command {
	var (
		description string
		parentRef   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category, optionally under a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := domain.NewCategory(args[0], description)
			if err != nil {
				return err
			}
			if err := a.Ledger.AddCategory(ctx, category); err != nil {
				return err
			}

			if parentRef != "" {
				parent, err := resolveCategory(ctx, a, parentRef)
				if err != nil {
					return err
				}
				if err := a.Ledger.AddSubcategory(ctx, parent.ID, category.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s under %s (%s)\n", category.Name, parent.Name, category.ID)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added root category %s (%s)\n", category.Name, category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "category description")
	cmd.Flags().StringVar(&parentRef, "parent", "", "parent category name or ID")

	return cmd
}

func newCategoryTreeCommand() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category hierarchy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			tree, err := a.Ledger.CategoryTree(ctx)
			if err != nil {
				return err
			}

			for _, root := range tree.Roots() {
				printSubtree(cmd.OutOrStdout(), tree, root, 0, showIDs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "show category IDs")

	return cmd
}

func printSubtree(out io.Writer, tree *domain.Tree, category *domain.Category, depth int, showIDs bool) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(out, "  ")
	}
	if showIDs {
		fmt.Fprintf(out, "%s (%s)\n", category.Name, category.ID)
	} else {
		fmt.Fprintln(out, category.Name)
	}
	for _, child := range tree.Children(category.ID) {
		printSubtree(out, tree, child, depth+1, showIDs)
	}
}

func newCategoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name-or-id>",
		Short: "Remove a category; its subcategories become roots",
		Long: `Remove a category. Fails if transactions or budgets still reference it.
Direct subcategories are kept and promoted to root categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := resolveCategory(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Ledger.RemoveCategory(ctx, category.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %s\n", category.Name)
			return nil
		},
	}
}
