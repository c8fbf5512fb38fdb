// Category commands manage categories and the active category context.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var (
	categoryAddDescription string
	categoryDeleteReassign string
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
	Long: `Category groups task categories and the active category context. With a
context set ('category use'), task commands default to that category.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := types.NewCategory(args[0], categoryAddDescription)
		if err != nil {
			return err
		}
		id, err := store.CreateCategory(cat)
		if err != nil {
			return err
		}
		fmt.Printf("Added category %d: %s\n", id, cat.Name)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category",
	Long: `Delete removes a category by name or ID. Its live tasks move to the
category given with --reassign, or become uncategorized. The freed ID is
reused by the next 'category add'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolver.Category(args[0])
		if err != nil {
			return fmt.Errorf("category %q: %w", args[0], err)
		}

		var reassignTo *uint64
		if categoryDeleteReassign != "" {
			target, err := resolver.Category(categoryDeleteReassign)
			if err != nil {
				return fmt.Errorf("category %q: %w", categoryDeleteReassign, err)
			}
			reassignTo = &target.ID
		}

		if err := manager.DeleteCategory(cat.ID, reassignTo); err != nil {
			return err
		}
		fmt.Printf("Deleted category %s\n", cat.Name)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolver.Category(args[0])
		if err != nil {
			return fmt.Errorf("category %q: %w", args[0], err)
		}
		if err := store.RenameCategory(cat.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Renamed category %s to %s\n", cat.Name, args[1])
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := store.ListCategories()
		if err != nil {
			return err
		}
		cfg, err := store.GetConfig()
		if err != nil {
			return err
		}
		current := cfg.CurrentCategory()

		for _, c := range cats {
			if c.ID == types.DeletedCategoryID {
				continue
			}
			marker := " "
			if c.ID == current {
				marker = "*"
			}
			fmt.Printf("%s %d  %s\n", marker, c.ID, c.Name)
		}
		return nil
	},
}

var categoryUseCmd = &cobra.Command{
	Use:   "use <category>",
	Short: "Set the active category context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolver.Category(args[0])
		if err != nil {
			return fmt.Errorf("category %q: %w", args[0], err)
		}
		if err := store.SetConfig(types.KeyCurrentCategory, formatID(cat.ID)); err != nil {
			return err
		}
		fmt.Printf("Using category %s\n", cat.Name)
		return nil
	},
}

var categoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the active category context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.UnsetConfig(types.KeyCurrentCategory); err != nil {
			return err
		}
		fmt.Println("Category context cleared")
		return nil
	},
}

var categoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active category context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := store.GetConfig()
		if err != nil {
			return err
		}
		id := cfg.CurrentCategory()
		if id == types.DeletedCategoryID {
			fmt.Println("No category context set")
			return nil
		}
		cat, err := store.GetCategory(id)
		if err != nil {
			return err
		}
		fmt.Printf("Using category %s (%d)\n", cat.Name, cat.ID)
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().StringVarP(&categoryAddDescription, "description", "d", "", "category description")
	categoryDeleteCmd.Flags().StringVar(&categoryDeleteReassign, "reassign", "", "category to receive the deleted category's tasks")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryUseCmd)
	categoryCmd.AddCommand(categoryClearCmd)
	categoryCmd.AddCommand(categoryShowCmd)
}
