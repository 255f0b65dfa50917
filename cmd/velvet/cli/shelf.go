package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/velvetlabs/velvet/internal/observe"
	"github.com/velvetlabs/velvet/internal/shelf"
)

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Manage your product shelf",
}

var shelfListCmd = &cobra.Command{
	Use:   "list",
	Short: "List selected products",
	Run: func(cmd *cobra.Command, args []string) {
		sh, closeStore := openShelf()
		defer closeStore()

		values := sh.Values()
		if len(values) == 0 {
			fmt.Println("(shelf is empty)")
			return
		}
		for _, p := range values {
			fmt.Printf("#%d %s by %s [%s]\n", p.ID, p.Name, p.Brand, p.Category)
		}
	},
}

var shelfRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a product by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Invalid product id: %s\n", args[0])
			os.Exit(1)
		}

		sh, closeStore := openShelf()
		defer closeStore()

		if sh.Remove(id) {
			fmt.Printf("Removed product %d\n", id)
		} else {
			fmt.Printf("Product %d is not on your shelf\n", id)
		}
	},
}

var shelfClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all selections",
	Run: func(cmd *cobra.Command, args []string) {
		sh, closeStore := openShelf()
		defer closeStore()

		sh.Clear()
		fmt.Println("Shelf cleared")
	},
}

func openShelf() (*shelf.Shelf, func()) {
	obs := observe.New(os.Stderr, verbose)
	s := getStore()
	sh := shelf.New(s, obs.Log())
	sh.Restore()
	return sh, func() { s.Close() }
}

func init() {
	RootCmd.AddCommand(shelfCmd)
	shelfCmd.AddCommand(shelfListCmd)
	shelfCmd.AddCommand(shelfRemoveCmd)
	shelfCmd.AddCommand(shelfClearCmd)
}
