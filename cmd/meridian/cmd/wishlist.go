package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Inspect and toggle the server wishlist",
}

var wishlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.wishlist.Refresh(cmd.Context()); err != nil {
			return err
		}
		wl := a.wishlist.Snapshot().Data
		if len(wl.Items) == 0 {
			fmt.Println("Wishlist is empty")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE")
		for _, item := range wl.Items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\n", item.ProductID, item.Name, item.Price)
		}
		w.Flush()
		fmt.Printf("%d items\n", wl.Count())
		return nil
	},
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Add or remove a product",
	Long: `Flip a product's wishlist membership. The server decides whether the
product is added or removed; the result is printed either way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		productID, err := parseID(args[0], "product-id")
		if err != nil {
			return err
		}
		action, err := a.wishlist.Toggle(cmd.Context(), productID)
		if err != nil {
			return err
		}
		fmt.Printf("Product %d %s\n", productID, action)
		return nil
	},
}

var wishlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.wishlist.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Wishlist cleared")
		return nil
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistShowCmd)
	wishlistCmd.AddCommand(wishlistToggleCmd)
	wishlistCmd.AddCommand(wishlistClearCmd)
	rootCmd.AddCommand(wishlistCmd)
}
