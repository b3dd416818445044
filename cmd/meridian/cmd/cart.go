package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and edit the server cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.cart.Refresh(cmd.Context()); err != nil {
			return err
		}
		printCart(a.cart.Snapshot().Data)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
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
		qty, _ := cmd.Flags().GetInt("quantity")
		color, _ := cmd.Flags().GetString("color")
		storage, _ := cmd.Flags().GetString("storage")

		in := storeapi.AddCartItemInput{
			ProductID: productID,
			Quantity:  qty,
			Color:     color,
			Storage:   storage,
		}
		if err := a.cart.AddItem(cmd.Context(), in); err != nil {
			return err
		}
		printCart(a.cart.Snapshot().Data)
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change a cart line's quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		itemID, err := parseID(args[0], "item-id")
		if err != nil {
			return err
		}
		qty, err := parseID(args[1], "quantity")
		if err != nil {
			return err
		}

		in := storeapi.UpdateCartItemInput{ItemID: itemID, Quantity: int(qty)}
		if err := a.cart.UpdateItem(cmd.Context(), in); err != nil {
			return err
		}
		printCart(a.cart.Snapshot().Data)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		itemID, err := parseID(args[0], "item-id")
		if err != nil {
			return err
		}
		if err := a.cart.RemoveItem(cmd.Context(), itemID); err != nil {
			return err
		}
		printCart(a.cart.Snapshot().Data)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.cart.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart cleared")
		return nil
	},
}

func printCart(cart storeapi.Cart) {
	if len(cart.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tNAME\tVARIANT\tQTY\tPRICE\tTOTAL")
	for _, item := range cart.Items {
		variant := item.Color
		if item.Storage != "" {
			if variant != "" {
				variant += "/"
			}
			variant += item.Storage
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%.2f\t%.2f\n",
			item.ID, item.ProductID, item.Name, variant, item.Quantity, item.Price, item.TotalPrice)
	}
	w.Flush()
	fmt.Printf("%d items, total %.2f\n", cart.ItemCount(), cart.Total())
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func init() {
	cartAddCmd.Flags().IntP("quantity", "q", 1, "quantity to add")
	cartAddCmd.Flags().String("color", "", "color variant")
	cartAddCmd.Flags().String("storage", "", "storage variant")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
