package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [strategy]",
	Short: "Fetch product recommendation feeds",
	Long: `Fetch a recommendation feed. Strategies:

  top_sellers    best-selling products (default)
  new_arrivals   recently added products
  related        products related to --product
  personalized   picks for the signed-in account (optional --category)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		strategy := storeapi.RecommendTopSellers
		if len(args) == 1 {
			strategy = storeapi.RecommendationStrategy(args[0])
		}
		productID, _ := cmd.Flags().GetInt64("product")
		category, _ := cmd.Flags().GetString("category")
		if strategy == storeapi.RecommendRelated && productID <= 0 {
			return fmt.Errorf("related recommendations need --product")
		}

		items, err := a.recommendations.Fetch(cmd.Context(), strategy, productID, category)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No recommendations")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE\tIMAGE")
		for _, p := range items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.Image)
		}
		w.Flush()
		return nil
	},
}

func init() {
	recommendCmd.Flags().Int64("product", 0, "product id for related recommendations")
	recommendCmd.Flags().String("category", "", "category hint for personalized recommendations")
	rootCmd.AddCommand(recommendCmd)
}
