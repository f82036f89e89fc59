package commands

import (
	"fmt"

	"github.com/linemk/storefront/cmd/storefront/output"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		token, err := s.requireToken()
		if err != nil {
			return err
		}
		orders, err := s.api.MyOrders(cmd.Context(), token)
		if err != nil {
			return err
		}

		output.Section("My orders")
		if len(orders) == 0 {
			output.Muted("no orders yet")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("  %s %-36s  %-10s  %10.2f  %s\n",
				output.StatusIcon(string(o.Status)), o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
			for _, item := range o.Items {
				output.Muted("      %d x %s @ %.2f", item.Quantity, item.Name, item.Price)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}
