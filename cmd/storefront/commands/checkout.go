package commands

import (
	"fmt"

	"github.com/linemk/storefront/cmd/storefront/output"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	checkoutItems   []string
	checkoutAddress models.ShippingAddress
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start a hosted payment for the given items",
	Long: `Create a checkout session and stash the cart and address.

Open the printed link to pay. The payment page redirects back with
?payment=success or ?payment=cancel; pass that link to "storefront resume".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		token, err := s.token()
		if err != nil {
			return err
		}

		products, err := s.api.Products(cmd.Context())
		if err != nil {
			return err
		}
		cart, err := buildCart(products, checkoutItems)
		if err != nil {
			return err
		}

		flow := reconcile.NewFlow(s.log, s.api, s.stash)
		checkoutURL, err := flow.Begin(cmd.Context(), token, cart, checkoutAddress)
		if err != nil {
			return err
		}

		output.Success("Checkout session created")
		fmt.Println(checkoutURL)
		output.Muted("after paying run: storefront resume \"<return link>\"")
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <return-url>",
	Short: "Finish checkout after returning from the payment page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		token, err := s.token()
		if err != nil {
			return err
		}

		flow := reconcile.NewFlow(s.log, s.api, s.stash)
		res, err := flow.Resume(cmd.Context(), args[0], token)
		if err != nil {
			return err
		}

		switch res.Outcome {
		case reconcile.OutcomeOrderCreated:
			output.Success("Payment successful! Order %s placed, total %.2f", res.Order.ID, res.Order.Total)
		case reconcile.OutcomeSkipped:
			output.Warning("Payment successful, but you are not logged in: no order was created")
		case reconcile.OutcomeNothingStashed:
			output.Warning("Payment successful, but there is no stashed checkout to turn into an order")
		case reconcile.OutcomeCancelled:
			output.Warning("Payment cancelled. Your cart is kept")
		default:
			output.Muted("no payment result in the link")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd, resumeCmd)

	f := checkoutCmd.Flags()
	f.StringSliceVar(&checkoutItems, "item", nil, "Product id with optional quantity, id[:qty] (repeatable)")
	f.StringVar(&checkoutAddress.CustomerName, "name", "", "Customer name")
	f.StringVar(&checkoutAddress.Address, "address", "", "Street address")
	f.StringVar(&checkoutAddress.City, "city", "", "City")
	f.StringVar(&checkoutAddress.State, "state", "", "State")
	f.StringVar(&checkoutAddress.Zip, "zip", "", "ZIP code")
	_ = checkoutCmd.MarkFlagRequired("item")
}
