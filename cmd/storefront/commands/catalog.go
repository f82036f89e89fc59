package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linemk/storefront/cmd/storefront/output"
	"github.com/linemk/storefront/internal/client"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		products, err := s.api.Products(cmd.Context())
		if err != nil {
			return err
		}

		output.Section("Products")
		if len(products) == 0 {
			output.Muted("catalog is empty")
			return nil
		}
		for _, p := range products {
			fmt.Printf("  %-36s  %-30s  %10.2f\n", p.ID, p.Name, p.Price)
		}
		return nil
	},
}

// parseItem разбирает "id" или "id:qty"
func parseItem(arg string) (string, int, error) {
	id, qty, found := strings.Cut(arg, ":")
	if id == "" {
		return "", 0, fmt.Errorf("invalid item %q", arg)
	}
	if !found {
		return id, 1, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid quantity in %q", arg)
	}
	return id, n, nil
}

// buildCart собирает корзину из каталога, как это делает витрина: в позицию
// копируются текущие имя и цена товара
func buildCart(products []*models.Product, args []string) ([]client.CartItem, error) {
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := make([]client.CartItem, 0, len(args))
	for _, arg := range args {
		id, qty, err := parseItem(arg)
		if err != nil {
			return nil, err
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("product %s not found", id)
		}
		cart = append(cart, client.CartItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: qty,
			ImageURL: p.ImageURL,
		})
	}
	return cart, nil
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
