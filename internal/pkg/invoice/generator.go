package invoice

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/creatorkart/CreatorKart/app/repository"
	"github.com/creatorkart/CreatorKart/internal/pkg/mail"
	"github.com/creatorkart/CreatorKart/internal/pkg/pricing"
)

// Generator renders and delivers the invoice for a submitted proposal and
// advances the invoice status. It runs from the job queue, after the proposal
// transaction has committed.
type Generator struct {
	repos *repository.Repositories
}

// NewGenerator creates an invoice generator from injected repositories.
func NewGenerator(repos *repository.Repositories) *Generator {
	return &Generator{repos: repos}
}

// Generate builds the invoice document for a checkout, mails it to the
// client and marks the billing record as generated.
func (g *Generator) Generate(checkoutID, billingDetailID uint, email string) error {
	checkout, err := g.repos.Checkout.GetByID(checkoutID)
	if err != nil {
		return fmt.Errorf("load checkout %d: %w", checkoutID, err)
	}
	detail, err := g.repos.BillingDetail.GetByCheckoutID(checkoutID)
	if err != nil {
		return fmt.Errorf("load billing detail for checkout %d: %w", checkoutID, err)
	}

	items, err := g.repos.Cart.GetItems(checkout.CartID)
	if err != nil {
		return fmt.Errorf("load items for cart %d: %w", checkout.CartID, err)
	}
	var approved []models.LineItem
	for _, it := range items {
		if it.IsClientApproved {
			approved = append(approved, it)
		}
	}

	figures := pricing.Calculate(toPricingItems(approved), pricing.Terms{
		DiscountPercentage:      detail.Discount,
		ManagementFeePercentage: detail.ManagementFeePercentage,
	})

	document := Render(detail, approved, figures)
	if email == "" {
		email = detail.ContactEmail
	}
	if err := mail.SendMail(email, fmt.Sprintf("Invoice for %s", detail.ProjectName), document); err != nil {
		return fmt.Errorf("deliver invoice for checkout %d: %w", checkoutID, err)
	}

	detail.InvoiceStatus = models.INVOICE_GENERATED
	if err := g.repos.BillingDetail.Update(detail); err != nil {
		return fmt.Errorf("mark invoice generated for checkout %d: %w", checkoutID, err)
	}

	log.Infof("[Invoice] Generated invoice for checkout %d (%s)", checkoutID, email)
	return nil
}

// Render produces the HTML invoice document. The airdrop fee line is shown
// for information; it is not part of the total.
func Render(detail *models.BillingDetail, items []models.LineItem, figures pricing.Result) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf("<h1>Invoice for %s</h1>", detail.ProjectName))
	b.WriteString(fmt.Sprintf("<p>Client: %s<br>Contact: %s</p>", detail.ClientName, detail.ContactEmail))

	b.WriteString("<table><tr><th>Position</th><th>Qty</th><th>Unit price</th><th>Amount</th></tr>")
	for _, it := range items {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			it.Name, it.Quantity, pricing.FormatAmount(it.Price), pricing.FormatAmount(it.LineTotal())))
	}
	b.WriteString("</table>")

	b.WriteString(fmt.Sprintf("<p>Subtotal: %s<br>", pricing.FormatAmount(figures.Subtotal)))
	b.WriteString(fmt.Sprintf("Discount (%s%%): -%s<br>", detail.Discount, pricing.FormatAmount(figures.DiscountAmount)))
	b.WriteString(fmt.Sprintf("Management fee (%s%%): %s<br>", detail.ManagementFeePercentage, pricing.FormatAmount(figures.ManagementFee)))
	b.WriteString(fmt.Sprintf("Airdrop fee (informational): %s<br>", pricing.FormatAmount(figures.AirdropFee)))
	b.WriteString(fmt.Sprintf("<strong>Total: %s</strong></p>", pricing.FormatAmount(figures.Total)))
	b.WriteString("</body></html>")

	return b.String()
}

func toPricingItems(items []models.LineItem) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{UnitPrice: it.Price, Quantity: it.Quantity})
	}
	return out
}
