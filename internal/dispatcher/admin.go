package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"

	"go.uber.org/zap"
)

func (d *Dispatcher) adminActions() map[string]action {
	return map[string]action{
		"main":                   d.adminPanel,
		"products":               d.productSettings,
		"add_product":            d.addProduct,
		"add_product_skip_photo": d.skipPhoto,
		"cancel_add_product":     d.cancelAddProduct,
		"back_step":              d.adminBack,
		"list_products":          d.listProducts,
		"view_product":           d.viewProduct,
		"edit_product":           d.editProduct,
		"select_edit":            d.selectEdit,
		"edit_price":             d.editPrice,
		"cancel_edit_price":      d.cancelEditPrice,
		"edit_descriptions":      d.editDescriptions,
		"edit_desc_item":         d.editDescriptionItem,
		"cancel_edit_desc":       d.cancelEditDescription,
		"delete_product":         d.deleteProduct,
		"confirm_delete":         d.confirmDelete,
		"delete_confirm_yes":     d.deleteConfirmed,
		"accept_order":           d.acceptOrder,
		"reject_order":           d.rejectOrder,
	}
}

func (d *Dispatcher) adminPanel(ctx context.Context, cmd *Command) error {
	d.show(ctx, cmd, Prompt{Text: msgAdminPanel, Keyboard: adminPanelKeyboard()})
	return nil
}

func (d *Dispatcher) productSettings(ctx context.Context, cmd *Command) error {
	d.replace(ctx, cmd, Prompt{Text: msgProductSettings, Keyboard: productSettingsKeyboard()})
	return nil
}

func (d *Dispatcher) addProduct(ctx context.Context, cmd *Command) error {
	first, err := d.startFlow(ctx, cmd.UserID, flow.ProductCreation, domain.Data{})
	if err != nil {
		return err
	}
	d.show(ctx, cmd, d.stepPrompt(ctx, first, domain.Data{}))
	return nil
}

func (d *Dispatcher) skipPhoto(ctx context.Context, cmd *Command) error {
	sess, _ := d.store.Get(ctx, cmd.UserID)
	step, ok := d.flows.Step(sess.State)
	if !ok || step.Flow != flow.ProductCreation {
		d.alert(ctx, cmd, msgNothingToSkip)
		return nil
	}
	res, ok := step.Skip(sess.Data)
	if !ok {
		d.alert(ctx, cmd, msgNothingToSkip)
		return nil
	}
	next, ok := d.flows.Step(step.Next)
	if !ok {
		d.expire(ctx, cmd.UserID, cmd.ChatID)
		return nil
	}

	d.store.Transition(ctx, cmd.UserID, next.State, res.Data)
	p := d.stepPrompt(ctx, next, res.Data)
	p.Text = msgPhotoSkipped + p.Text
	d.show(ctx, cmd, p)
	return nil
}

func (d *Dispatcher) cancelAddProduct(ctx context.Context, cmd *Command) error {
	if d.inFlow(ctx, cmd.UserID, flow.ProductCreation) {
		d.store.Clear(ctx, cmd.UserID)
	}
	d.show(ctx, cmd, Prompt{Text: "Product creation cancelled.", Keyboard: productSettingsKeyboard()})
	return nil
}

func (d *Dispatcher) adminBack(ctx context.Context, cmd *Command) error {
	return d.back(ctx, cmd, flow.ProductCreation)
}

// productPicker lists every product with a button to prefix:<id>
func (d *Dispatcher) productPicker(ctx context.Context, cmd *Command, title, prefix string) error {
	products, err := d.catalog.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		d.replace(ctx, cmd, Prompt{Text: "No products yet.", Keyboard: backKeyboard("admin:products")})
		return nil
	}

	kb := make([][]Button, 0, len(products)+1)
	for _, p := range products {
		kb = append(kb, row(btn(fmt.Sprintf("%s (%s)", p.Name, p.Code), cmdData(prefix, p.ID))))
	}
	kb = append(kb, row(btn("Back", "admin:products")))
	d.replace(ctx, cmd, Prompt{Text: title, Keyboard: kb})
	return nil
}

func (d *Dispatcher) listProducts(ctx context.Context, cmd *Command) error {
	return d.productPicker(ctx, cmd, "All products:", "admin:view_product")
}

func (d *Dispatcher) viewProduct(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	d.replace(ctx, cmd, Prompt{
		Text:    d.productText(product),
		PhotoID: product.PhotoFileID,
		Keyboard: [][]Button{
			row(btn("Edit Price", cmdData("admin", "edit_price", id)), btn("Delete", cmdData("admin", "confirm_delete", id))),
			row(btn("Back", "admin:list_products")),
		},
	})
	return nil
}

func (d *Dispatcher) editProduct(ctx context.Context, cmd *Command) error {
	return d.productPicker(ctx, cmd, "Select a product to edit:", "admin:select_edit")
}

func (d *Dispatcher) selectEdit(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	// an edit left half way for another product
	if d.inFlow(ctx, cmd.UserID, flow.PriceEdit) || d.inFlow(ctx, cmd.UserID, flow.DescriptionEdit) {
		d.store.Clear(ctx, cmd.UserID)
	}

	d.replace(ctx, cmd, Prompt{
		Text: fmt.Sprintf("Editing %s (%s)\nCurrent price: %s", product.Name, product.Code, d.money(product.Price)),
		Keyboard: [][]Button{
			row(btn("Edit Price", cmdData("admin", "edit_price", id))),
			row(btn("Edit Descriptions", cmdData("admin", "edit_descriptions", id))),
			row(btn("Back", "admin:edit_product")),
		},
	})
	return nil
}

func (d *Dispatcher) editDescriptions(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	back := row(btn("Back", cmdData("admin", "select_edit", id)))
	lines := product.Descriptions()
	if len(lines) == 0 {
		d.show(ctx, cmd, Prompt{Text: msgNoDescriptions, Keyboard: [][]Button{back}})
		return nil
	}

	kb := make([][]Button, 0, len(lines)+1)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label := fmt.Sprintf("Description %d: %s", i+1, truncate(line, 30))
		kb = append(kb, row(btn(label, cmdData("admin", "edit_desc_item", id, i+1))))
	}
	kb = append(kb, back)
	d.show(ctx, cmd, Prompt{Text: fmt.Sprintf("Descriptions of %s.\nSelect one to edit:", product.Name), Keyboard: kb})
	return nil
}

func (d *Dispatcher) editDescriptionItem(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	index, err := cmd.Int64Arg(1)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	lines := product.Descriptions()
	if index < 1 || index > int64(len(lines)) {
		return fmt.Errorf("%w: description %d", errBadArgument, index)
	}

	data := domain.Data{domain.KeyProductID: id, domain.KeyDescriptionIndex: index}
	first, err := d.startFlow(ctx, cmd.UserID, flow.DescriptionEdit, data)
	if err != nil {
		return err
	}

	p := d.stepPrompt(ctx, first, data)
	p.Text = fmt.Sprintf("Current description %d of %s:\n%s\n\n", index, product.Name, lines[index-1]) + p.Text
	d.show(ctx, cmd, p)
	return nil
}

func (d *Dispatcher) cancelEditDescription(ctx context.Context, cmd *Command) error {
	if d.inFlow(ctx, cmd.UserID, flow.DescriptionEdit) {
		d.store.Clear(ctx, cmd.UserID)
	}
	d.show(ctx, cmd, Prompt{Text: "Description edit cancelled.", Keyboard: productSettingsKeyboard()})
	return nil
}

func (d *Dispatcher) editPrice(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	data := domain.Data{domain.KeyProductID: id}
	first, err := d.startFlow(ctx, cmd.UserID, flow.PriceEdit, data)
	if err != nil {
		return err
	}

	p := d.stepPrompt(ctx, first, data)
	p.Text = fmt.Sprintf("Current price of %s: %s\n\n", product.Name, d.money(product.Price)) + p.Text
	d.replace(ctx, cmd, p)
	return nil
}

func (d *Dispatcher) cancelEditPrice(ctx context.Context, cmd *Command) error {
	if d.inFlow(ctx, cmd.UserID, flow.PriceEdit) {
		d.store.Clear(ctx, cmd.UserID)
	}
	d.show(ctx, cmd, Prompt{Text: "Price edit cancelled.", Keyboard: productSettingsKeyboard()})
	return nil
}

func (d *Dispatcher) deleteProduct(ctx context.Context, cmd *Command) error {
	return d.productPicker(ctx, cmd, "Select a product to delete:", "admin:confirm_delete")
}

func (d *Dispatcher) confirmDelete(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	d.replace(ctx, cmd, Prompt{
		Text: fmt.Sprintf("Are you sure you want to delete %s (%s)?", product.Name, product.Code),
		Keyboard: [][]Button{
			row(btn("Yes, delete", cmdData("admin", "delete_confirm_yes", id)), btn("No", "admin:delete_product")),
		},
	})
	return nil
}

func (d *Dispatcher) deleteConfirmed(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	if err := d.catalog.Delete(ctx, id); err != nil {
		return err
	}
	d.show(ctx, cmd, Prompt{Text: "Product deleted.", Keyboard: productSettingsKeyboard()})
	return nil
}

func (d *Dispatcher) acceptOrder(ctx context.Context, cmd *Command) error {
	return d.reviewOrder(ctx, cmd, true)
}

func (d *Dispatcher) rejectOrder(ctx context.Context, cmd *Command) error {
	return d.reviewOrder(ctx, cmd, false)
}

// reviewOrder records the admin decision, rewrites the admin's order message
// and tells the buyer
func (d *Dispatcher) reviewOrder(ctx context.Context, cmd *Command, accept bool) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}

	review, err := d.orders.Review(ctx, id, accept)
	if errors.Is(err, domain.ErrInvalidInput) {
		d.alert(ctx, cmd, "This order has already been reviewed.")
		return nil
	}
	if err != nil {
		return err
	}
	order := review.Order

	verdict := "rejected"
	buyerText := fmt.Sprintf("Your order #%d for %s has been rejected. Please contact support for details.", order.ID, order.ProductName)
	if accept {
		verdict = "accepted"
		buyerText = fmt.Sprintf("Your order #%d for %s has been accepted! We will contact you soon.", order.ID, order.ProductName)
	}

	text := fmt.Sprintf("Order #%d %s.\n\nProduct: %s\nBuyer: %d\nAccepted orders: %d\nCommission tier: %s",
		order.ID, verdict, order.ProductName, order.UserID, review.AcceptedOrders, percent(review.Rate))
	if review.Commission > 0 {
		text += fmt.Sprintf("\nReferral commission: %s to user %d (pending)", d.money(review.Commission), review.ReferrerID)
	}
	d.show(ctx, cmd, Prompt{
		Text:     text,
		Keyboard: [][]Button{row(btn("User Profile", cmdData("menu", "profile", order.UserID)))},
	})

	d.logger.Info("Order reviewed",
		zap.Int64("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	d.reply(ctx, order.UserID, Prompt{Text: buyerText})
	return nil
}
