package dispatcher

import (
	"context"
	"fmt"
	"strings"
)

func (d *Dispatcher) menuActions() map[string]action {
	return map[string]action{
		"":          d.mainMenu,
		"main":      d.mainMenu,
		"profile":   d.profile,
		"wallet":    d.walletMenu,
		"visa_card": d.visaMenu,
		"orders":    d.myOrders,
		"support":   d.support,
	}
}

func (d *Dispatcher) mainMenu(ctx context.Context, cmd *Command) error {
	d.show(ctx, cmd, Prompt{Text: msgMainMenu, Keyboard: d.mainMenuKeyboard(cmd.UserID)})
	return nil
}

// profile shows the caller's profile. The admin may pass a user id to look
// at a buyer, which is sent as a new message so the order stays on screen.
func (d *Dispatcher) profile(ctx context.Context, cmd *Command) error {
	userID := cmd.UserID
	foreign := len(cmd.args) > 0
	if foreign {
		if !d.isAdmin(cmd.UserID) {
			d.alert(ctx, cmd, msgAccessDenied)
			return nil
		}
		id, err := cmd.Int64Arg(0)
		if err != nil {
			return err
		}
		userID = id
	}

	user, err := d.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	accepted, rate, err := d.orders.Commission(ctx, userID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("Profile\n\n")
	fmt.Fprintf(&b, "User ID: %d\n", user.UserID)
	if user.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\n", user.Username)
	}
	fmt.Fprintf(&b, "Name: %s\n", orDash(user.DisplayName()))
	fmt.Fprintf(&b, "Address: %s\n", orDash(user.Address))
	fmt.Fprintf(&b, "Mobile: %s\n", orDash(user.Mobile))
	fmt.Fprintf(&b, "Referral code: %s\n\n", user.ReferralCode)
	fmt.Fprintf(&b, "Accepted orders: %d\n", accepted)
	fmt.Fprintf(&b, "Commission tier: %s", percent(rate))

	if foreign {
		d.reply(ctx, cmd.ChatID, Prompt{Text: b.String()})
		return nil
	}
	d.show(ctx, cmd, Prompt{Text: b.String(), Keyboard: backKeyboard("menu:main")})
	return nil
}

func (d *Dispatcher) walletMenu(ctx context.Context, cmd *Command) error {
	balance, err := d.wallets.Balance(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	d.show(ctx, cmd, Prompt{
		Text:     fmt.Sprintf("Wallet\n\nBalance: %s", d.money(balance)),
		Keyboard: walletKeyboard(),
	})
	return nil
}

func (d *Dispatcher) visaMenu(ctx context.Context, cmd *Command) error {
	d.show(ctx, cmd, Prompt{Text: msgVisaMenu, Keyboard: visaMenuKeyboard()})
	return nil
}

func (d *Dispatcher) myOrders(ctx context.Context, cmd *Command) error {
	orders, err := d.orders.ListByUser(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	text := "You have no orders yet."
	if len(orders) > 0 {
		var b strings.Builder
		b.WriteString("My Orders\n")
		for _, o := range orders {
			fmt.Fprintf(&b, "\n#%d %s\n%s | %s | %s\n",
				o.ID, o.ProductName, d.money(o.ProductPrice), o.Status, o.CreatedAt.Format("2006-01-02"))
		}
		text = b.String()
	}
	d.show(ctx, cmd, Prompt{Text: text, Keyboard: backKeyboard("menu:main")})
	return nil
}

func (d *Dispatcher) support(ctx context.Context, cmd *Command) error {
	d.show(ctx, cmd, Prompt{Text: msgSupport, Keyboard: backKeyboard("menu:main")})
	return nil
}
