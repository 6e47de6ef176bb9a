package dispatcher

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func (d *Dispatcher) walletActions() map[string]action {
	return map[string]action{
		"balance":        d.balance,
		"charge":         d.chargeOptions,
		"charge_amount":  d.chargeAmount,
		"confirm_charge": d.confirmCharge,
		"transactions":   d.transactions,
	}
}

func (d *Dispatcher) balance(ctx context.Context, cmd *Command) error {
	balance, err := d.wallets.Balance(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	d.alert(ctx, cmd, "Your balance: "+d.money(balance))
	return nil
}

func (d *Dispatcher) chargeOptions(ctx context.Context, cmd *Command) error {
	kb := make([][]Button, 0, len(d.cfg.ChargeAmounts)/2+2)
	var pair []Button
	for _, amount := range d.cfg.ChargeAmounts {
		pair = append(pair, btn(groupDigits(amount), cmdData("wallet", "charge_amount", amount)))
		if len(pair) == 2 {
			kb = append(kb, pair)
			pair = nil
		}
	}
	if len(pair) > 0 {
		kb = append(kb, pair)
	}
	kb = append(kb, row(btn("Back", "menu:wallet")))

	d.show(ctx, cmd, Prompt{Text: "Select the amount to charge (" + d.cfg.Currency + "):", Keyboard: kb})
	return nil
}

// chargeArg reads an amount argument, accepting only the offered options
func (d *Dispatcher) chargeArg(cmd *Command) (int64, error) {
	amount, err := cmd.Int64Arg(0)
	if err != nil {
		return 0, err
	}
	if !slices.Contains(d.cfg.ChargeAmounts, amount) {
		return 0, fmt.Errorf("%w: charge amount %d not offered", errBadArgument, amount)
	}
	return amount, nil
}

func (d *Dispatcher) chargeAmount(ctx context.Context, cmd *Command) error {
	amount, err := d.chargeArg(cmd)
	if err != nil {
		return err
	}
	d.show(ctx, cmd, Prompt{
		Text: fmt.Sprintf("Charge %s to your wallet?", d.money(amount)),
		Keyboard: [][]Button{
			row(btn("Confirm", cmdData("wallet", "confirm_charge", amount)), btn("Cancel", "menu:wallet")),
		},
	})
	return nil
}

func (d *Dispatcher) confirmCharge(ctx context.Context, cmd *Command) error {
	amount, err := d.chargeArg(cmd)
	if err != nil {
		return err
	}
	if err := d.wallets.Charge(ctx, cmd.UserID, amount); err != nil {
		return err
	}
	balance, err := d.wallets.Balance(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	d.show(ctx, cmd, Prompt{
		Text:     fmt.Sprintf("Wallet charged with %s.\nNew balance: %s", d.money(amount), d.money(balance)),
		Keyboard: backKeyboard("menu:wallet"),
	})
	return nil
}

func (d *Dispatcher) transactions(ctx context.Context, cmd *Command) error {
	page, err := cmd.PageArg(0)
	if err != nil {
		return err
	}
	txs, total, err := d.wallets.Transactions(ctx, cmd.UserID, page)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		d.show(ctx, cmd, Prompt{Text: "No transactions yet.", Keyboard: backKeyboard("menu:wallet")})
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transactions (page %d of %d)\n", page, total)
	for _, tx := range txs {
		fmt.Fprintf(&b, "\n%s | %s | %s | %s", tx.CreatedAt.Format("2006-01-02"), tx.Type, d.money(tx.Amount), tx.Status)
		if tx.Description != "" {
			fmt.Fprintf(&b, "\n%s", tx.Description)
		}
		b.WriteString("\n")
	}

	var kb [][]Button
	if nav := pager("wallet:transactions", page, total); len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, row(btn("Back", "menu:wallet")))
	d.show(ctx, cmd, Prompt{Text: b.String(), Keyboard: kb})
	return nil
}
