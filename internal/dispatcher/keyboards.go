package dispatcher

func (d *Dispatcher) mainMenuKeyboard(userID int64) [][]Button {
	kb := [][]Button{
		row(btn("Visa Card", "menu:visa_card")),
		row(btn("Wallet", "menu:wallet"), btn("Profile", "menu:profile")),
		row(btn("My Orders", "menu:orders"), btn("Support", "menu:support")),
	}
	if d.isAdmin(userID) {
		kb = append(kb, row(btn("Admin Panel", "admin:main")))
	}
	return kb
}

func visaMenuKeyboard() [][]Button {
	return [][]Button{
		row(btn("Order Visa Card", "visa:order")),
		row(btn("Charge Visa Card", "visa:charge")),
		row(btn("Required Documents", "visa:documents")),
		row(btn("Back", "menu:main")),
	}
}

func walletKeyboard() [][]Button {
	return [][]Button{
		row(btn("Balance", "wallet:balance"), btn("Charge", "wallet:charge")),
		row(btn("Transactions", "wallet:transactions:1")),
		row(btn("Back", "menu:main")),
	}
}

func adminPanelKeyboard() [][]Button {
	return [][]Button{
		row(btn("Product Settings", "admin:products")),
		row(btn("Back", "menu:main")),
	}
}

func productSettingsKeyboard() [][]Button {
	return [][]Button{
		row(btn("Add Product", "admin:add_product"), btn("List Products", "admin:list_products")),
		row(btn("Edit Product", "admin:edit_product"), btn("Delete Product", "admin:delete_product")),
		row(btn("Back", "admin:main")),
	}
}

func backKeyboard(data string) [][]Button {
	return [][]Button{row(btn("Back", data))}
}

// pager renders Previous/Next for page of total, linking to prefix:<page>
func pager(prefix string, page, total int) []Button {
	var nav []Button
	if page > 1 {
		nav = append(nav, btn("Previous", cmdData(prefix, page-1)))
	}
	if page < total {
		nav = append(nav, btn("Next", cmdData(prefix, page+1)))
	}
	return nav
}
