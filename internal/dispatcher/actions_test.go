package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"
	"github.com/M0SENI/VisaBot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_ReviewOrder(t *testing.T) {
	product := testutil.NewTestProduct(7, "Visa Gold", 1000000)

	t.Run("accept with referral commission", func(t *testing.T) {
		f := newFixture(t)
		order := testutil.NewTestOrder(55, testUserID, product)
		order.Status = domain.OrderAccepted
		f.orders.On("Review", mock.Anything, int64(55), true).Return(&domain.OrderReview{
			Order:          order,
			AcceptedOrders: 5,
			Rate:           0.075,
			Commission:     75000,
			ReferrerID:     77,
		}, nil)

		f.press(testAdminID, "admin:accept_order:55")

		admin := f.transport.lastEdited(t)
		assert.Contains(t, admin.Text, "Order #55 accepted.")
		assert.Contains(t, admin.Text, "Commission tier: 7.5%")
		assert.Contains(t, admin.Text, "Referral commission: 75,000 IRR to user 77")
		assert.Contains(t, f.transport.lastSent(t, testUserID).Text, "has been accepted")
	})

	t.Run("reject", func(t *testing.T) {
		f := newFixture(t)
		order := testutil.NewTestOrder(56, testUserID, product)
		order.Status = domain.OrderRejected
		f.orders.On("Review", mock.Anything, int64(56), false).Return(&domain.OrderReview{Order: order}, nil)

		f.press(testAdminID, "admin:reject_order:56")

		assert.Contains(t, f.transport.lastEdited(t).Text, "Order #56 rejected.")
		assert.NotContains(t, f.transport.lastEdited(t).Text, "Referral commission")
		assert.Contains(t, f.transport.lastSent(t, testUserID).Text, "has been rejected")
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("Review", mock.Anything, int64(57), true).Return(nil, domain.ErrInvalidInput)

		f.press(testAdminID, "admin:accept_order:57")

		assert.Equal(t, "This order has already been reviewed.", f.transport.lastAnswer(t).Text)
		assert.Empty(t, f.transport.sent)
	})
}

func TestDispatcher_PriceEdit(t *testing.T) {
	f := newFixture(t)
	product := testutil.NewTestProduct(4, "Visa Silver", 800000)
	updated := testutil.NewTestProduct(4, "Visa Silver", 900000)
	f.catalog.On("Get", mock.Anything, int64(4)).Return(product, nil)
	f.catalog.On("UpdatePrice", mock.Anything, domain.Data{
		domain.KeyProductID: int64(4),
		domain.KeyNewPrice:  int64(900000),
	}).Return(updated, int64(800000), nil).Once()

	f.press(testAdminID, "admin:edit_price:4")
	require.Equal(t, domain.StateCollectNewPrice, f.state(testAdminID))
	assert.Contains(t, f.transport.lastSent(t, testAdminID).Text, "Current price of Visa Silver: 800,000 IRR")

	f.text(testAdminID, "-5")
	assert.Equal(t, domain.StateCollectNewPrice, f.state(testAdminID))

	f.text(testAdminID, "900000")

	f.catalog.AssertExpectations(t)
	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	done := f.transport.lastSent(t, testAdminID).Text
	assert.Contains(t, done, "Old price: 800,000 IRR")
	assert.Contains(t, done, "New price: 900,000 IRR")
}

func TestDispatcher_SelectEditClearsStalePriceEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetState(ctx, testAdminID, domain.StateCollectNewPrice, domain.Data{domain.KeyProductID: int64(1)})
	f.catalog.On("Get", mock.Anything, int64(2)).Return(testutil.NewTestProduct(2, "Visa Blue", 500000), nil)

	f.press(testAdminID, "admin:select_edit:2")

	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	assert.Contains(t, f.transport.lastSent(t, testAdminID).Text, "Editing Visa Blue (PK-002)")
}

func TestDispatcher_EditDescriptions(t *testing.T) {
	f := newFixture(t)
	product := testutil.NewTestProduct(4, "Visa Silver", 800000)
	product.Description = "Fast\nReliable and accepted in every online shop worldwide"
	f.catalog.On("Get", mock.Anything, int64(4)).Return(product, nil)

	f.press(testAdminID, "admin:select_edit:4")
	kb := f.transport.lastSent(t, testAdminID).Keyboard
	require.Len(t, kb, 3)
	assert.Equal(t, "admin:edit_descriptions:4", kb[1][0].Data)

	f.press(testAdminID, "admin:edit_descriptions:4")
	list := f.transport.lastEdited(t)
	require.Len(t, list.Keyboard, 3)
	assert.Equal(t, "Description 1: Fast", list.Keyboard[0][0].Text)
	assert.Equal(t, "admin:edit_desc_item:4:1", list.Keyboard[0][0].Data)
	assert.Equal(t, "Description 2: Reliable and accepted in every...", list.Keyboard[1][0].Text)
	assert.Equal(t, "admin:edit_desc_item:4:2", list.Keyboard[1][0].Data)
	assert.Equal(t, "admin:select_edit:4", list.Keyboard[2][0].Data)

	f.press(testAdminID, "admin:edit_desc_item:4:1")
	require.Equal(t, domain.StateCollectNewDescription, f.state(testAdminID))
	assert.Equal(t, domain.Data{domain.KeyProductID: int64(4), domain.KeyDescriptionIndex: int64(1)}, f.data(testAdminID))
	assert.Contains(t, f.transport.lastEdited(t).Text, "Current description 1 of Visa Silver:\nFast")

	f.text(testAdminID, "   ")
	assert.Equal(t, domain.StateCollectNewDescription, f.state(testAdminID))

	updated := testutil.NewTestProduct(4, "Visa Silver", 800000)
	f.catalog.On("UpdateDescription", mock.Anything, domain.Data{
		domain.KeyProductID:        int64(4),
		domain.KeyDescriptionIndex: int64(1),
		domain.KeyNewDescription:   "Instant delivery",
	}).Return(updated, "Fast", nil).Once()

	f.text(testAdminID, "Instant delivery")

	f.catalog.AssertExpectations(t)
	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	done := f.transport.lastSent(t, testAdminID).Text
	assert.Contains(t, done, "Old: Fast")
	assert.Contains(t, done, "New: Instant delivery")
}

func TestDispatcher_EditDescriptions_NoDescriptions(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Get", mock.Anything, int64(4)).Return(testutil.NewTestProduct(4, "Visa Silver", 800000), nil)

	f.press(testAdminID, "admin:edit_descriptions:4")

	p := f.transport.lastEdited(t)
	assert.Equal(t, "No descriptions to edit.", p.Text)
	require.Len(t, p.Keyboard, 1)
	assert.Equal(t, "admin:select_edit:4", p.Keyboard[0][0].Data)
}

func TestDispatcher_EditDescriptionItem_OutOfRange(t *testing.T) {
	f := newFixture(t)
	product := testutil.NewTestProduct(4, "Visa Silver", 800000)
	product.Description = "Fast"
	f.catalog.On("Get", mock.Anything, int64(4)).Return(product, nil)

	f.press(testAdminID, "admin:edit_desc_item:4:3")

	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	assert.Equal(t, "Invalid command", f.transport.lastAnswer(t).Text)
}

func TestDispatcher_CancelEditDescription(t *testing.T) {
	f := newFixture(t)
	f.store.SetState(context.Background(), testAdminID, domain.StateCollectNewDescription,
		domain.Data{domain.KeyProductID: int64(4), domain.KeyDescriptionIndex: int64(1)})

	f.press(testAdminID, "admin:cancel_edit_desc")

	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	assert.Equal(t, "Description edit cancelled.", f.transport.lastEdited(t).Text)
}

func TestDispatcher_ProductsPage(t *testing.T) {
	f := newFixture(t)
	products := []domain.Product{
		*testutil.NewTestProduct(9, "Visa Gold", 1000000),
		*testutil.NewTestProduct(8, "Visa Silver", 800000),
	}
	f.catalog.On("List", mock.Anything, 2).Return(products, 3, nil)

	f.press(testUserID, "visa:products:2")

	assert.Equal(t, []int{7}, f.transport.deleted)
	p := f.transport.lastSent(t, testUserID)
	assert.Equal(t, "Available products (page 2 of 3):", p.Text)
	require.Len(t, p.Keyboard, 4)
	assert.Equal(t, "visa:product:9", p.Keyboard[0][0].Data)
	assert.Equal(t, "Visa Gold - 1,000,000 IRR", p.Keyboard[0][0].Text)
	assert.Equal(t, []Button{
		{Text: "Previous", Data: "visa:products:1"},
		{Text: "Next", Data: "visa:products:3"},
	}, p.Keyboard[2])
}

func TestDispatcher_ProductsEmpty(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("List", mock.Anything, 1).Return([]domain.Product{}, 1, nil)

	f.press(testUserID, "visa:order")

	assert.Equal(t, msgNoProducts, f.transport.lastSent(t, testUserID).Text)
}

func TestDispatcher_ProductDetailWithPhoto(t *testing.T) {
	f := newFixture(t)
	product := testutil.NewTestProduct(5, "Visa Gold", 1000000)
	product.PhotoFileID = "photo-5"
	product.Description = "Fast\nReliable"
	f.catalog.On("Get", mock.Anything, int64(5)).Return(product, nil)

	f.press(testUserID, "visa:product:5")

	p := f.transport.lastSent(t, testUserID)
	assert.Equal(t, "photo-5", p.PhotoID)
	assert.Equal(t, "Visa Gold\n\nCode: PK-005\nPrice: 1,000,000 IRR\n\n• Fast\n• Reliable", p.Text)
	assert.Equal(t, "visa:order_product:5", p.Keyboard[0][0].Data)
}

func TestDispatcher_WalletCharge(t *testing.T) {
	f := newFixture(t)
	f.wallets.On("Charge", mock.Anything, testUserID, int64(500000)).Return(nil).Once()
	f.wallets.On("Balance", mock.Anything, testUserID).Return(int64(600000), nil)

	f.press(testUserID, "wallet:charge")
	options := f.transport.lastEdited(t)
	assert.Equal(t, "wallet:charge_amount:100000", options.Keyboard[0][0].Data)
	assert.Equal(t, "wallet:charge_amount:500000", options.Keyboard[0][1].Data)

	f.press(testUserID, "wallet:charge_amount:500000")
	assert.Equal(t, "wallet:confirm_charge:500000", f.transport.lastEdited(t).Keyboard[0][0].Data)

	f.press(testUserID, "wallet:confirm_charge:500000")

	f.wallets.AssertExpectations(t)
	assert.Equal(t, "Wallet charged with 500,000 IRR.\nNew balance: 600,000 IRR", f.transport.lastEdited(t).Text)
}

func TestDispatcher_WalletBalance(t *testing.T) {
	f := newFixture(t)
	f.wallets.On("Balance", mock.Anything, testUserID).Return(int64(1234567), nil)

	f.press(testUserID, "wallet:balance")

	assert.Equal(t, answerCall{CallbackID: "cb-wallet:balance", Text: "Your balance: 1,234,567 IRR", Alert: true}, f.transport.lastAnswer(t))
}

func TestDispatcher_Profile(t *testing.T) {
	t.Run("own profile", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID), nil)
		f.orders.On("Commission", mock.Anything, testUserID).Return(6, 0.075, nil)

		f.press(testUserID, "menu:profile")

		text := f.transport.lastEdited(t).Text
		assert.Contains(t, text, "Username: @tester")
		assert.Contains(t, text, "Referral code: ABCD1234")
		assert.Contains(t, text, "Accepted orders: 6")
		assert.Contains(t, text, "Commission tier: 7.5%")
	})

	t.Run("admin looks at a buyer", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID), nil)
		f.orders.On("Commission", mock.Anything, testUserID).Return(0, 0.05, nil)

		f.press(testAdminID, "menu:profile:42")

		assert.Empty(t, f.transport.edited)
		assert.Contains(t, f.transport.lastSent(t, testAdminID).Text, "User ID: 42")
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Get", mock.Anything, testUserID).Return(nil, errors.New("connection refused"))

		f.press(testUserID, "menu:profile")

		assert.Equal(t, msgGenericError, f.transport.lastAnswer(t).Text)
	})
}

func TestDispatcher_ShowFallsBackToSend(t *testing.T) {
	t.Run("not modified is ignored", func(t *testing.T) {
		f := newFixture(t)
		f.transport.editErr = errors.New("telegram: message is not modified (400)")

		f.press(testUserID, "menu:main")

		assert.Empty(t, f.transport.sent)
	})

	t.Run("other edit errors send a new message", func(t *testing.T) {
		f := newFixture(t)
		f.transport.editErr = errors.New("telegram: message to edit not found (400)")

		f.press(testUserID, "menu:main")

		assert.Equal(t, msgMainMenu, f.transport.lastSent(t, testUserID).Text)
	})
}

func TestDispatcher_CancelAddProduct(t *testing.T) {
	f := newFixture(t)

	f.press(testAdminID, "admin:add_product")
	f.media(testAdminID, flow.KindPhoto, "photo-1")
	require.Equal(t, domain.StateCollectName, f.state(testAdminID))

	f.press(testAdminID, "admin:back_step")
	assert.Equal(t, domain.StateCollectPhoto, f.state(testAdminID))

	f.press(testAdminID, "admin:cancel_add_product")
	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
	assert.Equal(t, "Product creation cancelled.", f.transport.lastEdited(t).Text)
}

func TestDispatcher_SkipPhotoOutsideFlow(t *testing.T) {
	f := newFixture(t)

	f.press(testAdminID, "admin:add_product_skip_photo")

	assert.Equal(t, msgNothingToSkip, f.transport.lastAnswer(t).Text)
	assert.Equal(t, domain.StateIdle, f.state(testAdminID))
}

func TestDispatcher_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
	f.catalog.On("Delete", mock.Anything, int64(4)).Return(domain.ErrNotFound).Once()

	f.press(testAdminID, "admin:delete_confirm_yes:3")
	assert.Equal(t, "Product deleted.", f.transport.lastEdited(t).Text)

	f.press(testAdminID, "admin:delete_confirm_yes:4")
	assert.Equal(t, msgNotFound, f.transport.lastAnswer(t).Text)
	f.catalog.AssertExpectations(t)
}

func TestCommand_Args(t *testing.T) {
	cmd := &Command{args: []string{"12", "x", "0"}}

	n, err := cmd.Int64Arg(0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = cmd.Int64Arg(1)
	assert.ErrorIs(t, err, errBadArgument)

	_, err = cmd.Int64Arg(5)
	assert.ErrorIs(t, err, errBadArgument)

	page, err := cmd.PageArg(0)
	require.NoError(t, err)
	assert.Equal(t, 12, page)

	page, err = cmd.PageArg(9)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	_, err = cmd.PageArg(2)
	assert.ErrorIs(t, err, errBadArgument)
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "100,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groupDigits(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Fast", truncate("Fast", 30))
	assert.Equal(t, "Fas...", truncate("Fast", 3))
	assert.Equal(t, "ویزا...", truncate("ویزا کارت", 4))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "5%", percent(0.05))
	assert.Equal(t, "10%", percent(0.10))
	assert.Equal(t, "0%", percent(0))
}
