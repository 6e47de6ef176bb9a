package dispatcher

const (
	msgWelcomeRegistered = "Welcome! You've been registered."
	msgWelcomeBack       = "Welcome back!"
	msgMainMenu          = "Main Menu"
	msgUseMenu           = "Please use the menu buttons."
	msgCancelled         = "Cancelled."
	msgInvalidCommand    = "Invalid command"
	msgAccessDenied      = "Access denied"
	msgNotFound          = "Not found!"
	msgProductNotFound   = "Product not found!"
	msgGenericError      = "An error occurred. Please try again later."
	msgSessionExpired    = "Session expired or invalid. Please start again."
	msgNothingToUndo     = "Nothing to go back to."
	msgNotImplemented    = "This section is not implemented yet."
	msgGuideComingSoon   = "Guide coming soon."
	msgBusy              = "Still working on your previous request. Please try again in a moment."

	msgSaveFailedCleared = "Sorry, we could not save your data. Please start again."
	msgSaveFailedRetry   = "Sorry, we could not save your data. Everything you entered is kept, send the last step again to retry."

	msgDescriptionSaved = "Description %d saved.\nSend next or /done to finish."
	msgDepositPrompt    = "All required files received.\n\n" +
		"Final step: Please deposit %d%% of the product price (%s) to the wallet address:\n%s\n\n" +
		"Send the transaction hash in the next message.\nNote: This is only a %d%% deposit."

	msgVisaMenu       = "Please select an option:"
	msgNoProducts     = "No products available at the moment.\nPlease check back later."
	msgProductGuide   = "Product Guide:\n• Step 1 ...\n• Step 2 ..."
	msgOrderDocuments = "You are about to start the order registration process.\n" +
		"Do you have the required documents?\n" +
		"It is recommended to review the required documents for the product '%s' using the back button."
	msgOrdering       = "You are ordering: %s\nPrice: %s\n\n"
	msgOrderSubmitted = "Your order has been submitted successfully! We will review it soon."
	msgOrderCancelled = "Order cancelled."

	msgSupport = "Support\n\nFor any question about your order or wallet, message the administrator. We answer within one business day."

	msgAdminPanel      = "Admin Panel"
	msgProductSettings = "Product Settings"
	msgPhotoSkipped    = "Photo skipped.\n\n"
	msgNothingToSkip   = "Nothing to skip."
	msgNoDescriptions  = "No descriptions to edit."
)
