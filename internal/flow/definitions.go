package flow

import "github.com/M0SENI/VisaBot/internal/domain"

// Default returns the order, product creation, price edit and description edit flows
func Default() *Registry {
	return NewRegistry(
		// Order
		Step{
			State:    domain.StateCollectFullName,
			Flow:     Order,
			Key:      domain.KeyFullName,
			Next:     domain.StateCollectAddress,
			Prompt:   "Please enter your full name in English as written in your passport:",
			Reprompt: "Full name cannot be empty. Try again.",
			Validate: NonEmptyText,
		},
		Step{
			State:    domain.StateCollectAddress,
			Flow:     Order,
			Key:      domain.KeyAddress,
			Next:     domain.StateCollectMobile,
			Prompt:   "Please enter your address in English format:",
			Reprompt: "Address cannot be empty. Try again.",
			Validate: NonEmptyText,
		},
		Step{
			State:    domain.StateCollectMobile,
			Flow:     Order,
			Key:      domain.KeyMobile,
			Next:     domain.StateCollectPassportPhoto,
			Prompt:   "Please enter your mobile number in English digits:",
			Reprompt: "Mobile number must be digits only and at least 10 characters. Try again.",
			Validate: Mobile,
		},
		Step{
			State:    domain.StateCollectPassportPhoto,
			Flow:     Order,
			Key:      domain.KeyPassportFileID,
			Next:     domain.StateCollectVerificationVideo,
			Prompt:   "Please send your passport image:",
			Reprompt: "Please send a photo of your passport.",
			Validate: Photo,
		},
		Step{
			State:    domain.StateCollectVerificationVideo,
			Flow:     Order,
			Key:      domain.KeyVerificationVideoID,
			Next:     domain.StateCollectDepositHash,
			Prompt:   "Please send the verification video:",
			Reprompt: "Please send a video file.",
			Validate: Video,
		},
		Step{
			State:    domain.StateCollectDepositHash,
			Flow:     Order,
			Key:      domain.KeyTxHash,
			Next:     domain.StateIdle,
			Prompt:   "Send the transaction hash of your deposit:",
			Reprompt: "Transaction hash cannot be empty. Try again.",
			Validate: NonEmptyText,
		},

		// Product creation
		Step{
			State:     domain.StateCollectPhoto,
			Flow:      ProductCreation,
			Key:       domain.KeyPhotoFileID,
			Next:      domain.StateCollectName,
			Prompt:    "Please send one photo of the product (or skip).",
			Reprompt:  "Please send a photo, or press Skip Photo.",
			Validate:  Photo,
			Skippable: true,
		},
		Step{
			State:    domain.StateCollectName,
			Flow:     ProductCreation,
			Key:      domain.KeyName,
			Next:     domain.StateCollectPrice,
			Prompt:   "Please send the product name:",
			Reprompt: "Name cannot be empty. Try again.",
			Validate: NonEmptyText,
		},
		Step{
			State:    domain.StateCollectPrice,
			Flow:     ProductCreation,
			Key:      domain.KeyPrice,
			Next:     domain.StateCollectDescriptions,
			Prompt:   "Please send the product price (English numbers only):",
			Reprompt: "Price must be a positive number (English digits only). Try again.",
			Validate: PositiveInteger,
		},
		Step{
			State:    domain.StateCollectDescriptions,
			Flow:     ProductCreation,
			Key:      domain.KeyDescriptions,
			Next:     domain.StateIdle,
			Prompt:   "Now send descriptions one by one.\nWhen finished, send /done",
			Reprompt: "Description cannot be empty. Send text or /done to finish.",
			Validate: NonEmptyText,
			Repeat:   true,
		},

		// Price edit
		Step{
			State:    domain.StateCollectNewPrice,
			Flow:     PriceEdit,
			Key:      domain.KeyNewPrice,
			Next:     domain.StateIdle,
			Prompt:   "Send the new price (English digits):",
			Reprompt: "Please send a valid number (English digits).",
			Validate: PositiveInteger,
		},

		// Description edit
		Step{
			State:    domain.StateCollectNewDescription,
			Flow:     DescriptionEdit,
			Key:      domain.KeyNewDescription,
			Next:     domain.StateIdle,
			Prompt:   "Send the new text for this description:",
			Reprompt: "Description cannot be empty. Try again.",
			Validate: NonEmptyText,
		},
	)
}
