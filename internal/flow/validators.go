package flow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
)

const minMobileDigits = 10

// NonEmptyText accepts trimmed, non-empty text
func NonEmptyText(in Input) (any, error) {
	if in.Kind != KindText {
		return nil, fmt.Errorf("%w: expected text", domain.ErrInvalidInput)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	return text, nil
}

// Mobile accepts ASCII digits only, at least ten of them
func Mobile(in Input) (any, error) {
	v, err := NonEmptyText(in)
	if err != nil {
		return nil, err
	}
	mobile := v.(string)
	if len(mobile) < minMobileDigits {
		return nil, fmt.Errorf("%w: mobile too short", domain.ErrInvalidInput)
	}
	for _, r := range mobile {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: mobile must be digits", domain.ErrInvalidInput)
		}
	}
	return mobile, nil
}

// Photo accepts a photo attachment and returns its file reference
func Photo(in Input) (any, error) {
	if in.Kind != KindPhoto || in.FileID == "" {
		return nil, fmt.Errorf("%w: expected photo", domain.ErrInvalidInput)
	}
	return in.FileID, nil
}

// Video accepts a video, or a document declared as video
func Video(in Input) (any, error) {
	switch {
	case in.Kind == KindVideo && in.FileID != "":
		return in.FileID, nil
	case in.Kind == KindDocument && in.FileID != "" && strings.HasPrefix(strings.ToLower(in.MIME), "video/"):
		return in.FileID, nil
	}
	return nil, fmt.Errorf("%w: expected video", domain.ErrInvalidInput)
}

// PositiveInteger accepts a whole number greater than zero
func PositiveInteger(in Input) (any, error) {
	v, err := NonEmptyText(in)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(v.(string), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: not a number", domain.ErrInvalidInput)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive", domain.ErrInvalidInput)
	}
	return n, nil
}
