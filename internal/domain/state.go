package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// State identifies where a user is inside a flow. StateIdle means no flow is active.
type State string

const (
	StateIdle State = ""

	// Order flow
	StateCollectFullName          State = "collect_full_name"
	StateCollectAddress           State = "collect_address"
	StateCollectMobile            State = "collect_mobile"
	StateCollectPassportPhoto     State = "collect_passport_photo"
	StateCollectVerificationVideo State = "collect_verification_video"
	StateCollectDepositHash       State = "collect_deposit_hash"

	// Product-creation flow
	StateCollectPhoto        State = "collect_photo"
	StateCollectName         State = "collect_name"
	StateCollectPrice        State = "collect_price"
	StateCollectDescriptions State = "collect_descriptions"

	// Price-edit flow
	StateCollectNewPrice State = "collect_new_price"

	// Description-edit flow
	StateCollectNewDescription State = "collect_new_description"
)

// Keys of the data accumulated by the flows
const (
	KeyProductID           = "product_id"
	KeyFullName            = "full_name"
	KeyAddress             = "address"
	KeyMobile              = "mobile"
	KeyPassportFileID      = "passport_file_id"
	KeyVerificationVideoID = "verification_video_id"
	KeyTxHash              = "tx_hash"
	KeyPhotoFileID         = "photo_file_id"
	KeyName                = "name"
	KeyPrice               = "price"
	KeyDescriptions        = "descriptions"
	KeyNewPrice            = "new_price"
	KeyDescriptionIndex    = "description_index"
	KeyNewDescription      = "new_description"
)

// Data holds the fields a user has entered so far in a flow
type Data map[string]any

// Clone returns a deep copy. List values are copied so snapshots stay immutable.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []any:
			out[k] = append([]any(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the value under key as a string, or "" when missing
func (d Data) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Int64 returns the value under key as an int64.
// Values decoded from JSON (float64, json.Number) are accepted.
func (d Data) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Strings returns the list stored under key, or nil
func (d Data) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Session is a user's current state with the data collected for it.
// Snapshots on the history stack use the same shape.
type Session struct {
	State     State     `json:"state"`
	Data      Data      `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the session is inside a flow
func (s Session) Active() bool {
	return s.State != StateIdle
}

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	return Session{State: s.State, Data: s.Data.Clone(), UpdatedAt: s.UpdatedAt}
}
