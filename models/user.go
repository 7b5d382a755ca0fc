package models

import "encoding/json"

// User is the per-user reward record stored in the KV store, one entry
// per Telegram/user id. All timestamps are milliseconds since epoch.
type User struct {
	Balance      int64  `json:"balance"`
	LastMining   int64  `json:"lastMining,omitempty"`   // instant of the last mining grant
	LastAdPeriod int64  `json:"lastAdPeriod,omitempty"` // day bucket: floor(nowMs / 86400000)
	AdsToday     int    `json:"adsToday"`               // ad rewards granted within LastAdPeriod
	Address      string `json:"address,omitempty"`      // TON wallet address, set via /save_address
	CreatedAt    int64  `json:"createdAt,omitempty"`
}

// DecodeUser parses a stored record. Absent or malformed bytes yield
// nil rather than an error: callers fall back to a fresh default
// record. Missing fields decode to their zero values.
func DecodeUser(raw []byte) *User {
	if len(raw) == 0 {
		return nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

// EncodeUser serializes a record for storage.
func EncodeUser(u *User) ([]byte, error) {
	return json.Marshal(u)
}
