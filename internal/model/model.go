// Package model defines the domain types used across the application.
package model

import "time"

// Source identifies the marketplace a listing was found on.
type Source string

// Supported marketplace sources.
const (
	SourceFleaMarket Source = "fleamarket"
	SourceAuction    Source = "auction"
)

// Label returns the human-readable marketplace name used in notifications.
func (s Source) Label() string {
	switch s {
	case SourceFleaMarket:
		return "Yahoo! Flea Market"
	case SourceAuction:
		return "Yahoo! JAPAN Auction"
	default:
		return string(s)
	}
}

// Alert represents a user's saved keyword search.
type Alert struct {
	ID        int64
	UserID    int64
	ChatID    int64
	Name      string
	Currency  string
	CreatedAt time.Time
}

// Listing is one item found in a marketplace search result. It exists only
// for the duration of a single notification dispatch; the URL doubles as
// the dedup key.
type Listing struct {
	Source          Source
	URL             string
	Title           string
	TitleTranslated string
	Thumbnail       string
	Price           string
}
