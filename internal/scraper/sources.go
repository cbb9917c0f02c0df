package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"buyee_bot/internal/model"
	"buyee_bot/internal/translate"
)

const buyeeBase = "https://buyee.jp"

// NewFleaMarket creates a scanner for Buyee's PayPay flea market search.
func NewFleaMarket(client HTTPClient, seen SeenList, conv Converter, tr translate.Translator, log *slog.Logger) *Scanner {
	return &Scanner{
		spec: sourceSpec{
			source: model.SourceFleaMarket,
			searchURL: func(keyword string, page int) string {
				return fmt.Sprintf("%s/paypayfleamarket/search?keyword=%s&order-sort=created_time&page=%d",
					buyeeBase, url.QueryEscape(keyword), page)
			},
			container: "ul.item-lists",
			row:       "li.list",
			extract:   extractFleaMarketRow,
		},
		client:     client,
		seen:       seen,
		converter:  conv,
		translator: tr,
		log:        log,
	}
}

// NewAuction creates a scanner for Buyee's Yahoo! JAPAN auction search,
// ordered by soonest ending.
func NewAuction(client HTTPClient, seen SeenList, conv Converter, tr translate.Translator, log *slog.Logger) *Scanner {
	return &Scanner{
		spec: sourceSpec{
			source: model.SourceAuction,
			searchURL: func(keyword string, page int) string {
				return fmt.Sprintf("%s/item/search/query/%s?sort=end&order=d&page=%d",
					buyeeBase, url.PathEscape(keyword), page)
			},
			container: "ul.auctionSearchResult",
			row:       "li.itemCard",
			extract:   extractAuctionRow,
		},
		client:     client,
		seen:       seen,
		converter:  conv,
		translator: tr,
		log:        log,
	}
}

func extractFleaMarketRow(sel *goquery.Selection) (rawListing, error) {
	href, ok := sel.Find("a").First().Attr("href")
	if !ok || href == "" {
		return rawListing{}, fmt.Errorf("missing item link")
	}

	title := strings.TrimSpace(sel.Find("h2.name").First().Text())
	if title == "" {
		return rawListing{}, fmt.Errorf("missing item name")
	}

	price := strings.TrimSpace(sel.Find("p.price").First().Text())
	if price == "" {
		return rawListing{}, fmt.Errorf("missing item price")
	}

	bind, ok := sel.Find("img.thumbnail").First().Attr("data-bind")
	if !ok {
		return rawListing{}, fmt.Errorf("missing thumbnail binding")
	}
	thumb, err := thumbnailFromDataBind(bind)
	if err != nil {
		return rawListing{}, err
	}

	return rawListing{
		url:       buyeeBase + href,
		title:     title,
		price:     price,
		thumbnail: thumb,
	}, nil
}

func extractAuctionRow(sel *goquery.Selection) (rawListing, error) {
	href, ok := sel.Find("a").First().Attr("href")
	if !ok || href == "" {
		return rawListing{}, fmt.Errorf("missing item link")
	}

	title := strings.TrimSpace(sel.Find("div.itemCard__itemName a").First().Text())
	if title == "" {
		return rawListing{}, fmt.Errorf("missing item name")
	}

	price := strings.TrimSpace(sel.Find("div.g-price__outer span").First().Text())
	if price == "" {
		return rawListing{}, fmt.Errorf("missing item price")
	}

	src, ok := sel.Find("img.g-thumbnail__image").First().Attr("data-src")
	if !ok || src == "" {
		return rawListing{}, fmt.Errorf("missing thumbnail source")
	}
	// data-src carries extra parameters after a semicolon.
	thumb, _, _ := strings.Cut(src, ";")

	return rawListing{
		url:       buyeeBase + href,
		title:     title,
		price:     price,
		thumbnail: thumb,
	}, nil
}

// thumbnailFromDataBind pulls the image URL out of a knockout-style
// data-bind attribute of the form "imagePath: '//img.example/x.jpg', …".
func thumbnailFromDataBind(bind string) (string, error) {
	const marker = "imagePath: '"
	start := strings.Index(bind, marker)
	if start < 0 {
		return "", fmt.Errorf("no imagePath in thumbnail binding")
	}
	rest := bind[start+len(marker):]
	end := strings.Index(rest, "'")
	if end < 0 {
		return "", fmt.Errorf("unterminated imagePath in thumbnail binding")
	}
	return "https:" + rest[:end], nil
}
