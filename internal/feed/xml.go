package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const googleNamespace = "http://base.google.com/ns/1.0"

// Serializer renders normalized items into a Google Shopping RSS 2.0 document.
type Serializer struct {
	currency  string
	utmSuffix string
}

func NewSerializer(currency, utmSuffix string) *Serializer {
	return &Serializer{
		currency:  currency,
		utmSuffix: utmSuffix,
	}
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	NSG     string     `xml:"xmlns:g,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type cdataText struct {
	Text string `xml:",cdata"`
}

type rssItem struct {
	ID               string    `xml:"g:id"`
	Title            cdataText `xml:"title"`
	Description      cdataText `xml:"description"`
	Link             string    `xml:"link"`
	ImageLink        string    `xml:"g:image_link,omitempty"`
	Availability     string    `xml:"g:availability"`
	Price            string    `xml:"g:price"`
	SalePrice        string    `xml:"g:sale_price,omitempty"`
	Condition        string    `xml:"g:condition"`
	Brand            string    `xml:"g:brand,omitempty"`
	IdentifierExists string    `xml:"g:identifier_exists"`
}

// Serialize renders the document for one store. Items without a price are
// dropped: the ad-feed consumer rejects priceless items. An empty item list
// still yields a complete document with an empty channel.
func (s *Serializer) Serialize(items []Item, host string) ([]byte, error) {
	doc := rssDoc{
		Version: "2.0",
		NSG:     googleNamespace,
		Channel: rssChannel{
			Title:       host,
			Link:        "https://" + host,
			Description: "Product feed for " + host,
			Items:       make([]rssItem, 0, len(items)),
		},
	}

	for i := range items {
		item := &items[i]
		if item.Price == "" {
			continue
		}

		out := rssItem{
			ID:               item.ID,
			Title:            cdataText{Text: item.Title},
			Description:      cdataText{Text: item.Description},
			Link:             s.itemLink(host, item.Handle),
			ImageLink:        item.ImageLink,
			Availability:     item.Availability,
			Price:            item.Price + " " + s.currency,
			Condition:        "new",
			Brand:            item.Brand,
			IdentifierExists: "no",
		}
		if item.SalePrice != "" {
			out.SalePrice = item.SalePrice + " " + s.currency
		}
		doc.Channel.Items = append(doc.Channel.Items, out)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteString("\n")
	return []byte(buf.String()), nil
}

func (s *Serializer) itemLink(host, handle string) string {
	link := "https://" + host + "/productos/" + handle
	if s.utmSuffix != "" {
		link += "?" + s.utmSuffix
	}
	return link
}
