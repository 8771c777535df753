package tiendanube

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LocalizedString is a field the platform serves either as a plain string or as
// a language-code map ({"es": "...", "pt": "..."}). Key order of the map form is
// preserved as it appears in the JSON document.
type LocalizedString struct {
	Plain   string
	IsPlain bool
	Langs   []string
	Values  map[string]string
}

func (s *LocalizedString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = LocalizedString{IsPlain: true}
		return nil
	}

	if trimmed[0] == '"' {
		var plain string
		if err := json.Unmarshal(trimmed, &plain); err != nil {
			return err
		}
		*s = LocalizedString{Plain: plain, IsPlain: true}
		return nil
	}

	if trimmed[0] == '{' {
		out := LocalizedString{Values: make(map[string]string)}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil { // consume '{'
			return err
		}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("unexpected key token %v", keyTok)
			}
			var value string
			// Non-string values (nested objects, numbers) resolve to empty
			// rather than failing the whole product.
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			_ = json.Unmarshal(raw, &value)
			out.Langs = append(out.Langs, key)
			out.Values[key] = value
		}
		*s = out
		return nil
	}

	// Numbers, booleans: stringify.
	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*s = LocalizedString{Plain: fmt.Sprintf("%v", v), IsPlain: true}
	return nil
}

func (s LocalizedString) MarshalJSON() ([]byte, error) {
	if s.IsPlain {
		return json.Marshal(s.Plain)
	}
	return json.Marshal(s.Values)
}

// Resolve picks the text for the preferred language, falling back to the first
// language present in document order, then to the empty string.
func (s LocalizedString) Resolve(preferred string) string {
	if s.IsPlain {
		return s.Plain
	}
	if v, ok := s.Values[preferred]; ok && v != "" {
		return v
	}
	for _, lang := range s.Langs {
		if v := s.Values[lang]; v != "" {
			return v
		}
	}
	return ""
}

// Product is a raw catalog record as served by the platform API.
type Product struct {
	ID           int64           `json:"id"`
	Name         LocalizedString `json:"name"`
	Description  LocalizedString `json:"description"`
	Handle       LocalizedString `json:"handle"`
	Published    bool            `json:"published"`
	Brand        json.RawMessage `json:"brand,omitempty"`
	Vendor       string          `json:"vendor,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Attributes   json.RawMessage `json:"attributes,omitempty"`
	Variants     []Variant       `json:"variants"`
	Images       []Image         `json:"images"`
}

// Variant is one sellable configuration of a product.
type Variant struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	Name             LocalizedString `json:"name"`
	Price            *string         `json:"price"`
	PromotionalPrice *string         `json:"promotional_price"`
	StockManagement  bool            `json:"stock_management"`
	Stock            *int            `json:"stock"`
	ImageID          *int64          `json:"image_id"`
	SKU              string          `json:"sku,omitempty"`
}

type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Src       string `json:"src"`
	Position  int    `json:"position"`
}

// TokenResponse is the OAuth code-exchange response. The platform identifies
// the store through user_id; store_id used elsewhere is its decimal string.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	UserID      int64  `json:"user_id"`
}
