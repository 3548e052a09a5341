package digikey

import (
	"bytes"
	"encoding/json"
	"fmt"

	"partdex/internal/parts"
)

// The v4 keyword search has shipped more than one envelope shape, and some
// fields arrive either as plain strings or as nested objects. Decoding stays
// deliberately loose.

type searchResponse struct {
	SearchResults []product `json:"SearchResults"`
	Products      []product `json:"Products"`
}

func decodeProducts(data []byte) ([]product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []product
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode search results: %w", err)
		}
		return list, nil
	}

	var envelope searchResponse
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if envelope.SearchResults != nil {
		return envelope.SearchResults, nil
	}
	return envelope.Products, nil
}

type product struct {
	DigiKeyPartNumber   string       `json:"DigiKeyPartNumber"`
	PartNumber          string       `json:"PartNumber"`
	Manufacturer        nameField    `json:"Manufacturer"`
	Description         descField    `json:"Description"`
	DetailedDescription descField    `json:"DetailedDescription"`
	ProductURL          string       `json:"ProductUrl"`
	URL                 string       `json:"Url"`
	PrimaryDatasheet    string       `json:"PrimaryDatasheet"`
	DatasheetURL        string       `json:"DatasheetUrl"`
	QuantityAvailable   int          `json:"QuantityAvailable"`
	StandardPricing     []priceBreak `json:"StandardPricing"`
	Parameters          []parameter  `json:"Parameters"`
}

type priceBreak struct {
	UnitPrice float64 `json:"UnitPrice"`
}

// nameField decodes either "Yageo" or {"Name": "Yageo"} / {"Value": "Yageo"}
type nameField struct {
	Value string
}

func (n *nameField) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		n.Value = asString
		return nil
	}

	var asObject struct {
		Name  string `json:"Name"`
		Value string `json:"Value"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("unexpected name field: %w", err)
	}
	if asObject.Name != "" {
		n.Value = asObject.Name
	} else {
		n.Value = asObject.Value
	}
	return nil
}

// descField decodes a plain string or a {DetailedDescription, ProductDescription} object
type descField struct {
	Value string
}

func (d *descField) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		d.Value = asString
		return nil
	}

	var asObject struct {
		DetailedDescription string `json:"DetailedDescription"`
		ProductDescription  string `json:"ProductDescription"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("unexpected description field: %w", err)
	}
	if asObject.DetailedDescription != "" {
		d.Value = asObject.DetailedDescription
	} else {
		d.Value = asObject.ProductDescription
	}
	return nil
}

type parameter struct {
	ParameterText string `json:"ParameterText"`
	Parameter     string `json:"Parameter"`
	Name          string `json:"Name"`
	ValueText     string `json:"ValueText"`
	Value         string `json:"Value"`
}

func (p *parameter) text() string {
	if p.ParameterText != "" {
		return p.ParameterText
	}
	if p.Parameter != "" {
		return p.Parameter
	}
	return p.Name
}

func (p *parameter) value() string {
	if p.ValueText != "" {
		return p.ValueText
	}
	return p.Value
}

const mountingTypeParameter = "Mounting Type"

func (p *product) toPart(queried string) parts.Part {
	part := parts.Part{
		PartNumber:        firstNonEmpty(p.DigiKeyPartNumber, p.PartNumber, queried),
		Manufacturer:      firstNonEmpty(p.Manufacturer.Value, "N/A"),
		MountingType:      "N/A",
		Description:       firstNonEmpty(p.DetailedDescription.Value, p.Description.Value, "N/A"),
		ProductURL:        firstNonEmpty(p.ProductURL, p.URL),
		DatasheetURL:      firstNonEmpty(p.PrimaryDatasheet, p.DatasheetURL),
		QuantityAvailable: p.QuantityAvailable,
		Source:            parts.SourceAPI,
	}

	if len(p.StandardPricing) > 0 {
		part.UnitPrice = p.StandardPricing[0].UnitPrice
	}

	for i := range p.Parameters {
		if p.Parameters[i].text() == mountingTypeParameter {
			if value := p.Parameters[i].value(); value != "" {
				part.MountingType = value
			}
			break
		}
	}

	return part
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
