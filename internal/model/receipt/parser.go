package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

// Data holds the fields recovered from receipt text. Extraction is best
// effort: a field whose pattern never matched stays nil instead of failing
// the whole receipt.
type Data struct {
	Merchant      *string  `json:"merchant"`
	Date          *string  `json:"date"`
	Total         *float64 `json:"total"`
	Subtotal      *float64 `json:"subtotal"`
	Tax           *float64 `json:"tax"`
	Tip           *float64 `json:"tip"`
	Items         []Item   `json:"items"`
	PaymentMethod *string  `json:"payment_method"`
	Category      *string  `json:"category"`
	Currency      string   `json:"currency"`
}

type Item struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Result is the envelope both scanning endpoints respond with.
type Result struct {
	Success          bool     `json:"success"`
	Confidence       float64  `json:"confidence"`
	Data             *Data    `json:"data"`
	RawText          *string  `json:"raw_text"`
	Errors           []string `json:"errors"`
	ProcessingTimeMS float64  `json:"processing_time_ms"`
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	regexp.MustCompile(`(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})`),
	regexp.MustCompile(`([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})`),
}

var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)total[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)amount[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)grand\s*total[:\s]*\$?([\d,]+\.?\d*)`),
	// Last resort: a bare dollar amount ending a line is likely the total.
	regexp.MustCompile(`(?im)\$?([\d,]+\.\d{2})\s*$`),
}

var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)subtotal[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)sub\s*total[:\s]*\$?([\d,]+\.?\d*)`),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)tax[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)sales\s*tax[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)vat[:\s]*\$?([\d,]+\.?\d*)`),
}

var tipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)tip[:\s]*\$?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?im)gratuity[:\s]*\$?([\d,]+\.?\d*)`),
}

var (
	phoneLine   = regexp.MustCompile(`^[\d\-\(\)]+$`)
	addressLine = regexp.MustCompile(`^\d+\s+\w+`)
	itemLine    = regexp.MustCompile(`^(.+?)\s+\$?([\d,]+\.\d{2})\s*$`)
	summaryLine = regexp.MustCompile(`(?i)total|tax|tip|gratuity|change|cash|visa|card|payment`)
)

var merchantCategories = []struct {
	name     string
	keywords []string
}{
	{"Groceries", []string{"grocery", "market", "food", "walmart", "target", "costco", "whole foods"}},
	{"Dining", []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "pizza", "diner"}},
	{"Transportation", []string{"gas", "shell", "chevron", "exxon", "fuel", "petro"}},
	{"Healthcare", []string{"pharmacy", "cvs", "walgreens", "medical", "health"}},
	{"Shopping", []string{"amazon", "online", "ebay", "shop"}},
}

// Parse extracts merchant, date, and monetary fields from receipt text.
func Parse(text string) *Data {
	data := &Data{Currency: "USD", Items: []Item{}}

	data.Merchant = extractMerchant(text)
	data.Date = extractDate(text)
	data.Total = extractAmount(text, totalPatterns)
	data.Subtotal = extractAmount(text, subtotalPatterns)
	data.Tax = extractAmount(text, taxPatterns)
	data.Tip = extractAmount(text, tipPatterns)

	if data.Merchant != nil {
		category := guessCategory(*data.Merchant)
		data.Category = &category
	}

	return data
}

// ExtractItems pulls "name price" line items, skipping summary and payment
// lines. Quantities are not recoverable from flat OCR text, so each item is
// reported with quantity 1.
func ExtractItems(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || summaryLine.MatchString(line) {
			continue
		}
		m := itemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, err := parseAmount(m[2])
		if err != nil {
			continue
		}
		items = append(items, Item{
			Name:       strings.TrimSpace(m[1]),
			Quantity:   1,
			UnitPrice:  price,
			TotalPrice: price,
		})
	}
	return items
}

// extractMerchant scans the first few lines for one that looks like a store
// name rather than a phone number or street address.
func extractMerchant(text string) *string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) <= 2 {
			continue
		}
		if phoneLine.MatchString(line) || addressLine.MatchString(line) {
			continue
		}
		return &line
	}
	return nil
}

func extractDate(text string) *string {
	for _, p := range datePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return &m[1]
		}
	}
	return nil
}

func extractAmount(text string, patterns []*regexp.Regexp) *float64 {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

func parseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, "$", "")
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func guessCategory(merchant string) string {
	lower := strings.ToLower(merchant)
	for _, c := range merchantCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "Other"
}
