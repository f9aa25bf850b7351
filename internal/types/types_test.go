package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportLineString(t *testing.T) {
	line := ReportLine{
		Code:     CodePurchase,
		Date:     "05032024",
		Flag:     "I",
		Value:    "100,01",
		Fee:      "0,00",
		Asset:    "USDT",
		Quantity: "1,5000000000",
		Exchange: "BINANCE",
		URL:      "https://www.binance.com/",
		Country:  "KY",
	}

	assert.Equal(t,
		"0110|05032024|I|100,01|0,00|USDT|1,5000000000|BINANCE|https://www.binance.com/|KY",
		line.String())
}

func TestReportLineStringEmptyExchangeInfo(t *testing.T) {
	line := ReportLine{Code: CodeSale, Date: "N/A", Flag: "I", Value: "0,00", Fee: "0,00",
		Asset: "USDT", Quantity: "0,0000000000", Exchange: "KRAKEN"}

	assert.Equal(t, "0120|N/A|I|0,00|0,00|USDT|0,0000000000|KRAKEN||", line.String())
}

func TestCodeValid(t *testing.T) {
	assert.True(t, CodePurchase.Valid())
	assert.True(t, CodeSale.Valid())
	assert.False(t, Code("0130").Valid())
	assert.False(t, Code("").Valid())
}

func TestReportLines(t *testing.T) {
	r := &Report{
		Purchases: []ReportLine{{Code: CodePurchase}},
		Sales:     []ReportLine{{Code: CodeSale}, {Code: CodeSale}},
	}

	assert.Len(t, r.Lines(CodePurchase), 1)
	assert.Len(t, r.Lines(CodeSale), 2)
	assert.Nil(t, r.Lines(Code("9999")))
	assert.Len(t, Strings(r.Sales), 2)
}
