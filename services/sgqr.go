package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smunch/smunch-backend/utils"
)

// EMVCo merchant-presented QR tags used by SGQR PayNow.
const (
	tagPayloadFormat   = "00"
	tagPointOfInit     = "01"
	tagPayNowAccount   = "26"
	tagMerchantCat     = "52"
	tagCurrency        = "53"
	tagAmount          = "54"
	tagCountry         = "58"
	tagMerchantName    = "59"
	tagMerchantCity    = "60"
	tagAdditionalData  = "62"
	tagCRC             = "63"
	subTagBillNumber   = "01"
	payNowGUID         = "SG.PAYNOW"
	payNowProxyMobile  = "0"
	payNowNotEditable  = "0"
	payNowEditable     = "1"
	currencySGD        = "702"
	dynamicQR          = "12"
	payNowExpiryLayout = "20060102150405"
	maxMerchantName    = 25
)

// ErrInvalidAmount means the amount cannot be put into a PayNow code.
var ErrInvalidAmount = errors.New("invalid paynow amount")

// PayNowPayload holds what gets encoded into the QR.
type PayNowPayload struct {
	Mobile       string
	Amount       string
	Reference    string
	MerchantName string
	ExpiresAt    time.Time
}

// BuildPayNowPayload returns the SGQR string, including its CRC.
// A zero amount leaves the amount out and lets the payer enter it.
func BuildPayNowPayload(p PayNowPayload) (string, error) {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidAmount, p.Amount, err)
	}
	if amount.IsNegative() {
		return "", fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, p.Amount)
	}
	if p.Mobile == "" {
		return "", fmt.Errorf("paynow number is empty")
	}
	if p.Reference == "" || len(p.Reference) > 25 {
		return "", fmt.Errorf("invalid payment reference %q", p.Reference)
	}

	name := p.MerchantName
	if len(name) > maxMerchantName {
		name = name[:maxMerchantName]
	}

	editable := payNowNotEditable
	if amount.IsZero() {
		editable = payNowEditable
	}

	account := tlv("00", payNowGUID) +
		tlv("01", payNowProxyMobile) +
		tlv("02", mobileProxy(p.Mobile)) +
		tlv("03", editable) +
		tlv("04", p.ExpiresAt.In(utils.Singapore).Format(payNowExpiryLayout))

	var b strings.Builder
	b.WriteString(tlv(tagPayloadFormat, "01"))
	b.WriteString(tlv(tagPointOfInit, dynamicQR))
	b.WriteString(tlv(tagPayNowAccount, account))
	b.WriteString(tlv(tagMerchantCat, "0000"))
	b.WriteString(tlv(tagCurrency, currencySGD))
	if !amount.IsZero() {
		b.WriteString(tlv(tagAmount, amount.StringFixed(2)))
	}
	b.WriteString(tlv(tagCountry, "SG"))
	b.WriteString(tlv(tagMerchantName, name))
	b.WriteString(tlv(tagMerchantCity, "Singapore"))
	b.WriteString(tlv(tagAdditionalData, tlv(subTagBillNumber, p.Reference)))
	b.WriteString(tagCRC + "04")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload))), nil
}

func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// mobileProxy normalises a local 8 digit number to +65 form.
func mobileProxy(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	if strings.HasPrefix(number, "+") {
		return number
	}
	if strings.HasPrefix(number, "65") && len(number) == 10 {
		return "+" + number
	}
	return "+65" + number
}

// crc16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) as EMVCo requires.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
