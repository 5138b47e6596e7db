package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completeAddress() Address {
	return Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Street:    "12 Analytical Way",
		City:      "London",
		State:     "LDN",
		Zipcode:   "E1 6AN",
		Country:   "UK",
		Phone:     "+44 20 7946 0000",
	}
}

func TestAddressComplete(t *testing.T) {
	assert.True(t, completeAddress().Complete())

	missing := []func(*Address){
		func(a *Address) { a.FirstName = "" },
		func(a *Address) { a.LastName = "" },
		func(a *Address) { a.Street = "" },
		func(a *Address) { a.City = "" },
		func(a *Address) { a.State = "" },
		func(a *Address) { a.Zipcode = "" },
		func(a *Address) { a.Country = "" },
		func(a *Address) { a.Phone = "" },
	}
	for _, blank := range missing {
		a := completeAddress()
		blank(&a)
		assert.False(t, a.Complete())
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusOrderPlaced,
		StatusProcessing,
		StatusConfirmed,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}

	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Shipped"))
	assert.False(t, ValidStatus("delivered"))
}

func TestValidPaymentType(t *testing.T) {
	assert.True(t, ValidPaymentType(PaymentCOD))
	assert.True(t, ValidPaymentType(PaymentOnline))
	assert.True(t, ValidPaymentType(PaymentWallet))
	assert.False(t, ValidPaymentType("cod"))
	assert.False(t, ValidPaymentType(""))
	assert.False(t, ValidPaymentType("Card"))
}
