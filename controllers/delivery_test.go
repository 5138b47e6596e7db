package controllers

import (
	"testing"

	"greencart/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusUpdateFields(t *testing.T) {
	tests := []struct {
		name        string
		paymentType string
		status      string
		wantPaid    bool
	}{
		{name: "COD delivered captures cash", paymentType: models.PaymentCOD, status: models.StatusDelivered, wantPaid: true},
		{name: "COD confirmed stays as-is", paymentType: models.PaymentCOD, status: models.StatusConfirmed, wantPaid: false},
		{name: "online delivered leaves paid flag alone", paymentType: models.PaymentOnline, status: models.StatusDelivered, wantPaid: false},
		{name: "wallet delivered leaves paid flag alone", paymentType: models.PaymentWallet, status: models.StatusDelivered, wantPaid: false},
		{name: "COD cancelled", paymentType: models.PaymentCOD, status: models.StatusCancelled, wantPaid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := statusUpdateFields(tt.paymentType, tt.status)
			assert.Equal(t, tt.status, fields["status"])

			paid, present := fields["is_paid"]
			if tt.wantPaid {
				assert.Equal(t, true, paid)
			} else {
				assert.False(t, present)
			}
		})
	}
}
