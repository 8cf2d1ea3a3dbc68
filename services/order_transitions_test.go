package services

import (
	"testing"

	"ahara/entity"

	"github.com/stretchr/testify/assert"
)

func TestCheckTarget(t *testing.T) {
	to, err := CheckTarget(entity.RoleRestaurant, "ready")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusReady, to)

	_, err = CheckTarget(entity.RoleRestaurant, "delivered")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CheckTarget(entity.RoleDeliveryPartner, "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CheckTarget(entity.RoleCustomer, "cancelled")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CheckTarget(entity.RoleRestaurant, "READY")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllowedTargets(t *testing.T) {
	tests := []struct {
		role string
		from entity.OrderStatus
		want []entity.OrderStatus
	}{
		{entity.RoleRestaurant, entity.StatusPending, []entity.OrderStatus{entity.StatusConfirmed, entity.StatusPreparing, entity.StatusCancelled}},
		{entity.RoleRestaurant, entity.StatusConfirmed, []entity.OrderStatus{entity.StatusPreparing, entity.StatusReady, entity.StatusCancelled}},
		{entity.RoleRestaurant, entity.StatusReady, []entity.OrderStatus{entity.StatusCancelled}},
		{entity.RoleRestaurant, entity.StatusPickedUp, nil},
		{entity.RoleDeliveryPartner, entity.StatusReady, []entity.OrderStatus{entity.StatusPickedUp}},
		{entity.RoleDeliveryPartner, entity.StatusPickedUp, []entity.OrderStatus{entity.StatusInTransit, entity.StatusDelivered}},
		{entity.RoleDeliveryPartner, entity.StatusInTransit, []entity.OrderStatus{entity.StatusDelivered}},
		{entity.RoleDeliveryPartner, entity.StatusDelivered, nil},
		{entity.RoleDeliveryPartner, entity.StatusCancelled, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AllowedTargets(tt.role, tt.from), "%s from %s", tt.role, tt.from)
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, role := range []string{entity.RoleRestaurant, entity.RoleDeliveryPartner} {
		for _, from := range []entity.OrderStatus{entity.StatusDelivered, entity.StatusCancelled} {
			assert.True(t, from.Terminal())
			assert.Empty(t, AllowedTargets(role, from))
		}
	}
}
