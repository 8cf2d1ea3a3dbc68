// services/order_transitions.go
package services

import (
	"ahara/entity"
)

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID uint
	Role   string
}

// transitions maps actor role -> target status -> allowed source statuses.
// Both the restaurant and the delivery endpoints validate against this one table.
var transitions = map[string]map[entity.OrderStatus][]entity.OrderStatus{
	entity.RoleRestaurant: {
		entity.StatusConfirmed: {entity.StatusPending},
		entity.StatusPreparing: {entity.StatusPending, entity.StatusConfirmed},
		entity.StatusReady:     {entity.StatusConfirmed, entity.StatusPreparing},
		entity.StatusCancelled: {entity.StatusPending, entity.StatusConfirmed, entity.StatusPreparing, entity.StatusReady},
	},
	entity.RoleDeliveryPartner: {
		entity.StatusPickedUp:  {entity.StatusReady},
		entity.StatusInTransit: {entity.StatusPickedUp},
		entity.StatusDelivered: {entity.StatusPickedUp, entity.StatusInTransit},
	},
}

// CheckTarget validates a requested status string against the actor's allowed targets.
func CheckTarget(role, requested string) (entity.OrderStatus, error) {
	to, ok := entity.ParseOrderStatus(requested)
	if !ok {
		return "", validationErr("Invalid status")
	}
	if _, ok := transitions[role][to]; !ok {
		return "", notFoundErr("Invalid status")
	}
	return to, nil
}

// CheckTransition validates the current status as a source for the target.
func CheckTransition(role string, from, to entity.OrderStatus) error {
	sources, ok := transitions[role][to]
	if !ok {
		return notFoundErr("Invalid status")
	}
	for _, s := range sources {
		if s == from {
			return nil
		}
	}
	return stateErr("Cannot change order status from " + string(from) + " to " + string(to))
}

// AllowedTargets lists the statuses the role may move an order in `from` to.
func AllowedTargets(role string, from entity.OrderStatus) []entity.OrderStatus {
	var out []entity.OrderStatus
	for _, st := range []entity.OrderStatus{
		entity.StatusConfirmed, entity.StatusPreparing, entity.StatusReady, entity.StatusPickedUp,
		entity.StatusInTransit, entity.StatusDelivered, entity.StatusCancelled,
	} {
		if CheckTransition(role, from, st) == nil {
			out = append(out, st)
		}
	}
	return out
}
