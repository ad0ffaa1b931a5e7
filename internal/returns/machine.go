// Package returns implements the return-request status machine. Refunds
// and notifications triggered by transitions happen elsewhere; this package
// only decides which transitions are legal and how statuses display.
package returns

import (
	"fmt"

	"bloomkart/internal/model"
)

// Actor identifies who is requesting a transition.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
)

// transitions maps each status to the statuses an admin may move it to.
var transitions = map[model.ReturnStatus][]model.ReturnStatus{
	model.ReturnRequested:  {model.ReturnApproved, model.ReturnRejected},
	model.ReturnApproved:   {model.ReturnProcessing},
	model.ReturnProcessing: {model.ReturnCompleted},
	model.ReturnCompleted:  {},
	model.ReturnRejected:   {},
	model.ReturnCancelled:  {},
}

// cancellable lists the statuses a customer may cancel from.
var cancellable = map[model.ReturnStatus]bool{
	model.ReturnRequested: true,
	model.ReturnApproved:  true,
}

// Terminal reports whether no further transitions are possible.
func Terminal(s model.ReturnStatus) bool {
	return s == model.ReturnCompleted || s == model.ReturnRejected || s == model.ReturnCancelled
}

// CanTransition reports whether the actor may move a return from one status
// to another.
func CanTransition(from, to model.ReturnStatus, actor Actor) bool {
	if to == model.ReturnCancelled {
		return actor == ActorCustomer && cancellable[from]
	}
	if actor != ActorAdmin {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and performs a status change on the return request.
// The request is left unchanged when the transition is illegal.
func Transition(r *model.ReturnRequest, to model.ReturnStatus, actor Actor) error {
	if !CanTransition(r.Status, to, actor) {
		return model.NewDomainError(
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot move return from %s to %s", r.Status, to),
		)
	}
	r.Status = to
	return nil
}

// Display is the presentation metadata for a status.
type Display struct {
	Label  string `json:"label"`
	Colour string `json:"colour"`
}

var displays = map[model.ReturnStatus]Display{
	model.ReturnRequested:  {Label: "Return Requested", Colour: "orange"},
	model.ReturnApproved:   {Label: "Approved", Colour: "blue"},
	model.ReturnRejected:   {Label: "Rejected", Colour: "red"},
	model.ReturnProcessing: {Label: "Processing", Colour: "purple"},
	model.ReturnCompleted:  {Label: "Completed", Colour: "green"},
	model.ReturnCancelled:  {Label: "Cancelled", Colour: "grey"},
}

// DisplayFor returns the label and colour for a status. Unknown statuses
// fall back to the raw value in grey.
func DisplayFor(s model.ReturnStatus) Display {
	if d, ok := displays[s]; ok {
		return d
	}
	return Display{Label: string(s), Colour: "grey"}
}
