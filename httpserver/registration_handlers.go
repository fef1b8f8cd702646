package httpserver

import (
	"net/http"

	"github.com/lastweeknextday/review-gateway/metrics"
)

// handleRegisterItem queues the requesting domain's proposed item name for
// editor approval. Names already approved or already pending are rejected.
func (h *Handler) handleRegisterItem(w http.ResponseWriter, r *http.Request) (any, error) {
	proposedItemName, err := requireQuery(r, "itemName")
	if err != nil {
		return nil, err
	}
	ctx := r.Context()
	domain := RequestDomain(r)

	if itemName, found := h.registrations.CheckRegistration(ctx, proposedItemName, domain); found {
		return nil, conflict("item %q is already registered for %s as %q", proposedItemName, domain, itemName)
	}
	if h.registrations.CheckQueue(ctx, proposedItemName, domain) {
		return nil, conflict("item %q is already queued for %s", proposedItemName, domain)
	}

	err = h.registrations.QueueRegistration(ctx, proposedItemName, domain)
	metrics.RecordRegistration("queue", err)
	if err != nil {
		return nil, err
	}
	return "Registration queued", nil
}

// handleCheckRegistration returns the canonical item name approved for the
// requesting domain's item name.
func (h *Handler) handleCheckRegistration(w http.ResponseWriter, r *http.Request) (any, error) {
	proposedItemName := pathParam(r, "itemName")
	domain := RequestDomain(r)

	itemName, found := h.registrations.CheckRegistration(r.Context(), proposedItemName, domain)
	if !found {
		return nil, notFound("item %q is not registered for %s", proposedItemName, domain)
	}
	return itemName, nil
}

// handleAssignRegistration approves a registration: the mapping gains the
// record and the pending entries for the key are dropped.
func (h *Handler) handleAssignRegistration(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	proposedItemName, err := requireQuery(r, "proposedItemName")
	if err != nil {
		return nil, err
	}
	domain, err := requireQuery(r, "domain")
	if err != nil {
		return nil, err
	}
	itemName, err := requireQuery(r, "itemName")
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	if err := h.requireEditor(ctx, initiator); err != nil {
		return nil, err
	}

	if existing, found := h.registrations.CheckRegistration(ctx, proposedItemName, domain); found {
		return nil, conflict("item %q is already registered for %s as %q", proposedItemName, domain, existing)
	}

	err = h.registrations.AssignRegistrationToItem(ctx, proposedItemName, domain, itemName)
	metrics.RecordRegistration("assign", err)
	if err != nil {
		return nil, err
	}

	err = h.registrations.RemoveRegistrationFromQueue(ctx, proposedItemName, domain)
	metrics.RecordRegistration("dequeue", err)
	if err != nil {
		return nil, err
	}

	h.log.Info("Registration assigned",
		"initiator", initiator.Hex(), "proposedItemName", proposedItemName, "domain", domain, "itemName", itemName)
	return "Registration assigned", nil
}

// handleRemoveFromQueue rejects a pending registration.
func (h *Handler) handleRemoveFromQueue(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	proposedItemName, err := requireQuery(r, "proposedItemName")
	if err != nil {
		return nil, err
	}
	domain, err := requireQuery(r, "domain")
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	if err := h.requireEditor(ctx, initiator); err != nil {
		return nil, err
	}

	err = h.registrations.RemoveRegistrationFromQueue(ctx, proposedItemName, domain)
	metrics.RecordRegistration("dequeue", err)
	if err != nil {
		return nil, err
	}

	h.log.Info("Registration removed from queue",
		"initiator", initiator.Hex(), "proposedItemName", proposedItemName, "domain", domain)
	return "Registration removed from queue", nil
}

func (h *Handler) handleGetQueue(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	if err := h.requireEditor(r.Context(), initiator); err != nil {
		return nil, err
	}
	return h.registrations.GetQueue(r.Context()), nil
}

func (h *Handler) handleGetMapping(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	if err := h.requireEditor(r.Context(), initiator); err != nil {
		return nil, err
	}
	return h.registrations.GetRegistrationMapping(r.Context()), nil
}
