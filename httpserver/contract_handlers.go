package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

func (h *Handler) handleGetEditors(w http.ResponseWriter, r *http.Request) (any, error) {
	editors, err := h.contract.AuthorizedEditors(r.Context())
	if err != nil {
		return nil, contractError("failed to retrieve authorized editors", err)
	}
	return editors, nil
}

func (h *Handler) handleIsEditor(w http.ResponseWriter, r *http.Request) (any, error) {
	address, err := pathAddress(r, "address")
	if err != nil {
		return nil, err
	}
	ok, err := h.contract.IsAuthorizedEditor(r.Context(), address)
	if err != nil {
		return nil, contractError("failed to check editor status", err)
	}
	return ok, nil
}

func (h *Handler) handleAddEditorTx(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	editor, err := queryAddress(r, "address")
	if err != nil {
		return nil, err
	}

	tx, err := h.contract.AddAuthorizedEditorTx(r.Context(), initiator, editor)
	if err != nil {
		return nil, contractError("failed to create transaction", err)
	}
	h.log.Info("Built add editor transaction", "initiator", initiator.Hex(), "editor", editor.Hex())
	return tx, nil
}

func (h *Handler) handleRemoveEditorTx(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	editor, err := pathAddress(r, "address")
	if err != nil {
		return nil, err
	}

	tx, err := h.contract.RemoveAuthorizedEditorTx(r.Context(), initiator, editor)
	if err != nil {
		return nil, contractError("failed to create transaction", err)
	}
	h.log.Info("Built remove editor transaction", "initiator", initiator.Hex(), "editor", editor.Hex())
	return tx, nil
}

func (h *Handler) handleGetItems(w http.ResponseWriter, r *http.Request) (any, error) {
	items, err := h.contract.Items(r.Context())
	if err != nil {
		return nil, contractError("failed to retrieve items", err)
	}
	return items, nil
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	item, err := h.contract.Item(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve item", err)
	}
	return item, nil
}

func (h *Handler) handleGetItemByID(w http.ResponseWriter, r *http.Request) (any, error) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		return nil, err
	}
	item, err := h.contract.ItemByID(r.Context(), itemID)
	if err != nil {
		return nil, contractError("failed to retrieve item", err)
	}
	return item, nil
}

func (h *Handler) handleGetItemID(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	id, err := h.contract.ItemID(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve item ID", err)
	}
	return id, nil
}

func (h *Handler) handleGetItemDomains(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	item, err := h.contract.Item(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve item", err)
	}
	if item.AvailableOnDomainNames == nil {
		return []string{}, nil
	}
	return item.AvailableOnDomainNames, nil
}

func (h *Handler) handleAddItemTx(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	itemName, err := requireQuery(r, "itemName")
	if err != nil {
		return nil, err
	}

	tx, err := h.contract.AddItemTx(r.Context(), initiator, itemName)
	if err != nil {
		return nil, contractError("failed to create transaction", err)
	}
	h.log.Info("Built add item transaction", "initiator", initiator.Hex(), "itemName", itemName)
	return tx, nil
}

func (h *Handler) handleGetReviewsForItem(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	reviews, err := h.contract.ReviewsForItem(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}

func (h *Handler) handleGetReviewsForItemByID(w http.ResponseWriter, r *http.Request) (any, error) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		return nil, err
	}
	reviews, err := h.contract.ReviewsForItemByID(r.Context(), itemID)
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}

// AddReviewRequest is the body of POST /items/{itemName}/reviews. Rating
// accepts a JSON number or a numeric string.
type AddReviewRequest struct {
	Comment string      `json:"comment"`
	Rating  json.Number `json:"rating"`
}

func (h *Handler) handleAddReviewTx(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}

	var req AddReviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		return nil, err
	}
	if req.Rating == "" {
		return nil, badRequest("missing rating")
	}
	rating, err := strconv.ParseUint(req.Rating.String(), 10, 64)
	if err != nil || rating == 0 {
		return nil, badRequest("invalid rating %q", req.Rating.String())
	}

	domain := RequestDomain(r)
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), domain)

	tx, err := h.contract.AddReviewTx(r.Context(), initiator, domain, itemName, req.Comment, rating)
	if err != nil {
		return nil, contractError("failed to add review", err)
	}
	h.log.Info("Built add review transaction",
		"initiator", initiator.Hex(), "domain", domain, "itemName", itemName, "rating", rating)
	return tx, nil
}

func (h *Handler) handleGetInfoHash(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	hash, err := h.contract.InfoIPFSHashOfItem(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve IPFS hash", err)
	}
	return hash, nil
}

func (h *Handler) handleUpdateInfoHashTx(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}
	ipfsHash, err := requireQuery(r, "ipfsHash")
	if err != nil {
		return nil, err
	}
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))

	tx, err := h.contract.UpdateInfoIPFSHashOfItemTx(r.Context(), initiator, itemName, ipfsHash)
	if err != nil {
		return nil, contractError("failed to create transaction", err)
	}
	return tx, nil
}

// handleGetItemInfo returns the metadata document of an item. JSON documents
// are embedded as is; anything else is returned as a string.
func (h *Handler) handleGetItemInfo(w http.ResponseWriter, r *http.Request) (any, error) {
	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	hash, err := h.contract.InfoIPFSHashOfItem(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve IPFS hash", err)
	}
	if hash == "" {
		return nil, notFound("item %q has no info", itemName)
	}

	data, err := h.content.Fetch(r.Context(), interfaces.ContentID(hash))
	if err != nil {
		return nil, contentError("failed to retrieve item info", err)
	}
	if json.Valid(data) {
		return json.RawMessage(data), nil
	}
	return string(data), nil
}

// UpdateItemInfoRequest is the body of PUT /items/{itemName}/info.
type UpdateItemInfoRequest struct {
	AlternateName string   `json:"alternateName"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
}

// handleUpdateItemInfo stores a new metadata document for an existing item
// and returns the transaction pointing the item at it. Only editors may do so.
func (h *Handler) handleUpdateItemInfo(w http.ResponseWriter, r *http.Request) (any, error) {
	initiator, err := queryAddress(r, "initiator")
	if err != nil {
		return nil, err
	}

	var req UpdateItemInfoRequest
	if err := decodeBody(w, r, &req); err != nil {
		return nil, err
	}

	if err := h.requireEditor(r.Context(), initiator); err != nil {
		return nil, err
	}

	itemName := h.resolveItemName(r.Context(), pathParam(r, "itemName"), RequestDomain(r))
	item, err := h.contract.Item(r.Context(), itemName)
	if err != nil {
		return nil, contractError("failed to retrieve item", err)
	}
	if item.Name == "" {
		return nil, notFound("item %q does not exist", itemName)
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	doc, err := json.Marshal(interfaces.ItemInfo{
		ItemName:      itemName,
		AlternateName: req.AlternateName,
		Description:   req.Description,
		Images:        images,
	})
	if err != nil {
		return nil, err
	}

	id, err := h.content.Store(r.Context(), doc, itemName)
	if err != nil {
		return nil, contentError("failed to store item info", err)
	}
	h.log.Info("Stored item info", "itemName", itemName, "contentID", id.String(), "backend", h.content.Name())

	tx, err := h.contract.UpdateInfoIPFSHashOfItemTx(r.Context(), initiator, itemName, id.String())
	if err != nil {
		return nil, contractError("failed to create transaction", err)
	}
	return tx, nil
}

// handleGetDomains lists all domains, or a single one when domainID is given.
func (h *Handler) handleGetDomains(w http.ResponseWriter, r *http.Request) (any, error) {
	if v := r.URL.Query().Get("domainID"); v != "" {
		domainID, err := parseID("domainID", v)
		if err != nil {
			return nil, err
		}
		domain, err := h.contract.DomainByID(r.Context(), domainID)
		if err != nil {
			return nil, contractError("failed to retrieve domain", err)
		}
		return domain, nil
	}

	domains, err := h.contract.Domains(r.Context())
	if err != nil {
		return nil, contractError("failed to retrieve domains", err)
	}
	return domains, nil
}

func (h *Handler) handleGetDomain(w http.ResponseWriter, r *http.Request) (any, error) {
	domain, err := h.contract.Domain(r.Context(), pathParam(r, "domainName"))
	if err != nil {
		return nil, contractError("failed to retrieve domain", err)
	}
	return domain, nil
}

func (h *Handler) handleGetDomainID(w http.ResponseWriter, r *http.Request) (any, error) {
	id, err := h.contract.DomainID(r.Context(), pathParam(r, "domainName"))
	if err != nil {
		return nil, contractError("failed to retrieve domain ID", err)
	}
	return id, nil
}

func (h *Handler) handleGetReviewsForDomain(w http.ResponseWriter, r *http.Request) (any, error) {
	reviews, err := h.contract.ReviewsForDomain(r.Context(), pathParam(r, "domainName"))
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}

func (h *Handler) handleGetReviewsForDomainByID(w http.ResponseWriter, r *http.Request) (any, error) {
	domainID, err := pathID(r, "domainID")
	if err != nil {
		return nil, err
	}
	reviews, err := h.contract.ReviewsForDomainByID(r.Context(), domainID)
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}

// handleGetReviewsForItemOfDomain serves the four name/ID combinations of
// domain and item. A named item is resolved against the named domain's
// registrations.
func (h *Handler) handleGetReviewsForItemOfDomain(w http.ResponseWriter, r *http.Request) (any, error) {
	ctx := r.Context()
	domainName := pathParam(r, "domainName")
	itemName := pathParam(r, "itemName")

	var (
		reviews []interfaces.Review
		err     error
	)
	switch {
	case domainName != "" && itemName != "":
		itemName = h.resolveItemName(ctx, itemName, domainName)
		reviews, err = h.contract.ReviewsForItemOfDomain(ctx, domainName, itemName)
	case domainName != "":
		itemID, perr := pathID(r, "itemID")
		if perr != nil {
			return nil, perr
		}
		reviews, err = h.contract.ReviewsForItemIDOfDomain(ctx, domainName, itemID)
	default:
		domainID, perr := pathID(r, "domainID")
		if perr != nil {
			return nil, perr
		}
		if itemName != "" {
			reviews, err = h.contract.ReviewsForItemOfDomainByID(ctx, domainID, itemName)
			break
		}
		itemID, perr := pathID(r, "itemID")
		if perr != nil {
			return nil, perr
		}
		reviews, err = h.contract.ReviewsForItemIDOfDomainByID(ctx, domainID, itemID)
	}
	if err != nil {
		return nil, contractError("failed to retrieve reviews for item of domain", err)
	}
	return reviews, nil
}

// handleGetReviews lists all reviews, or those of one domain when domainID is given.
func (h *Handler) handleGetReviews(w http.ResponseWriter, r *http.Request) (any, error) {
	var (
		reviews []interfaces.Review
		err     error
	)
	if v := r.URL.Query().Get("domainID"); v != "" {
		domainID, perr := parseID("domainID", v)
		if perr != nil {
			return nil, perr
		}
		reviews, err = h.contract.ReviewsForDomainByID(r.Context(), domainID)
	} else {
		reviews, err = h.contract.Reviews(r.Context())
	}
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}

func (h *Handler) handleGetReview(w http.ResponseWriter, r *http.Request) (any, error) {
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		return nil, err
	}
	review, err := h.contract.ReviewByID(r.Context(), reviewID)
	if err != nil {
		return nil, contractError("failed to retrieve review", err)
	}
	return review, nil
}

func (h *Handler) handleGetUserReviews(w http.ResponseWriter, r *http.Request) (any, error) {
	address, err := pathAddress(r, "address")
	if err != nil {
		return nil, err
	}
	reviews, err := h.contract.UserReviews(r.Context(), address)
	if err != nil {
		return nil, contractError("failed to retrieve reviews", err)
	}
	return reviews, nil
}
