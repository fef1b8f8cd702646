package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Item is an item registered in the review contract.
type Item struct {
	ID                     uint64   `json:"id"`
	Name                   string   `json:"name"`
	InfoIPFSHash           string   `json:"infoIPFSHash"`
	AvailableOnDomainNames []string `json:"availableOnDomainNames"`
	Rating                 uint64   `json:"rating"`
}

// Domain is a website that has submitted reviews through the contract.
type Domain struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	ItemNames []string `json:"itemNames"`
}

// Review is a single on-chain review.
type Review struct {
	ID         uint64         `json:"id"`
	Reviewer   common.Address `json:"reviewer"`
	ItemName   string         `json:"itemName"`
	DomainName string         `json:"domainName"`
	Comment    string         `json:"comment"`
	Rating     uint64         `json:"rating"`
}

// UnsignedTransaction is a contract call prepared for a wallet to sign.
// From is nil for calls that do not need a sender.
type UnsignedTransaction struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Gas  uint64          `json:"gas,string"`
	Data hexutil.Bytes   `json:"data"`
}

// ItemInfo is the metadata document kept in the content store for an item.
type ItemInfo struct {
	ItemName      string   `json:"Item Name"`
	AlternateName string   `json:"Alternate Name"`
	Description   string   `json:"Description"`
	Images        []string `json:"Images"`
}

// AuthorizationGate answers whether an address may mutate registrations and items.
type AuthorizationGate interface {
	IsAuthorizedEditor(ctx context.Context, address common.Address) (bool, error)
}

// ReviewRegistry is the read side of the review contract.
type ReviewRegistry interface {
	AuthorizationGate

	AuthorizedEditors(ctx context.Context) ([]common.Address, error)

	Item(ctx context.Context, itemName string) (Item, error)
	ItemByID(ctx context.Context, itemID uint64) (Item, error)
	ItemID(ctx context.Context, itemName string) (uint64, error)
	Items(ctx context.Context) ([]Item, error)
	InfoIPFSHashOfItem(ctx context.Context, itemName string) (string, error)

	Domain(ctx context.Context, domainName string) (Domain, error)
	DomainByID(ctx context.Context, domainID uint64) (Domain, error)
	DomainID(ctx context.Context, domainName string) (uint64, error)
	Domains(ctx context.Context) ([]Domain, error)

	Reviews(ctx context.Context) ([]Review, error)
	ReviewByID(ctx context.Context, reviewID uint64) (Review, error)
	ReviewsForItem(ctx context.Context, itemName string) ([]Review, error)
	ReviewsForItemByID(ctx context.Context, itemID uint64) ([]Review, error)
	ReviewsForDomain(ctx context.Context, domainName string) ([]Review, error)
	ReviewsForDomainByID(ctx context.Context, domainID uint64) ([]Review, error)
	UserReviews(ctx context.Context, address common.Address) ([]Review, error)
	ReviewsForItemOfDomain(ctx context.Context, domainName, itemName string) ([]Review, error)
	ReviewsForItemIDOfDomain(ctx context.Context, domainName string, itemID uint64) ([]Review, error)
	ReviewsForItemOfDomainByID(ctx context.Context, domainID uint64, itemName string) ([]Review, error)
	ReviewsForItemIDOfDomainByID(ctx context.Context, domainID, itemID uint64) ([]Review, error)
}

// TransactionBuilder prepares unsigned state-changing calls for the review contract.
type TransactionBuilder interface {
	AddAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*UnsignedTransaction, error)
	RemoveAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*UnsignedTransaction, error)
	AddItemTx(ctx context.Context, initiator common.Address, itemName string) (*UnsignedTransaction, error)
	AddReviewTx(ctx context.Context, initiator common.Address, domainName, itemName, comment string, rating uint64) (*UnsignedTransaction, error)
	UpdateInfoIPFSHashOfItemTx(ctx context.Context, initiator common.Address, itemName, ipfsHash string) (*UnsignedTransaction, error)
}

// ReviewContract is the full contract surface used by the gateway.
type ReviewContract interface {
	ReviewRegistry
	TransactionBuilder

	// Connected reports whether the RPC endpoint answers.
	Connected(ctx context.Context) bool
}
