package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// ErrMethodNotFound is returned when the loaded ABI has no method by the given name.
var ErrMethodNotFound = errors.New("method not found in contract ABI")

// Backend is the subset of an Ethereum RPC client the review client needs.
// *ethclient.Client satisfies it.
type Backend interface {
	ethereum.ContractCaller
	ethereum.GasEstimator
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client implements interfaces.ReviewContract against a deployed review
// contract. Reads go through eth_call. Writes are never sent: the client
// returns the encoded call with a padded gas estimate for a wallet to sign.
type Client struct {
	backend Backend
	abi     abi.ABI
	address common.Address
	log     *slog.Logger
}

// NewClient creates a review contract client for the contract at address.
func NewClient(backend Backend, contractABI abi.ABI, address common.Address, log *slog.Logger) *Client {
	return &Client{
		backend: backend,
		abi:     contractABI,
		address: address,
		log:     log,
	}
}

// Address returns the contract address.
func (c *Client) Address() common.Address {
	return c.address
}

// Connected reports whether the RPC endpoint answers a chain id query.
func (c *Client) Connected(ctx context.Context) bool {
	_, err := c.backend.ChainID(ctx)
	if err != nil {
		c.log.Warn("Web3 endpoint is not reachable", "err", err)
		return false
	}
	return true
}

// pack ABI-encodes a call, coercing integer arguments to the declared widths.
func (c *Client) pack(name string, args ...interface{}) ([]byte, error) {
	method, ok := c.abi.Methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, name)
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", name, len(method.Inputs), len(args))
	}

	coerced := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := coerceArg(method.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %s of %s: %w", method.Inputs[i].Name, name, err)
		}
		coerced[i] = v
	}

	data, err := c.abi.Pack(name, coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return data, nil
}

// call runs a read-only method and returns its first output value.
func (c *Client) call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	data, err := c.pack(name, args...)
	if err != nil {
		return nil, err
	}

	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}

	values, err := c.abi.Unpack(name, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", name, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s returned no values", ErrUnexpectedOutput, name)
	}
	return values[0], nil
}

// buildTx encodes a state-changing call from initiator and pads the node's
// gas estimate by 20%, rounded up.
func (c *Client) buildTx(ctx context.Context, initiator common.Address, name string, args ...interface{}) (*interfaces.UnsignedTransaction, error) {
	data, err := c.pack(name, args...)
	if err != nil {
		return nil, err
	}

	estimate, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: initiator,
		To:   &c.address,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas for %s: %w", name, err)
	}

	from := initiator
	tx := &interfaces.UnsignedTransaction{
		From: &from,
		To:   c.address,
		Gas:  PadGas(estimate),
		Data: data,
	}

	c.log.Debug("Built unsigned transaction",
		slog.String("method", name),
		slog.String("from", initiator.Hex()),
		slog.Uint64("gasEstimate", estimate),
		slog.Uint64("gas", tx.Gas))

	return tx, nil
}

// PadGas returns ceil(estimate * 1.2).
func PadGas(estimate uint64) uint64 {
	return (estimate*12 + 9) / 10
}

// IsAuthorizedEditor reports whether address is an authorized editor.
func (c *Client) IsAuthorizedEditor(ctx context.Context, address common.Address) (bool, error) {
	v, err := c.call(ctx, "isAuthorizedEditorAddress", address)
	if err != nil {
		return false, err
	}
	ok, isBool := v.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrUnexpectedOutput, v)
	}
	return ok, nil
}

// AuthorizedEditors lists all authorized editor addresses.
func (c *Client) AuthorizedEditors(ctx context.Context) ([]common.Address, error) {
	v, err := c.call(ctx, "getAuthorizedEditors")
	if err != nil {
		return nil, err
	}
	return decodeAddresses(v)
}

// Item returns the item by name. Unknown items come back zero-valued with an
// empty name.
func (c *Client) Item(ctx context.Context, itemName string) (interfaces.Item, error) {
	v, err := c.call(ctx, "getItem", itemName)
	if err != nil {
		return interfaces.Item{}, err
	}
	return decodeItem(v)
}

func (c *Client) ItemByID(ctx context.Context, itemID uint64) (interfaces.Item, error) {
	v, err := c.call(ctx, "getItemByID", itemID)
	if err != nil {
		return interfaces.Item{}, err
	}
	return decodeItem(v)
}

func (c *Client) ItemID(ctx context.Context, itemName string) (uint64, error) {
	v, err := c.call(ctx, "getItemID", itemName)
	if err != nil {
		return 0, err
	}
	return toUint64(v)
}

func (c *Client) Items(ctx context.Context) ([]interfaces.Item, error) {
	v, err := c.call(ctx, "getItems")
	if err != nil {
		return nil, err
	}
	return decodeList(v, decodeItem)
}

func (c *Client) InfoIPFSHashOfItem(ctx context.Context, itemName string) (string, error) {
	v, err := c.call(ctx, "getInfoIPFSHashOfItem", itemName)
	if err != nil {
		return "", err
	}
	return toString(v)
}

func (c *Client) Domain(ctx context.Context, domainName string) (interfaces.Domain, error) {
	v, err := c.call(ctx, "getDomain", domainName)
	if err != nil {
		return interfaces.Domain{}, err
	}
	return decodeDomain(v)
}

func (c *Client) DomainByID(ctx context.Context, domainID uint64) (interfaces.Domain, error) {
	v, err := c.call(ctx, "getDomainByID", domainID)
	if err != nil {
		return interfaces.Domain{}, err
	}
	return decodeDomain(v)
}

func (c *Client) DomainID(ctx context.Context, domainName string) (uint64, error) {
	v, err := c.call(ctx, "getDomainID", domainName)
	if err != nil {
		return 0, err
	}
	return toUint64(v)
}

func (c *Client) Domains(ctx context.Context) ([]interfaces.Domain, error) {
	v, err := c.call(ctx, "getDomains")
	if err != nil {
		return nil, err
	}
	return decodeList(v, decodeDomain)
}

func (c *Client) Reviews(ctx context.Context) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviews")
}

func (c *Client) ReviewByID(ctx context.Context, reviewID uint64) (interfaces.Review, error) {
	v, err := c.call(ctx, "getReviewByID", reviewID)
	if err != nil {
		return interfaces.Review{}, err
	}
	return decodeReview(v)
}

func (c *Client) ReviewsForItem(ctx context.Context, itemName string) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItem", itemName)
}

func (c *Client) ReviewsForItemByID(ctx context.Context, itemID uint64) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItemByID", itemID)
}

func (c *Client) ReviewsForDomain(ctx context.Context, domainName string) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForDomain", domainName)
}

func (c *Client) ReviewsForDomainByID(ctx context.Context, domainID uint64) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForDomainByID", domainID)
}

func (c *Client) UserReviews(ctx context.Context, address common.Address) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getUserReviews", address)
}

func (c *Client) ReviewsForItemOfDomain(ctx context.Context, domainName, itemName string) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItemOfDomain", domainName, itemName)
}

func (c *Client) ReviewsForItemIDOfDomain(ctx context.Context, domainName string, itemID uint64) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItemIDOfDomain", domainName, itemID)
}

func (c *Client) ReviewsForItemOfDomainByID(ctx context.Context, domainID uint64, itemName string) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItemOfDomainByID", domainID, itemName)
}

func (c *Client) ReviewsForItemIDOfDomainByID(ctx context.Context, domainID, itemID uint64) ([]interfaces.Review, error) {
	return c.reviews(ctx, "getReviewsForItemIDOfDomainByID", domainID, itemID)
}

func (c *Client) reviews(ctx context.Context, method string, args ...interface{}) ([]interfaces.Review, error) {
	v, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return decodeList(v, decodeReview)
}

// AddAuthorizedEditorTx prepares addAuthorizedEditor(editor) sent by initiator.
func (c *Client) AddAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*interfaces.UnsignedTransaction, error) {
	return c.buildTx(ctx, initiator, "addAuthorizedEditor", editor)
}

// RemoveAuthorizedEditorTx prepares removeAuthorizedEditor(editor) sent by initiator.
func (c *Client) RemoveAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*interfaces.UnsignedTransaction, error) {
	return c.buildTx(ctx, initiator, "removeAuthorizedEditor", editor)
}

// AddItemTx prepares addItem(itemName) sent by initiator.
func (c *Client) AddItemTx(ctx context.Context, initiator common.Address, itemName string) (*interfaces.UnsignedTransaction, error) {
	return c.buildTx(ctx, initiator, "addItem", itemName)
}

// AddReviewTx prepares addReview(domainName, itemName, comment, rating) sent by initiator.
func (c *Client) AddReviewTx(ctx context.Context, initiator common.Address, domainName, itemName, comment string, rating uint64) (*interfaces.UnsignedTransaction, error) {
	return c.buildTx(ctx, initiator, "addReview", domainName, itemName, comment, rating)
}

// UpdateInfoIPFSHashOfItemTx prepares updateInfoIPFSHashOfItem(itemName, ipfsHash) sent by initiator.
func (c *Client) UpdateInfoIPFSHashOfItemTx(ctx context.Context, initiator common.Address, itemName, ipfsHash string) (*interfaces.UnsignedTransaction, error) {
	return c.buildTx(ctx, initiator, "updateInfoIPFSHashOfItem", itemName, ipfsHash)
}

var _ interfaces.ReviewContract = (*Client)(nil)
