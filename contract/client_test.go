package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// Tuple shapes used to encode fake contract responses. Field names follow the
// ABI component names.
type itemTuple struct {
	Id                     *big.Int
	Name                   string
	InfoIPFSHash           string
	AvailableOnDomainNames []string
	Rating                 *big.Int
}

type domainTuple struct {
	Id        *big.Int
	Name      string
	ItemNames []string
}

type reviewTuple struct {
	Id         *big.Int
	Reviewer   common.Address
	ItemName   string
	DomainName string
	Comment    string
	Rating     uint8
}

// fakeBackend answers eth_call with canned outputs keyed by method name.
type fakeBackend struct {
	abi       abi.ABI
	results   map[string][]interface{}
	calls     []ethereum.CallMsg
	estimates []ethereum.CallMsg
	gas       uint64
	callErr   error
	gasErr    error
	chainErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		abi:     DefaultABI(),
		results: map[string][]interface{}{},
		gas:     21000,
	}
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	if f.callErr != nil {
		return nil, f.callErr
	}
	method, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	outputs, ok := f.results[method.Name]
	if !ok {
		return nil, fmt.Errorf("no canned result for %s", method.Name)
	}
	return method.Outputs.Pack(outputs...)
}

func (f *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.estimates = append(f.estimates, msg)
	return f.gas, f.gasErr
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if f.chainErr != nil {
		return nil, f.chainErr
	}
	return big.NewInt(11155111), nil
}

var (
	testContract = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	testEditor   = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	testUser     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(backend, DefaultABI(), testContract, logger), backend
}

func TestClient_Items(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["getItems"] = []interface{}{[]itemTuple{
		{Id: big.NewInt(1), Name: "Widget", InfoIPFSHash: "QmWidget", AvailableOnDomainNames: []string{"a.com"}, Rating: big.NewInt(4)},
		{Id: big.NewInt(2), Name: "Gadget", AvailableOnDomainNames: []string{}, Rating: big.NewInt(0)},
	}}

	items, err := client.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []interfaces.Item{
		{ID: 1, Name: "Widget", InfoIPFSHash: "QmWidget", AvailableOnDomainNames: []string{"a.com"}, Rating: 4},
		{ID: 2, Name: "Gadget", AvailableOnDomainNames: []string{}, Rating: 0},
	}, items)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, testContract, *backend.calls[0].To)
}

func TestClient_ItemByName(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["getItem"] = []interface{}{itemTuple{
		Id: big.NewInt(7), Name: "Widget", AvailableOnDomainNames: []string{"a.com", "b.com"}, Rating: big.NewInt(3),
	}}

	item, err := client.Item(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), item.ID)
	assert.Equal(t, []string{"a.com", "b.com"}, item.AvailableOnDomainNames)

	method, err := backend.abi.MethodById(backend.calls[0].Data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(backend.calls[0].Data[4:])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Widget"}, args)
}

func TestClient_DomainsAndIDs(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["getDomains"] = []interface{}{[]domainTuple{
		{Id: big.NewInt(1), Name: "a.com", ItemNames: []string{"Widget"}},
	}}
	backend.results["getDomainID"] = []interface{}{big.NewInt(1)}
	backend.results["getItemID"] = []interface{}{big.NewInt(9)}

	domains, err := client.Domains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []interfaces.Domain{{ID: 1, Name: "a.com", ItemNames: []string{"Widget"}}}, domains)

	domainID, err := client.DomainID(context.Background(), "a.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), domainID)

	itemID, err := client.ItemID(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), itemID)
}

func TestClient_ReviewsDecodeNarrowRating(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["getReviewsForItemIDOfDomainByID"] = []interface{}{[]reviewTuple{
		{Id: big.NewInt(3), Reviewer: testUser, ItemName: "Widget", DomainName: "a.com", Comment: "solid", Rating: 5},
	}}

	reviews, err := client.ReviewsForItemIDOfDomainByID(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, []interfaces.Review{
		{ID: 3, Reviewer: testUser, ItemName: "Widget", DomainName: "a.com", Comment: "solid", Rating: 5},
	}, reviews)

	method, err := backend.abi.MethodById(backend.calls[0].Data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(backend.calls[0].Data[4:])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{big.NewInt(1), big.NewInt(9)}, args)
}

func TestClient_EmptyReviewList(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["getUserReviews"] = []interface{}{[]reviewTuple{}}

	reviews, err := client.UserReviews(context.Background(), testUser)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotNil(t, reviews)
}

func TestClient_IsAuthorizedEditor(t *testing.T) {
	client, backend := newTestClient(t)
	backend.results["isAuthorizedEditorAddress"] = []interface{}{true}
	backend.results["getAuthorizedEditors"] = []interface{}{[]common.Address{testEditor}}

	ok, err := client.IsAuthorizedEditor(context.Background(), testEditor)
	require.NoError(t, err)
	assert.True(t, ok)

	editors, err := client.AuthorizedEditors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{testEditor}, editors)
}

func TestClient_CallError(t *testing.T) {
	client, backend := newTestClient(t)
	backend.callErr = errors.New("connection refused")

	_, err := client.InfoIPFSHashOfItem(context.Background(), "Widget")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.callErr)
	assert.Contains(t, err.Error(), "getInfoIPFSHashOfItem")
}

func TestClient_AddReviewTx(t *testing.T) {
	client, backend := newTestClient(t)
	backend.gas = 100001

	tx, err := client.AddReviewTx(context.Background(), testUser, "a.com", "Widget", "solid", 5)
	require.NoError(t, err)

	require.NotNil(t, tx.From)
	assert.Equal(t, testUser, *tx.From)
	assert.Equal(t, testContract, tx.To)
	assert.Equal(t, uint64(120002), tx.Gas)

	require.Len(t, backend.estimates, 1)
	assert.Equal(t, testUser, backend.estimates[0].From)
	assert.Equal(t, []byte(tx.Data), backend.estimates[0].Data)

	method, err := backend.abi.MethodById(tx.Data[:4])
	require.NoError(t, err)
	assert.Equal(t, "addReview", method.Name)
	args, err := method.Inputs.Unpack(tx.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a.com", "Widget", "solid", big.NewInt(5)}, args)
}

func TestClient_TransactionBuilders(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		build  func() (*interfaces.UnsignedTransaction, error)
	}{
		{"add editor", "addAuthorizedEditor", func() (*interfaces.UnsignedTransaction, error) {
			return client.AddAuthorizedEditorTx(ctx, testEditor, testUser)
		}},
		{"remove editor", "removeAuthorizedEditor", func() (*interfaces.UnsignedTransaction, error) {
			return client.RemoveAuthorizedEditorTx(ctx, testEditor, testUser)
		}},
		{"add item", "addItem", func() (*interfaces.UnsignedTransaction, error) {
			return client.AddItemTx(ctx, testEditor, "Widget")
		}},
		{"update info hash", "updateInfoIPFSHashOfItem", func() (*interfaces.UnsignedTransaction, error) {
			return client.UpdateInfoIPFSHashOfItemTx(ctx, testEditor, "Widget", "QmWidget")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, uint64(25200), tx.Gas)
			assert.Equal(t, testEditor, *tx.From)

			method, err := backend.abi.MethodById(tx.Data[:4])
			require.NoError(t, err)
			assert.Equal(t, tt.method, method.Name)
		})
	}
}

func TestClient_GasEstimateError(t *testing.T) {
	client, backend := newTestClient(t)
	backend.gasErr = errors.New("execution reverted")

	_, err := client.AddItemTx(context.Background(), testUser, "Widget")
	assert.ErrorIs(t, err, backend.gasErr)
}

func TestClient_Connected(t *testing.T) {
	client, backend := newTestClient(t)
	assert.True(t, client.Connected(context.Background()))

	backend.chainErr = errors.New("dial tcp: connection refused")
	assert.False(t, client.Connected(context.Background()))
}

func TestUnsignedTransaction_JSON(t *testing.T) {
	client, _ := newTestClient(t)

	tx, err := client.AddItemTx(context.Background(), testUser, "Widget")
	require.NoError(t, err)

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "25200", decoded["gas"])
	assert.Equal(t, "0x00000000000000000000000000000000000000a1", decoded["from"])
	assert.Regexp(t, "^0x[0-9a-f]+$", decoded["data"])
}

func TestPadGas(t *testing.T) {
	tests := []struct {
		estimate uint64
		want     uint64
	}{
		{0, 0},
		{1, 2},
		{10, 12},
		{21000, 25200},
		{100001, 120002},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PadGas(tt.estimate), "estimate %d", tt.estimate)
	}
}

func TestCoerceArg(t *testing.T) {
	uint8Type, err := abi.NewType("uint8", "", nil)
	require.NoError(t, err)
	uint256Type, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	int32Type, err := abi.NewType("int32", "", nil)
	require.NoError(t, err)
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)

	v, err := coerceArg(uint8Type, uint64(5))
	require.NoError(t, err)
	assert.Equal(t, uint8(5), v)

	_, err = coerceArg(uint8Type, uint64(300))
	assert.Error(t, err)

	v, err = coerceArg(uint256Type, uint64(5))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), v)

	v, err = coerceArg(int32Type, uint64(7))
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	v, err = coerceArg(stringType, "Widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", v)
}

func TestParseABI(t *testing.T) {
	t.Run("compiler artifact", func(t *testing.T) {
		artifact := fmt.Sprintf(`{"abi": %s, "bytecode": "0x00"}`, defaultABI)
		parsed, err := ParseABI([]byte(artifact))
		require.NoError(t, err)
		assert.Contains(t, parsed.Methods, "addReview")
	})

	t.Run("missing methods", func(t *testing.T) {
		_, err := ParseABI([]byte(`[{"type":"function","name":"getItems","inputs":[],"outputs":[],"stateMutability":"view"}]`))
		assert.ErrorIs(t, err, ErrIncompleteABI)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseABI([]byte(`[{`))
		assert.Error(t, err)
	})
}

func TestLoadABI(t *testing.T) {
	parsed, err := LoadABI("")
	require.NoError(t, err)
	assert.Len(t, parsed.Methods, len(requiredMethods))

	parsed, err = LoadABI(string(defaultABI))
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "getItems")

	path := filepath.Join(t.TempDir(), "Reviews.json")
	require.NoError(t, os.WriteFile(path, defaultABI, 0644))
	parsed, err = LoadABI(path)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "getReviews")

	_, err = LoadABI(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
