package contract

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// MockReviewContract mocks the ReviewContract interface
type MockReviewContract struct {
	mock.Mock
}

func (m *MockReviewContract) Connected(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockReviewContract) IsAuthorizedEditor(ctx context.Context, address common.Address) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewContract) AuthorizedEditors(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

func (m *MockReviewContract) Item(ctx context.Context, itemName string) (interfaces.Item, error) {
	args := m.Called(ctx, itemName)
	return args.Get(0).(interfaces.Item), args.Error(1)
}

func (m *MockReviewContract) ItemByID(ctx context.Context, itemID uint64) (interfaces.Item, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(interfaces.Item), args.Error(1)
}

func (m *MockReviewContract) ItemID(ctx context.Context, itemName string) (uint64, error) {
	args := m.Called(ctx, itemName)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockReviewContract) Items(ctx context.Context) ([]interfaces.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Item), args.Error(1)
}

func (m *MockReviewContract) InfoIPFSHashOfItem(ctx context.Context, itemName string) (string, error) {
	args := m.Called(ctx, itemName)
	return args.String(0), args.Error(1)
}

func (m *MockReviewContract) Domain(ctx context.Context, domainName string) (interfaces.Domain, error) {
	args := m.Called(ctx, domainName)
	return args.Get(0).(interfaces.Domain), args.Error(1)
}

func (m *MockReviewContract) DomainByID(ctx context.Context, domainID uint64) (interfaces.Domain, error) {
	args := m.Called(ctx, domainID)
	return args.Get(0).(interfaces.Domain), args.Error(1)
}

func (m *MockReviewContract) DomainID(ctx context.Context, domainName string) (uint64, error) {
	args := m.Called(ctx, domainName)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockReviewContract) Domains(ctx context.Context) ([]interfaces.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Domain), args.Error(1)
}

func (m *MockReviewContract) reviews(args mock.Arguments) ([]interfaces.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Review), args.Error(1)
}

func (m *MockReviewContract) Reviews(ctx context.Context) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx))
}

func (m *MockReviewContract) ReviewByID(ctx context.Context, reviewID uint64) (interfaces.Review, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(interfaces.Review), args.Error(1)
}

func (m *MockReviewContract) ReviewsForItem(ctx context.Context, itemName string) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, itemName))
}

func (m *MockReviewContract) ReviewsForItemByID(ctx context.Context, itemID uint64) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, itemID))
}

func (m *MockReviewContract) ReviewsForDomain(ctx context.Context, domainName string) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainName))
}

func (m *MockReviewContract) ReviewsForDomainByID(ctx context.Context, domainID uint64) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainID))
}

func (m *MockReviewContract) UserReviews(ctx context.Context, address common.Address) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, address))
}

func (m *MockReviewContract) ReviewsForItemOfDomain(ctx context.Context, domainName, itemName string) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainName, itemName))
}

func (m *MockReviewContract) ReviewsForItemIDOfDomain(ctx context.Context, domainName string, itemID uint64) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainName, itemID))
}

func (m *MockReviewContract) ReviewsForItemOfDomainByID(ctx context.Context, domainID uint64, itemName string) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainID, itemName))
}

func (m *MockReviewContract) ReviewsForItemIDOfDomainByID(ctx context.Context, domainID, itemID uint64) ([]interfaces.Review, error) {
	return m.reviews(m.Called(ctx, domainID, itemID))
}

func (m *MockReviewContract) tx(args mock.Arguments) (*interfaces.UnsignedTransaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.UnsignedTransaction), args.Error(1)
}

func (m *MockReviewContract) AddAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*interfaces.UnsignedTransaction, error) {
	return m.tx(m.Called(ctx, initiator, editor))
}

func (m *MockReviewContract) RemoveAuthorizedEditorTx(ctx context.Context, initiator, editor common.Address) (*interfaces.UnsignedTransaction, error) {
	return m.tx(m.Called(ctx, initiator, editor))
}

func (m *MockReviewContract) AddItemTx(ctx context.Context, initiator common.Address, itemName string) (*interfaces.UnsignedTransaction, error) {
	return m.tx(m.Called(ctx, initiator, itemName))
}

func (m *MockReviewContract) AddReviewTx(ctx context.Context, initiator common.Address, domainName, itemName, comment string, rating uint64) (*interfaces.UnsignedTransaction, error) {
	return m.tx(m.Called(ctx, initiator, domainName, itemName, comment, rating))
}

func (m *MockReviewContract) UpdateInfoIPFSHashOfItemTx(ctx context.Context, initiator common.Address, itemName, ipfsHash string) (*interfaces.UnsignedTransaction, error) {
	return m.tx(m.Called(ctx, initiator, itemName, ipfsHash))
}

var _ interfaces.ReviewContract = (*MockReviewContract)(nil)
