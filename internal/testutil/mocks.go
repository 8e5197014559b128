package testutil

import (
	"context"

	"github.com/hemantapkh/NcellBot/internal/carrier"
	"github.com/hemantapkh/NcellBot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreate(telegramID int64) (*domain.User, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAccountRepository is a mock for AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) List(userID int64) ([]domain.LinkedAccount, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LinkedAccount), args.Error(1)
}

func (m *MockAccountRepository) Get(userID, accountID int64) (*domain.LinkedAccount, error) {
	args := m.Called(userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkedAccount), args.Error(1)
}

func (m *MockAccountRepository) Create(userID int64, msisdn, token string) (*domain.LinkedAccount, error) {
	args := m.Called(userID, msisdn, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkedAccount), args.Error(1)
}

func (m *MockAccountRepository) Delete(userID, accountID int64) error {
	args := m.Called(userID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateToken(userID, accountID int64, token string) error {
	args := m.Called(userID, accountID, token)
	return args.Error(0)
}

func (m *MockAccountRepository) DefaultID(userID int64) (*int64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockAccountRepository) SetDefault(userID int64, accountID *int64) error {
	args := m.Called(userID, accountID)
	return args.Error(0)
}

// MockTempRepository is a mock for TempRepository
type MockTempRepository struct {
	mock.Mock
}

func (m *MockTempRepository) Put(userID int64, key, value string) error {
	args := m.Called(userID, key, value)
	return args.Error(0)
}

func (m *MockTempRepository) Get(userID int64, key string) (string, error) {
	args := m.Called(userID, key)
	return args.String(0), args.Error(1)
}

func (m *MockTempRepository) Delete(userID int64, key string) error {
	args := m.Called(userID, key)
	return args.Error(0)
}

// MockCarrier is a mock for carrier.Client
type MockCarrier struct {
	mock.Mock
}

func (m *MockCarrier) SendOTP(ctx context.Context, msisdn string) (carrier.Response, error) {
	args := m.Called(ctx, msisdn)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockCarrier) ExchangeOTP(ctx context.Context, msisdn, code string) (carrier.Response, string, error) {
	args := m.Called(ctx, msisdn, code)
	return args.Get(0).(carrier.Response), args.String(1), args.Error(2)
}

func (m *MockCarrier) Account(token string, onRefresh func(string)) carrier.AccountAPI {
	args := m.Called(token, onRefresh)
	return args.Get(0).(carrier.AccountAPI)
}

// MockAccountAPI is a mock for carrier.AccountAPI
type MockAccountAPI struct {
	mock.Mock
}

func (m *MockAccountAPI) ViewBalance(ctx context.Context) (carrier.Response, error) {
	args := m.Called(ctx)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) ViewProfile(ctx context.Context) (carrier.Response, error) {
	args := m.Called(ctx)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) SelfRecharge(ctx context.Context, pin string) (carrier.Response, error) {
	args := m.Called(ctx, pin)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) Recharge(ctx context.Context, msisdn, pin string) (carrier.Response, error) {
	args := m.Called(ctx, msisdn, pin)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) OnlineRecharge(ctx context.Context, amount, msisdn string) (carrier.Response, error) {
	args := m.Called(ctx, amount, msisdn)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) SendSMS(ctx context.Context, destination, text string, free bool) (carrier.Response, error) {
	args := m.Called(ctx, destination, text, free)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) Plans(ctx context.Context, planType, categoryID string) (carrier.Response, error) {
	args := m.Called(ctx, planType, categoryID)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) SubscribedProducts(ctx context.Context) (carrier.Response, error) {
	args := m.Called(ctx)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) Subscribe(ctx context.Context, code string) (carrier.Response, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) Unsubscribe(ctx context.Context, code string) (carrier.Response, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(carrier.Response), args.Error(1)
}

func (m *MockAccountAPI) TakeLoan(ctx context.Context) (carrier.Response, error) {
	args := m.Called(ctx)
	return args.Get(0).(carrier.Response), args.Error(1)
}
