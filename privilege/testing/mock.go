// Package testing provides test doubles for code that depends on privilege.Manager.
package testing

import (
	"github.com/isseis/go-escalate/privilege"
	"github.com/stretchr/testify/mock"
)

// MockUID is the user id reported by mocks built with NewUserManager
const MockUID = 1000

// MockManager is a testify mock implementing privilege.Manager
type MockManager struct {
	mock.Mock
}

var _ privilege.Manager = (*MockManager)(nil)

// Check implements privilege.Manager
func (m *MockManager) Check() (privilege.RunningAs, error) {
	args := m.Called()
	return args.Get(0).(privilege.RunningAs), args.Error(1)
}

// Ensure implements privilege.Manager
func (m *MockManager) Ensure(prefixes ...string) (privilege.RunningAs, error) {
	args := m.Called(prefixes)
	return args.Get(0).(privilege.RunningAs), args.Error(1)
}

// Status implements privilege.Manager
func (m *MockManager) Status() privilege.Status {
	args := m.Called()
	return args.Get(0).(privilege.Status)
}

// NewRootManager returns a mock that reports Root and accepts any Ensure call
func NewRootManager() *MockManager {
	m := &MockManager{}
	m.On("Check").Return(privilege.Root, nil).Maybe()
	m.On("Ensure", mock.Anything).Return(privilege.Root, nil).Maybe()
	m.On("Status").Return(privilege.Status{State: privilege.Root.String(), HelperAvailable: true}).Maybe()
	return m
}

// NewUserManager returns a mock for an unprivileged process whose escalation
// fails with err, e.g. privilege.ErrHelperLaunchFailed.
func NewUserManager(err error) *MockManager {
	m := &MockManager{}
	m.On("Check").Return(privilege.User, nil).Maybe()
	m.On("Ensure", mock.Anything).Return(privilege.RunningAs(0), err).Maybe()
	m.On("Status").Return(privilege.Status{
		State:        privilege.User.String(),
		RealUID:      MockUID,
		EffectiveUID: MockUID,
	}).Maybe()
	return m
}
