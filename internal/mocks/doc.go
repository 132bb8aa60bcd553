// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are built on testify/mock; the JWT service, password hasher,
// mail queue and event emitter mocks use function fields and record their
// calls, which keeps simple tests free of expectation setup.
//
// Usage:
//
//	users := new(mocks.MockUserStore)
//	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)
//
//	jwtService := &mocks.MockJWTService{Token: "mocked-token"}
package mocks
