package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lms/internal/adapters/lmsapi"
	"lms/internal/domain/user"
)

// signToken builds a bearer token the way the API would.
func signToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	claims := Claims{UserID: userID}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

type fakeAPI struct {
	mu         sync.Mutex
	loginToken string
	loginErr   error
	users      map[string]user.User
	userErr    error
	userCalls  int

	// With a gate set, the call signals entered and then waits for the gate.
	entered   chan struct{}
	loginGate chan struct{}
	userGate  chan struct{}
}

func (f *fakeAPI) block(gate chan struct{}) {
	if gate == nil {
		return
	}
	f.entered <- struct{}{}
	<-gate
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.block(f.loginGate)
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) GetUser(ctx context.Context, token, id string) (user.User, error) {
	f.block(f.userGate)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	if f.userErr != nil {
		return user.User{}, f.userErr
	}
	u, ok := f.users[id]
	if !ok {
		return user.User{}, &lmsapi.Error{StatusCode: 404, Message: "user not found"}
	}
	return u, nil
}

type fakeStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	err     error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tokens: map[string]string{}}
}

func (f *fakeStore) Get(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[id], f.err
}

func (f *fakeStore) Save(ctx context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tokens[id] = token
	return f.err
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, id)
	return f.err
}

func (f *fakeStore) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[id]
	return ok
}

var errNetwork = errors.New("dial tcp: connection refused")
