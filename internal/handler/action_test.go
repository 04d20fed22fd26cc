package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/handler"
)

// mockActionService implements action.Service with overridable functions
type mockActionService struct {
	attemptFn func(ctx context.Context, actorID, actionKey string) (*domain.ActionOutcome, error)
	unlockFn  func(ctx context.Context, actorID, actionKey string) error
	historyFn func(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error)
}

func (m *mockActionService) Attempt(ctx context.Context, actorID, actionKey string) (*domain.ActionOutcome, error) {
	return m.attemptFn(ctx, actorID, actionKey)
}

func (m *mockActionService) Unlock(ctx context.Context, actorID, actionKey string) error {
	return m.unlockFn(ctx, actorID, actionKey)
}

func (m *mockActionService) History(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error) {
	return m.historyFn(ctx, actorID, limit)
}

func TestActionHandler_Attempt(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()

	tests := []struct {
		name           string
		requestBody    interface{}
		svc            *mockActionService
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "Craft Success",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "smelt_iron"},
			svc: &mockActionService{
				attemptFn: func(_ context.Context, id, key string) (*domain.ActionOutcome, error) {
					return &domain.ActionOutcome{
						Success:  true,
						Chance:   0.55,
						XPGained: 25,
						Outputs:  map[string]int{"iron_bar": 1},
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "Insufficient Materials",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "smelt_iron"},
			svc: &mockActionService{
				attemptFn: func(context.Context, string, string) (*domain.ActionOutcome, error) {
					return nil, domain.ErrInsufficientMaterials
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "not enough materials",
		},
		{
			name:        "Action Locked",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "forge_relic"},
			svc: &mockActionService{
				attemptFn: func(context.Context, string, string) (*domain.ActionOutcome, error) {
					return nil, domain.ErrActionLocked
				},
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "locked",
		},
		{
			name:        "Retired Action",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "old_recipe"},
			svc: &mockActionService{
				attemptFn: func(context.Context, string, string) (*domain.ActionOutcome, error) {
					return nil, domain.ErrActionInactive
				},
			},
			expectedStatus: http.StatusGone,
			expectedError:  "retired",
		},
		{
			name:        "Rate Limited",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "mine_copper"},
			svc: &mockActionService{
				attemptFn: func(context.Context, string, string) (*domain.ActionOutcome, error) {
					return nil, domain.ErrRateLimited
				},
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedError:  "too many requests",
		},
		{
			name:        "Dead Actor",
			requestBody: handler.AttemptActionRequest{ActorID: actorID, ActionKey: "mine_copper"},
			svc: &mockActionService{
				attemptFn: func(context.Context, string, string) (*domain.ActionOutcome, error) {
					return nil, domain.ErrActorDead
				},
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "fallen",
		},
		{
			name:           "Validation Error (Bad Key)",
			requestBody:    handler.AttemptActionRequest{ActorID: actorID, ActionKey: "Smelt Iron!"},
			svc:            &mockActionService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewActionHandler(tt.svc)

			body, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/action/attempt", bytes.NewReader(body))
			w := httptest.NewRecorder()

			h.Attempt(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, strings.ToLower(w.Body.String()), strings.ToLower(tt.expectedError))
			}

			if tt.expectedStatus == http.StatusOK {
				var outcome domain.ActionOutcome
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
				assert.True(t, outcome.Success)
				assert.Equal(t, 25, outcome.XPGained)
				assert.Equal(t, map[string]int{"iron_bar": 1}, outcome.Outputs)
			}
		})
	}
}

func TestActionHandler_Unlock(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()

	t.Run("unlocks action", func(t *testing.T) {
		var gotActor, gotAction string
		svc := &mockActionService{
			unlockFn: func(_ context.Context, id, key string) error {
				gotActor, gotAction = id, key
				return nil
			},
		}
		h := handler.NewActionHandler(svc)

		body, _ := json.Marshal(handler.UnlockActionRequest{ActorID: actorID, ActionKey: "smelt_iron"})
		req := httptest.NewRequest(http.MethodPost, "/action/unlock", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Unlock(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, actorID, gotActor)
		assert.Equal(t, "smelt_iron", gotAction)
		assert.Contains(t, w.Body.String(), handler.MsgActionUnlockedSuccess)
	})

	t.Run("unknown action returns 404", func(t *testing.T) {
		svc := &mockActionService{
			unlockFn: func(context.Context, string, string) error {
				return domain.ErrActionNotFound
			},
		}
		h := handler.NewActionHandler(svc)

		body, _ := json.Marshal(handler.UnlockActionRequest{ActorID: actorID, ActionKey: "no_such_action"})
		req := httptest.NewRequest(http.MethodPost, "/action/unlock", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Unlock(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestActionHandler_History(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()
	attempts := []domain.ActionAttempt{
		{ID: uuid.New(), ActorID: actorID, ActionKey: "smelt_iron", Success: true, XPGained: 25, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), ActorID: actorID, ActionKey: "mine_copper", Success: false, XPGained: 4, CreatedAt: time.Now().UTC().Add(-time.Minute)},
	}

	t.Run("returns history with default limit", func(t *testing.T) {
		var gotLimit int
		svc := &mockActionService{
			historyFn: func(_ context.Context, id string, limit int) ([]domain.ActionAttempt, error) {
				gotLimit = limit
				return attempts, nil
			},
		}
		h := handler.NewActionHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/action/history?actor_id="+actorID, nil)
		w := httptest.NewRecorder()

		h.History(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handler.DefaultHistoryLimit, gotLimit)
		assert.Contains(t, w.Body.String(), "smelt_iron")
	})

	t.Run("honors explicit limit", func(t *testing.T) {
		var gotLimit int
		svc := &mockActionService{
			historyFn: func(_ context.Context, id string, limit int) ([]domain.ActionAttempt, error) {
				gotLimit = limit
				return attempts[:1], nil
			},
		}
		h := handler.NewActionHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/action/history?actor_id="+actorID+"&limit=1", nil)
		w := httptest.NewRecorder()

		h.History(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, gotLimit)
	})

	t.Run("rejects malformed limit", func(t *testing.T) {
		h := handler.NewActionHandler(&mockActionService{})

		req := httptest.NewRequest(http.MethodGet, "/action/history?actor_id="+actorID+"&limit=bogus", nil)
		w := httptest.NewRecorder()

		h.History(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), handler.ErrMsgInvalidLimit)
	})
}
