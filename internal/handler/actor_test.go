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

	"github.com/ravenholt/Emberfell_Go/internal/actor"
	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/handler"
)

// mockActorService implements actor.Service with overridable functions
type mockActorService struct {
	registerFn   func(ctx context.Context, name string) (*domain.Actor, error)
	getFn        func(ctx context.Context, actorID string) (*domain.Actor, error)
	regenFn      func(ctx context.Context, actorID string) (*domain.ResourcePool, error)
	equipSkillFn func(ctx context.Context, actorID string, slot int, skillKey string) (*domain.SkillSlots, error)
	clearSkillFn func(ctx context.Context, actorID string, slot int) (*domain.SkillSlots, error)
	tracksFn     func(ctx context.Context, actorID string) ([]actor.TrackProgress, error)
}

func (m *mockActorService) Register(ctx context.Context, name string) (*domain.Actor, error) {
	return m.registerFn(ctx, name)
}

func (m *mockActorService) Get(ctx context.Context, actorID string) (*domain.Actor, error) {
	return m.getFn(ctx, actorID)
}

func (m *mockActorService) Regen(ctx context.Context, actorID string) (*domain.ResourcePool, error) {
	return m.regenFn(ctx, actorID)
}

func (m *mockActorService) EquipSkill(ctx context.Context, actorID string, slot int, skillKey string) (*domain.SkillSlots, error) {
	return m.equipSkillFn(ctx, actorID, slot, skillKey)
}

func (m *mockActorService) ClearSkill(ctx context.Context, actorID string, slot int) (*domain.SkillSlots, error) {
	return m.clearSkillFn(ctx, actorID, slot)
}

func (m *mockActorService) Tracks(ctx context.Context, actorID string) ([]actor.TrackProgress, error) {
	return m.tracksFn(ctx, actorID)
}

func testActor(id, name string) *domain.Actor {
	return &domain.Actor{
		ID:       id,
		Name:     name,
		Strength: 5,
		Vitality: 5,
		Pool: domain.ResourcePool{
			HP: 50, MaxHP: 50, SP: 20, MaxSP: 20,
			HPRegenPerMinute: 5, SPRegenPerMinute: 2,
			LastRegenAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestActorHandler_Register(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()

	tests := []struct {
		name           string
		requestBody    interface{}
		svc            *mockActorService
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "Success",
			requestBody: handler.RegisterActorRequest{Name: "Aldric"},
			svc: &mockActorService{
				registerFn: func(_ context.Context, name string) (*domain.Actor, error) {
					return testActor(actorID, name), nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Name Taken",
			requestBody: handler.RegisterActorRequest{Name: "Aldric"},
			svc: &mockActorService{
				registerFn: func(context.Context, string) (*domain.Actor, error) {
					return nil, domain.ErrNameTaken
				},
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "already taken",
		},
		{
			name:           "Validation Error (Short Name)",
			requestBody:    handler.RegisterActorRequest{Name: "Al"},
			svc:            &mockActorService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:           "Malformed JSON",
			requestBody:    "not-json",
			svc:            &mockActorService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewActorHandler(tt.svc)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/actor/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			h.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, strings.ToLower(w.Body.String()), strings.ToLower(tt.expectedError))
			}

			if tt.expectedStatus == http.StatusCreated {
				var got domain.Actor
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, actorID, got.ID)
				assert.Equal(t, "Aldric", got.Name)
				assert.Equal(t, 50, got.Pool.MaxHP)
			}
		})
	}
}

func TestActorHandler_Get(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()
	svc := &mockActorService{
		getFn: func(_ context.Context, id string) (*domain.Actor, error) {
			if id != actorID {
				return nil, domain.ErrActorNotFound
			}
			return testActor(actorID, "Aldric"), nil
		},
	}
	h := handler.NewActorHandler(svc)

	t.Run("returns actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/actor?actor_id="+actorID, nil)
		w := httptest.NewRecorder()

		h.Get(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.Actor
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Aldric", got.Name)
	})

	t.Run("unknown actor returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/actor?actor_id="+uuid.NewString(), nil)
		w := httptest.NewRecorder()

		h.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing actor_id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/actor", nil)
		w := httptest.NewRecorder()

		h.Get(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "actor_id")
	})
}

func TestActorHandler_Regen(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()

	t.Run("returns updated pool", func(t *testing.T) {
		svc := &mockActorService{
			regenFn: func(_ context.Context, id string) (*domain.ResourcePool, error) {
				return &domain.ResourcePool{HP: 35, MaxHP: 50, SP: 16, MaxSP: 20}, nil
			},
		}
		h := handler.NewActorHandler(svc)

		body, _ := json.Marshal(handler.RegenRequest{ActorID: actorID})
		req := httptest.NewRequest(http.MethodPost, "/actor/regen", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Regen(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var pool domain.ResourcePool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
		assert.Equal(t, 35, pool.HP)
		assert.Equal(t, 16, pool.SP)
	})

	t.Run("dead actor returns 409", func(t *testing.T) {
		svc := &mockActorService{
			regenFn: func(context.Context, string) (*domain.ResourcePool, error) {
				return nil, domain.ErrActorDead
			},
		}
		h := handler.NewActorHandler(svc)

		body, _ := json.Marshal(handler.RegenRequest{ActorID: actorID})
		req := httptest.NewRequest(http.MethodPost, "/actor/regen", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Regen(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "fallen")
	})

	t.Run("non-uuid actor_id rejected", func(t *testing.T) {
		h := handler.NewActorHandler(&mockActorService{})

		body, _ := json.Marshal(handler.RegenRequest{ActorID: "not-a-uuid"})
		req := httptest.NewRequest(http.MethodPost, "/actor/regen", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Regen(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActorHandler_Loadout(t *testing.T) {
	handler.InitValidator()

	actorID := uuid.NewString()
	slot := 2

	t.Run("equip returns loadout", func(t *testing.T) {
		svc := &mockActorService{
			equipSkillFn: func(_ context.Context, id string, gotSlot int, skillKey string) (*domain.SkillSlots, error) {
				assert.Equal(t, actorID, id)
				assert.Equal(t, slot, gotSlot)
				assert.Equal(t, "power_strike", skillKey)
				var slots domain.SkillSlots
				require.NoError(t, slots.Equip(gotSlot, skillKey))
				return &slots, nil
			},
		}
		h := handler.NewActorHandler(svc)

		body, _ := json.Marshal(handler.EquipSkillRequest{ActorID: actorID, Slot: &slot, SkillKey: "power_strike"})
		req := httptest.NewRequest(http.MethodPost, "/actor/loadout/equip", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.EquipSkill(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "power_strike")
	})

	t.Run("invalid slot returns 400", func(t *testing.T) {
		svc := &mockActorService{
			equipSkillFn: func(context.Context, string, int, string) (*domain.SkillSlots, error) {
				return nil, domain.ErrInvalidSlot
			},
		}
		h := handler.NewActorHandler(svc)

		big := 99
		body, _ := json.Marshal(handler.EquipSkillRequest{ActorID: actorID, Slot: &big, SkillKey: "power_strike"})
		req := httptest.NewRequest(http.MethodPost, "/actor/loadout/equip", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.EquipSkill(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("clear returns loadout", func(t *testing.T) {
		svc := &mockActorService{
			clearSkillFn: func(_ context.Context, id string, gotSlot int) (*domain.SkillSlots, error) {
				return &domain.SkillSlots{}, nil
			},
		}
		h := handler.NewActorHandler(svc)

		body, _ := json.Marshal(handler.ClearSkillRequest{ActorID: actorID, Slot: &slot})
		req := httptest.NewRequest(http.MethodPost, "/actor/loadout/clear", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.ClearSkill(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), handler.MsgSkillClearedSuccess)
	})
}
